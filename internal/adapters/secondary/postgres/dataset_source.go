package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/desk-metrics/internal/config"
	"github.com/lorrc/desk-metrics/internal/core/domain"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// Source is the secondary adapter that loads the dataset from Postgres, for
// deployments where the exports are ingested into a warehouse instead of
// shipped as files. The same reporting rules apply as for the CSV source:
// regions are derived from locations and excluded locations are dropped.
type Source struct {
	pool  *pgxpool.Pool
	rules *config.Reporting
}

var _ ports.DatasetSource = (*Source)(nil)

// NewSource creates a Postgres dataset source.
func NewSource(pool *pgxpool.Pool, rules *config.Reporting) *Source {
	return &Source{pool: pool, rules: rules}
}

const selectIncidents = `
SELECT number, created_at, opened_at, resolved_at, closed_at,
       location, assignment_group, resolved_by,
       reopen_count, reassignment_count, made_sla
FROM incidents
ORDER BY created_at`

// LoadIncidents reads the full incident table.
func (s *Source) LoadIncidents(ctx context.Context) ([]domain.Incident, error) {
	rows, err := s.pool.Query(ctx, selectIncidents)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}

	incidents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Incident, error) {
		var i domain.Incident
		err := row.Scan(&i.Number, &i.CreatedAt, &i.OpenedAt, &i.ResolvedAt, &i.ClosedAt,
			&i.Location, &i.AssignmentGroup, &i.ResolvedBy,
			&i.ReopenCount, &i.ReassignmentCount, &i.MadeSLA)
		i.Region = s.rules.RegionFor(i.Location)
		return i, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan incidents: %w", err)
	}

	return s.filterIncidents(incidents), nil
}

const selectConsultations = `
SELECT id, created_at, modified_at, location, technician, issue,
       consult_type, completed, incident_number
FROM consultations
ORDER BY created_at`

// LoadConsultations reads the full consultation table.
func (s *Source) LoadConsultations(ctx context.Context) ([]domain.Consultation, error) {
	rows, err := s.pool.Query(ctx, selectConsultations)
	if err != nil {
		return nil, fmt.Errorf("query consultations: %w", err)
	}

	consultations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Consultation, error) {
		var c domain.Consultation
		err := row.Scan(&c.ID, &c.CreatedAt, &c.ModifiedAt, &c.Location, &c.Technician,
			&c.Issue, &c.Type, &c.Completed, &c.IncidentNumber)
		c.Region = s.rules.RegionFor(c.Location)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan consultations: %w", err)
	}

	return s.filterConsultations(consultations), nil
}

func (s *Source) filterIncidents(incidents []domain.Incident) []domain.Incident {
	out := incidents[:0]
	for _, i := range incidents {
		if !s.rules.Excluded(i.Location) {
			out = append(out, i)
		}
	}
	return out
}

func (s *Source) filterConsultations(consultations []domain.Consultation) []domain.Consultation {
	out := consultations[:0]
	for _, c := range consultations {
		if !s.rules.Excluded(c.Location) {
			out = append(out, c)
		}
	}
	return out
}
