package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/desk-metrics/internal/config"
	"github.com/lorrc/desk-metrics/internal/core/domain"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// Incident export column names.
const (
	colNumber          = "Number"
	colCreated         = "Created"
	colOpened          = "Opened"
	colResolved        = "Resolved"
	colClosed          = "Closed"
	colLocation        = "Location"
	colAssignmentGroup = "Assignment group"
	colResolvedBy      = "Resolved by"
	colReopenCount     = "Reopen count"
	colReassignments   = "Reassignment count"
	colMadeSLA         = "Made SLA"
)

// Consultation export column names.
const (
	colID             = "ID"
	colModified       = "Modified"
	colTechnician     = "Technician Name"
	colIssue          = "Issue"
	colConsultDefined = "Consultation Defined"
	colComplete       = "Consult Complete"
	colIncidentRef    = "INC #"
)

// dateLayouts are the timestamp formats observed across export variants. The
// ticketing system is not consistent about them, so each value is tried
// against all layouts in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"02-01-2006 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// Source is the secondary adapter that loads the dataset from raw CSV
// exports. Rows with an unreadable creation timestamp are skipped with a
// warning rather than failing the whole load; rows in excluded locations are
// dropped silently.
type Source struct {
	incidentsPath     string
	consultationsPath string
	rules             *config.Reporting
	logger            *slog.Logger
}

var _ ports.DatasetSource = (*Source)(nil)

// NewSource creates a CSV dataset source.
func NewSource(incidentsPath, consultationsPath string, rules *config.Reporting, logger *slog.Logger) *Source {
	return &Source{
		incidentsPath:     incidentsPath,
		consultationsPath: consultationsPath,
		rules:             rules,
		logger:            logger.With("component", "csvstore"),
	}
}

// LoadIncidents reads the incident export.
func (s *Source) LoadIncidents(ctx context.Context) ([]domain.Incident, error) {
	var incidents []domain.Incident

	err := s.readFile(ctx, s.incidentsPath, func(row *row) {
		location := row.str(colLocation)
		if s.rules.Excluded(location) {
			return
		}

		created, ok := parseDate(row.str(colCreated))
		if !ok {
			s.logger.Warn("skipping incident with unreadable creation time",
				"number", row.str(colNumber), "value", row.str(colCreated))
			return
		}

		incidents = append(incidents, domain.Incident{
			Number:            row.str(colNumber),
			CreatedAt:         created,
			OpenedAt:          row.timePtr(colOpened),
			ResolvedAt:        row.timePtr(colResolved),
			ClosedAt:          row.timePtr(colClosed),
			Location:          location,
			Region:            s.rules.RegionFor(location),
			AssignmentGroup:   row.str(colAssignmentGroup),
			ResolvedBy:        row.str(colResolvedBy),
			ReopenCount:       row.intPtr(colReopenCount),
			ReassignmentCount: row.intPtr(colReassignments),
			MadeSLA:           row.boolPtr(colMadeSLA),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load incidents: %w", err)
	}

	return incidents, nil
}

// LoadConsultations reads the consultation export.
func (s *Source) LoadConsultations(ctx context.Context) ([]domain.Consultation, error) {
	var consultations []domain.Consultation

	err := s.readFile(ctx, s.consultationsPath, func(row *row) {
		location := row.str(colLocation)
		if s.rules.Excluded(location) {
			return
		}

		created, ok := parseDate(row.str(colCreated))
		if !ok {
			s.logger.Warn("skipping consultation with unreadable creation time",
				"id", row.str(colID), "value", row.str(colCreated))
			return
		}

		consultations = append(consultations, domain.Consultation{
			ID:             row.str(colID),
			CreatedAt:      created,
			ModifiedAt:     row.timePtr(colModified),
			Location:       location,
			Region:         s.rules.RegionFor(location),
			Technician:     row.str(colTechnician),
			Issue:          row.str(colIssue),
			Type:           row.str(colConsultDefined),
			Completed:      parseBool(row.str(colComplete)),
			IncidentNumber: row.str(colIncidentRef),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load consultations: %w", err)
	}

	return consultations, nil
}

// readFile streams path row by row through handle. Columns are resolved by
// header name, so the export's column order does not matter.
func (s *Source) readFile(ctx context.Context, path string, handle func(*row)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}

		handle(&row{index: index, values: record})
	}
}

// row is one CSV record with header-based field access. Every accessor
// tolerates a missing column, returning the zero value.
type row struct {
	index  map[string]int
	values []string
}

func (r *row) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r *row) timePtr(col string) *time.Time {
	if t, ok := parseDate(r.str(col)); ok {
		return &t
	}
	return nil
}

func (r *row) intPtr(col string) *int {
	v := r.str(col)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func (r *row) boolPtr(col string) *bool {
	v := r.str(col)
	if v == "" {
		return nil
	}
	b := parseBool(v)
	return &b
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}
