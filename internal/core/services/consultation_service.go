package services

import (
	"context"

	"github.com/samber/lo"

	"github.com/lorrc/desk-metrics/internal/core/domain"
	apperrors "github.com/lorrc/desk-metrics/internal/core/errors"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// defaultTopIssues is used when the reporting rules leave the issue count unset.
const defaultTopIssues = 8

// ConsultationService computes walk-up consultation metrics under the same
// single-filter contract as MetricsService.
type ConsultationService struct {
	snapshots ports.SnapshotProvider
	topIssues int
}

var _ ports.ConsultationService = (*ConsultationService)(nil)

// NewConsultationService creates a consultation service over the given
// snapshot provider. topIssues caps the issue breakdown before the "Others"
// bucket; non-positive values fall back to the default.
func NewConsultationService(snapshots ports.SnapshotProvider, topIssues int) *ConsultationService {
	if topIssues <= 0 {
		topIssues = defaultTopIssues
	}
	return &ConsultationService{snapshots: snapshots, topIssues: topIssues}
}

func (s *ConsultationService) consultations(c domain.Criteria) ([]domain.Consultation, error) {
	snap := s.snapshots.Snapshot()
	if snap == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return domain.ApplyFilters(snap.Consultations, c), nil
}

// Overview computes the headline consultation summary.
func (s *ConsultationService) Overview(ctx context.Context, c domain.Criteria) (*domain.ConsultationOverview, error) {
	filtered, err := s.consultations(c)
	if err != nil {
		return nil, err
	}

	completed := lo.Filter(filtered, func(c domain.Consultation, _ int) bool { return c.Completed })
	withINC := lo.CountBy(filtered, func(c domain.Consultation) bool { return c.HasIncident() })
	completedWithoutINC := lo.CountBy(completed, func(c domain.Consultation) bool { return !c.HasIncident() })

	return &domain.ConsultationOverview{
		Total:                len(filtered),
		Completed:            len(completed),
		CompletionRate:       round1(CompletionRate(filtered)),
		TypeBreakdown:        TypeBreakdown(filtered),
		IncidentsCreated:     withINC,
		IncidentCreationRate: round1(percent(withINC, len(filtered))),
		MissingIncident:      completedWithoutINC,
		MissingIncidentRate:  round1(percent(completedWithoutINC, len(completed))),
		Locations:            len(CategoryCounts(filtered, domain.FieldLocation)),
		Technicians:          len(CategoryCounts(filtered, domain.FieldTechnician)),
	}, nil
}

// Trends computes the monthly consultation series.
func (s *ConsultationService) Trends(ctx context.Context, c domain.Criteria) ([]domain.ConsultationTrendPoint, error) {
	filtered, err := s.consultations(c)
	if err != nil {
		return nil, err
	}
	return ConsultationTrends(filtered), nil
}

// IssueBreakdown computes the top-issue distribution.
func (s *ConsultationService) IssueBreakdown(ctx context.Context, c domain.Criteria) (*domain.IssueBreakdown, error) {
	filtered, err := s.consultations(c)
	if err != nil {
		return nil, err
	}
	return TopIssues(filtered, s.topIssues), nil
}

// TechnicianRollup computes per-technician consultation stats.
func (s *ConsultationService) TechnicianRollup(ctx context.Context, c domain.Criteria) ([]domain.ConsultationGroupStats, error) {
	filtered, err := s.consultations(c)
	if err != nil {
		return nil, err
	}
	return ConsultationRollup(filtered, domain.FieldTechnician), nil
}

// LocationRollup computes per-location consultation stats.
func (s *ConsultationService) LocationRollup(ctx context.Context, c domain.Criteria) ([]domain.ConsultationGroupStats, error) {
	filtered, err := s.consultations(c)
	if err != nil {
		return nil, err
	}
	return ConsultationRollup(filtered, domain.FieldLocation), nil
}

// Locations lists the consultation locations with counts.
func (s *ConsultationService) Locations(ctx context.Context) ([]domain.CategoryCount, error) {
	all, err := s.consultations(domain.Criteria{})
	if err != nil {
		return nil, err
	}
	return CategoryCounts(all, domain.FieldLocation), nil
}
