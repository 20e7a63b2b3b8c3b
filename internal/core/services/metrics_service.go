package services

import (
	"context"
	"sort"
	"time"

	"github.com/lorrc/desk-metrics/internal/core/domain"
	apperrors "github.com/lorrc/desk-metrics/internal/core/errors"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

const topBreachingTeams = 10

// MetricsService computes incident metrics. Each method takes the current
// snapshot, narrows it exactly once through domain.ApplyFilters and hands the
// result to the pure calculators; no method applies hidden extra filtering.
type MetricsService struct {
	snapshots ports.SnapshotProvider
	policy    domain.SLAPolicy
	now       func() time.Time
}

var _ ports.MetricsService = (*MetricsService)(nil)

// NewMetricsService creates a metrics service over the given snapshot
// provider and SLA policy.
func NewMetricsService(snapshots ports.SnapshotProvider, policy domain.SLAPolicy) *MetricsService {
	return &MetricsService{
		snapshots: snapshots,
		policy:    policy,
		now:       time.Now,
	}
}

// WithClock overrides the reference clock. Intended for tests.
func (s *MetricsService) WithClock(now func() time.Time) *MetricsService {
	s.now = now
	return s
}

func (s *MetricsService) incidents(c domain.Criteria) ([]domain.Incident, error) {
	snap := s.snapshots.Snapshot()
	if snap == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return domain.ApplyFilters(snap.Incidents, c), nil
}

// Overview computes the headline summary for the filtered set.
func (s *MetricsService) Overview(ctx context.Context, c domain.Criteria) (*domain.Overview, error) {
	filtered, err := s.incidents(c)
	if err != nil {
		return nil, err
	}

	now := s.now()
	breaches := BreachCount(filtered, s.policy, now)

	ov := &domain.Overview{
		TotalIncidents:     len(filtered),
		FCRRate:            round1(FCRRate(filtered)),
		AvgResolutionHours: round1(MTTRHours(filtered)),
		SLACompliance:      round1(NativeSLARate(filtered)),
		SLAComplianceMTTR:  round1(ThresholdComplianceRate(filtered, s.policy)),
		SLAGoalCompliance:  round1(GoalComplianceRate(filtered, s.policy)),
		SLABreaches:        breaches,
		SLABreachRate:      round1(percent(breaches, len(filtered))),
		Technicians:        len(CategoryCounts(filtered, domain.FieldTechnician)),
		AssignmentGroups:   len(CategoryCounts(filtered, domain.FieldAssignmentGroup)),
	}

	s.applyMonthOverMonth(ov, filtered)
	return ov, nil
}

// applyMonthOverMonth fills the latest-vs-previous month deltas. Both month
// windows are cut with the shared filter engine so the sub-counts stay
// consistent with the trends endpoint.
func (s *MetricsService) applyMonthOverMonth(ov *domain.Overview, filtered []domain.Incident) {
	if len(filtered) == 0 {
		return
	}

	latest := domain.MonthOf(filtered[0].CreatedAt)
	for _, i := range filtered[1:] {
		if m := domain.MonthOf(i.CreatedAt); latest.Before(m) {
			latest = m
		}
	}
	prev := latest.Prev()

	current := domain.ApplyFilters(filtered, domain.Criteria{Month: &latest})
	previous := domain.ApplyFilters(filtered, domain.Criteria{Month: &prev})
	if len(previous) == 0 {
		return
	}

	ov.IncidentChange = round1(float64(len(current)-len(previous)) / float64(len(previous)) * 100)
	ov.FCRChange = round1(FCRRate(current) - FCRRate(previous))

	prevMTTR := MTTRHours(previous)
	if prevMTTR > 0 {
		ov.MTTRChange = round1((MTTRHours(current) - prevMTTR) / prevMTTR * 100)
	}
}

// Trends computes the monthly trend series for the filtered set.
func (s *MetricsService) Trends(ctx context.Context, c domain.Criteria) ([]domain.TrendPoint, error) {
	filtered, err := s.incidents(c)
	if err != nil {
		return nil, err
	}
	return MonthlyTrends(filtered, s.policy, s.now()), nil
}

// TeamPerformance computes the per-assignment-group rollup.
func (s *MetricsService) TeamPerformance(ctx context.Context, c domain.Criteria) ([]domain.TeamPerformance, error) {
	filtered, err := s.incidents(c)
	if err != nil {
		return nil, err
	}
	return TeamRollup(filtered, s.policy, s.now()), nil
}

// SLABreachReport computes the detailed breach analysis.
func (s *MetricsService) SLABreachReport(ctx context.Context, c domain.Criteria) (*domain.SLABreachReport, error) {
	filtered, err := s.incidents(c)
	if err != nil {
		return nil, err
	}

	now := s.now()
	breaches := BreachCount(filtered, s.policy, now)
	severities := SeverityCounts(filtered, s.policy, now)

	report := &domain.SLABreachReport{
		TotalIncidents:   len(filtered),
		TotalBreaches:    breaches,
		BreachRate:       round1(percent(breaches, len(filtered))),
		PromiseHours:     s.policy.ThresholdMinutes / 60,
		ModerateBreaches: severities[domain.SeverityModerate],
		CriticalBreaches: severities[domain.SeverityCritical],
		TopTeams:         []domain.TeamBreaches{},
		Monthly:          []domain.MonthlyBreaches{},
	}

	for _, team := range TeamRollup(filtered, s.policy, now) {
		report.TopTeams = append(report.TopTeams, domain.TeamBreaches{
			Team:       team.Team,
			Incidents:  team.Incidents,
			Breaches:   team.Breaches,
			BreachRate: team.BreachRate,
		})
	}
	sortTeamBreaches(report.TopTeams)
	if len(report.TopTeams) > topBreachingTeams {
		report.TopTeams = report.TopTeams[:topBreachingTeams]
	}

	for _, point := range MonthlyTrends(filtered, s.policy, now) {
		report.Monthly = append(report.Monthly, domain.MonthlyBreaches{
			Month:      point.Month,
			Incidents:  point.Incidents,
			Breaches:   point.Breaches,
			BreachRate: point.BreachRate,
		})
	}

	return report, nil
}

// TechnicianReport computes the per-technician rollup grouped by region.
func (s *MetricsService) TechnicianReport(ctx context.Context, c domain.Criteria) (*domain.TechnicianReport, error) {
	filtered, err := s.incidents(c)
	if err != nil {
		return nil, err
	}
	return TechnicianRollup(filtered), nil
}

// Regions lists the regions present in the dataset with incident counts.
func (s *MetricsService) Regions(ctx context.Context) ([]domain.CategoryCount, error) {
	all, err := s.incidents(domain.Criteria{})
	if err != nil {
		return nil, err
	}
	return CategoryCounts(all, domain.FieldRegion), nil
}

// AssignmentGroups lists the assignment groups present in the dataset.
func (s *MetricsService) AssignmentGroups(ctx context.Context) ([]domain.CategoryCount, error) {
	all, err := s.incidents(domain.Criteria{})
	if err != nil {
		return nil, err
	}
	return CategoryCounts(all, domain.FieldAssignmentGroup), nil
}

func sortTeamBreaches(teams []domain.TeamBreaches) {
	sort.Slice(teams, func(a, b int) bool {
		if teams[a].Breaches != teams[b].Breaches {
			return teams[a].Breaches > teams[b].Breaches
		}
		return teams[a].Team < teams[b].Team
	})
}
