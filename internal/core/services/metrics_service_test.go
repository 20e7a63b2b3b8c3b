package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/desk-metrics/internal/core/domain"
	apperrors "github.com/lorrc/desk-metrics/internal/core/errors"
	"github.com/lorrc/desk-metrics/internal/core/services"
)

// fixedSnapshots serves one snapshot forever, standing in for the dataset
// service in unit tests.
type fixedSnapshots struct {
	snap *domain.Snapshot
}

func (f fixedSnapshots) Snapshot() *domain.Snapshot { return f.snap }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strptr(s string) *string { return &s }

// fixtureIncidents builds a small dataset spanning February and March with a
// mix of teams, regions and resolution outcomes.
func fixtureIncidents() []domain.Incident {
	feb := func(day, hour int) time.Time {
		return time.Date(2025, 2, day, hour, 0, 0, 0, time.UTC)
	}
	mar := func(day, hour int) time.Time {
		return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
	}

	return []domain.Incident{
		// February, all weekdays.
		{Number: "INC001", CreatedAt: feb(4, 9), ResolvedAt: resolvedAfter(feb(4, 9), 60),
			Location: "Hoboken", Region: "East Region", AssignmentGroup: "Tech Spot Hoboken",
			ResolvedBy: "Ada Park", ReopenCount: intptr(0)},
		{Number: "INC002", CreatedAt: feb(5, 9), ResolvedAt: resolvedAfter(feb(5, 9), 300),
			Location: "Hoboken", Region: "East Region", AssignmentGroup: "Tech Spot Hoboken",
			ResolvedBy: "Ada Park", ReopenCount: intptr(1)},
		{Number: "INC003", CreatedAt: feb(6, 9), ResolvedAt: resolvedAfter(feb(6, 9), 120),
			Location: "Sunnyvale", Region: "West Region", AssignmentGroup: "Tech Spot Sunnyvale",
			ResolvedBy: "Mei Chen", ReopenCount: intptr(0)},
		// March.
		{Number: "INC004", CreatedAt: mar(4, 9), ResolvedAt: resolvedAfter(mar(4, 9), 90),
			Location: "Hoboken", Region: "East Region", AssignmentGroup: "Tech Spot Hoboken",
			ResolvedBy: "Ada Park", ReopenCount: intptr(0)},
		{Number: "INC005", CreatedAt: mar(5, 9),
			Location: "Sunnyvale", Region: "West Region", AssignmentGroup: "Tech Spot Sunnyvale",
			ReopenCount: intptr(0)}, // still open
		{Number: "INC006", CreatedAt: mar(6, 9), ResolvedAt: resolvedAfter(mar(6, 9), 500),
			Location: "Bengaluru", Region: "IDC", AssignmentGroup: "Tech Spot IDC",
			ResolvedBy: "Ravi Iyer", ReopenCount: intptr(2)},
	}
}

func newFixtureService() *services.MetricsService {
	snap := &domain.Snapshot{
		Incidents: fixtureIncidents(),
		LoadedAt:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	return services.NewMetricsService(fixedSnapshots{snap}, domain.DefaultSLAPolicy()).
		WithClock(fixedClock(time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)))
}

func TestMetricsOverview(t *testing.T) {
	svc := newFixtureService()

	t.Run("unfiltered", func(t *testing.T) {
		ov, err := svc.Overview(context.Background(), domain.Criteria{})
		require.NoError(t, err)

		assert.Equal(t, 6, ov.TotalIncidents)
		assert.InDelta(t, 66.7, ov.FCRRate, 0.001) // 4 of 6 with reopen_count == 0
		assert.Equal(t, 3, ov.AssignmentGroups)
		assert.Equal(t, 3, ov.Technicians)
		// INC002, INC006 ran over 240 min; the open INC005 has accrued far
		// past the promise by the reference time.
		assert.Equal(t, 3, ov.SLABreaches)
		assert.InDelta(t, 50, ov.SLABreachRate, 0.001)
	})

	t.Run("region filter", func(t *testing.T) {
		region := "East Region"
		ov, err := svc.Overview(context.Background(), domain.Criteria{Region: &region})
		require.NoError(t, err)

		assert.Equal(t, 3, ov.TotalIncidents)
		assert.Equal(t, 1, ov.Technicians)
	})

	t.Run("month filter", func(t *testing.T) {
		month := domain.Month{Year: 2025, Month: time.March}
		ov, err := svc.Overview(context.Background(), domain.Criteria{Month: &month})
		require.NoError(t, err)
		assert.Equal(t, 3, ov.TotalIncidents)
	})

	t.Run("matches nothing", func(t *testing.T) {
		region := "Mars"
		ov, err := svc.Overview(context.Background(), domain.Criteria{Region: &region})
		require.NoError(t, err)

		assert.Zero(t, ov.TotalIncidents)
		assert.Zero(t, ov.FCRRate)
		assert.Zero(t, ov.AvgResolutionHours)
	})
}

func TestMetricsOverviewMonthOverMonth(t *testing.T) {
	svc := newFixtureService()

	ov, err := svc.Overview(context.Background(), domain.Criteria{})
	require.NoError(t, err)

	// 3 incidents in both February and March.
	assert.Zero(t, ov.IncidentChange)
	// February FCR 2/3, March FCR 2/3.
	assert.Zero(t, ov.FCRChange)
}

func TestMetricsServiceConsistency(t *testing.T) {
	svc := newFixtureService()
	criteria := domain.Criteria{}

	ov, err := svc.Overview(context.Background(), criteria)
	require.NoError(t, err)
	teams, err := svc.TeamPerformance(context.Background(), criteria)
	require.NoError(t, err)
	trends, err := svc.Trends(context.Background(), criteria)
	require.NoError(t, err)

	teamSum := 0
	for _, team := range teams {
		teamSum += team.Incidents
	}
	trendSum := 0
	for _, point := range trends {
		trendSum += point.Incidents
	}

	assert.Equal(t, ov.TotalIncidents, teamSum)
	assert.Equal(t, ov.TotalIncidents, trendSum)
}

func TestMetricsTrends(t *testing.T) {
	svc := newFixtureService()

	trends, err := svc.Trends(context.Background(), domain.Criteria{})
	require.NoError(t, err)

	require.Len(t, trends, 2)
	assert.Equal(t, "2025-02", trends[0].Month.Key())
	assert.Equal(t, 3, trends[0].Incidents)
	assert.Equal(t, "2025-03", trends[1].Month.Key())
}

func TestMetricsSLABreachReport(t *testing.T) {
	svc := newFixtureService()

	report, err := svc.SLABreachReport(context.Background(), domain.Criteria{})
	require.NoError(t, err)

	assert.Equal(t, 6, report.TotalIncidents)
	assert.Equal(t, 3, report.TotalBreaches)
	assert.InDelta(t, 4, report.PromiseHours, 0.001)
	// Teams ordered by breach count descending.
	for i := 1; i < len(report.TopTeams); i++ {
		assert.GreaterOrEqual(t, report.TopTeams[i-1].Breaches, report.TopTeams[i].Breaches)
	}
	require.Len(t, report.Monthly, 2)
	assert.Equal(t, report.Monthly[0].Incidents, 3)
}

func TestMetricsTechnicianReport(t *testing.T) {
	svc := newFixtureService()

	report, err := svc.TechnicianReport(context.Background(), domain.Criteria{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalTechnicians)
	require.NotEmpty(t, report.Regions)
	assert.Equal(t, "East Region", report.Regions[0].Region)
}

func TestMetricsCatalog(t *testing.T) {
	svc := newFixtureService()

	regions, err := svc.Regions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 3)
	assert.Equal(t, "East Region", regions[0].Name)
	assert.Equal(t, 3, regions[0].Count)

	groups, err := svc.AssignmentGroups(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, 3)
}

func TestMetricsNoSnapshot(t *testing.T) {
	svc := services.NewMetricsService(fixedSnapshots{nil}, domain.DefaultSLAPolicy())

	_, err := svc.Overview(context.Background(), domain.Criteria{})
	assert.ErrorIs(t, err, apperrors.ErrDatasetNotLoaded)

	_, err = svc.Trends(context.Background(), domain.Criteria{})
	assert.ErrorIs(t, err, apperrors.ErrDatasetNotLoaded)
}
