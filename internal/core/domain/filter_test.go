package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/desk-metrics/internal/core/domain"
)

func strptr(s string) *string { return &s }

func testIncidents() []domain.Incident {
	mk := func(num string, created time.Time, region, group string) domain.Incident {
		return domain.Incident{
			Number:          num,
			CreatedAt:       created,
			Region:          region,
			AssignmentGroup: group,
			Location:        "HQ",
		}
	}
	return []domain.Incident{
		mk("INC001", time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC), "East Region", "Tech Spot Hoboken"),
		mk("INC002", time.Date(2025, 2, 28, 23, 59, 0, 0, time.UTC), "East Region", "Tech Spot Charlotte"),
		mk("INC003", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "Central Region", "Tech Spot Home Office"),
		mk("INC004", time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC), "IDC", "Tech Spot IDC"),
		mk("INC005", time.Date(2025, 5, 2, 8, 30, 0, 0, time.UTC), "East Region", "Tech Spot Hoboken"),
		mk("INC006", time.Date(2025, 6, 20, 16, 0, 0, 0, time.UTC), "West Region", "Tech Spot Sunnyvale"),
	}
}

func TestApplyFiltersMonthBoundariesAreHalfOpen(t *testing.T) {
	incidents := testIncidents()

	feb := domain.Month{Year: 2025, Month: time.February}
	got := domain.ApplyFilters(incidents, domain.Criteria{Month: &feb})

	require.Len(t, got, 2)
	assert.Equal(t, "INC001", got[0].Number)
	assert.Equal(t, "INC002", got[1].Number)

	// The first instant of March belongs to March, not February.
	mar := domain.Month{Year: 2025, Month: time.March}
	got = domain.ApplyFilters(incidents, domain.Criteria{Month: &mar})
	require.Len(t, got, 1)
	assert.Equal(t, "INC003", got[0].Number)
}

func TestApplyFiltersQuarter(t *testing.T) {
	incidents := testIncidents()

	q1, err := domain.QuarterByName("Q1")
	require.NoError(t, err)
	got := domain.ApplyFilters(incidents, domain.Criteria{Quarter: &q1})
	assert.Len(t, got, 4)

	q2, err := domain.QuarterByName("Q2")
	require.NoError(t, err)
	got = domain.ApplyFilters(incidents, domain.Criteria{Quarter: &q2})
	assert.Len(t, got, 2)

	_, err = domain.QuarterByName("Q7")
	assert.Error(t, err)
}

func TestApplyFiltersConjunctionIsOrderIndependent(t *testing.T) {
	incidents := testIncidents()

	feb := domain.Month{Year: 2025, Month: time.February}
	q1, err := domain.QuarterByName("Q1")
	require.NoError(t, err)

	full := domain.Criteria{
		Quarter: &q1,
		Month:   &feb,
		Region:  strptr("East Region"),
	}

	// Applying the whole conjunction at once must equal any sequential
	// narrowing order.
	atOnce := domain.ApplyFilters(incidents, full)

	step1 := domain.ApplyFilters(incidents, domain.Criteria{Region: strptr("East Region")})
	step2 := domain.ApplyFilters(step1, domain.Criteria{Month: &feb})
	step3 := domain.ApplyFilters(step2, domain.Criteria{Quarter: &q1})

	alt1 := domain.ApplyFilters(incidents, domain.Criteria{Quarter: &q1})
	alt2 := domain.ApplyFilters(alt1, domain.Criteria{Month: &feb})
	alt3 := domain.ApplyFilters(alt2, domain.Criteria{Region: strptr("East Region")})

	assert.Equal(t, atOnce, step3)
	assert.Equal(t, atOnce, alt3)
}

func TestApplyFiltersIsIdempotent(t *testing.T) {
	incidents := testIncidents()

	c := domain.Criteria{Region: strptr("East Region")}
	once := domain.ApplyFilters(incidents, c)
	twice := domain.ApplyFilters(once, c)

	assert.Equal(t, once, twice)
}

func TestApplyFiltersEmptyInput(t *testing.T) {
	got := domain.ApplyFilters([]domain.Incident{}, domain.Criteria{Region: strptr("East Region")})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyFiltersMissingFieldMatchesNothing(t *testing.T) {
	consultations := []domain.Consultation{
		{ID: "C1", CreatedAt: time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), Location: "Hoboken"},
	}

	// Consultations carry no assignment group; filtering on one must yield
	// an empty set rather than silently ignoring the criterion.
	got := domain.ApplyFilters(consultations, domain.Criteria{AssignmentGroup: strptr("Tech Spot Hoboken")})
	assert.Empty(t, got)
}

func TestBusinessMinutesExcludesWeekends(t *testing.T) {
	// Friday 2025-02-07 16:00 to Monday 2025-02-10 10:00.
	start := time.Date(2025, 2, 7, 16, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC)

	// 8h remaining on Friday + 10h on Monday = 18h = 1080 minutes.
	assert.InDelta(t, 1080, domain.BusinessMinutes(start, end), 0.001)
}

func TestBusinessMinutesSameDayPartial(t *testing.T) {
	start := time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 5, 12, 30, 0, 0, time.UTC)
	assert.InDelta(t, 210, domain.BusinessMinutes(start, end), 0.001)
}

func TestBusinessMinutesNegativeRange(t *testing.T) {
	start := time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC)
	assert.Zero(t, domain.BusinessMinutes(start, start.Add(-time.Hour)))
}

func TestBusinessMinutesWeekendOnly(t *testing.T) {
	// Saturday morning to Sunday evening.
	start := time.Date(2025, 2, 8, 8, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 9, 20, 0, 0, 0, time.UTC)
	assert.Zero(t, domain.BusinessMinutes(start, end))
}

func TestMonthKeyAndPrev(t *testing.T) {
	m := domain.Month{Year: 2025, Month: time.January}
	assert.Equal(t, "2025-01", m.Key())
	assert.Equal(t, domain.Month{Year: 2024, Month: time.December}, m.Prev())
	assert.Equal(t, "Jan 2025", m.Label())
}

func TestSLAPolicyClassification(t *testing.T) {
	policy := domain.DefaultSLAPolicy()
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	resolvedIn := func(minutes int) domain.Incident {
		created := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC) // a Tuesday
		resolved := created.Add(time.Duration(minutes) * time.Minute)
		return domain.Incident{CreatedAt: created, ResolvedAt: &resolved, AssignmentGroup: "Team A"}
	}

	assert.True(t, policy.MetThreshold(resolvedIn(240)))
	assert.True(t, policy.MetGoal(resolvedIn(192)))
	assert.False(t, policy.MetGoal(resolvedIn(193)))
	assert.False(t, policy.Breached(resolvedIn(240), now))
	assert.True(t, policy.Breached(resolvedIn(241), now))

	assert.Equal(t, domain.SeverityMinor, policy.BreachSeverity(resolvedIn(241), now))
	assert.Equal(t, domain.SeverityModerate, policy.BreachSeverity(resolvedIn(240+181), now))
	assert.Equal(t, domain.SeverityCritical, policy.BreachSeverity(resolvedIn(240+241), now))
	assert.Empty(t, policy.BreachSeverity(resolvedIn(60), now))
}

func TestSLAPolicyGroupOverrideBreach(t *testing.T) {
	policy := domain.DefaultSLAPolicy()
	policy.GroupThresholds = map[string]float64{"VIP Desk": 60}

	created := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	resolved := created.Add(90 * time.Minute)
	inc := domain.Incident{CreatedAt: created, ResolvedAt: &resolved, AssignmentGroup: "VIP Desk"}

	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	assert.True(t, policy.Breached(inc, now))
	assert.False(t, policy.MetThreshold(inc))
}

func TestUnresolvedIncidentAccruesElapsedTime(t *testing.T) {
	policy := domain.DefaultSLAPolicy()
	created := time.Date(2025, 6, 23, 9, 0, 0, 0, time.UTC) // Monday
	inc := domain.Incident{CreatedAt: created, AssignmentGroup: "Team A"}

	// Five business hours later: past the 4-hour promise even though open.
	now := created.Add(5 * time.Hour)
	assert.True(t, policy.Breached(inc, now))
	assert.False(t, policy.MetThreshold(inc))
}
