package domain

import (
	"fmt"
	"time"
)

// Month is a calendar month key (UTC). Its interval is half-open:
// [first instant of the month, first instant of the next month).
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month key containing t (in UTC).
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month (exclusive bound).
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls within the month's half-open interval.
func (m Month) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(m.Start()) && u.Before(m.End())
}

// Prev returns the preceding calendar month.
func (m Month) Prev() Month {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

// Key returns the YYYY-MM form used in API responses.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label returns the short display form, e.g. "Feb 2025".
func (m Month) Label() string {
	return m.Start().Format("Jan 2006")
}

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool {
	return m.Start().Before(other.Start())
}

// Quarter is a reporting-calendar quarter: a half-open date range made of its
// constituent months. The fiscal year starts in February, so quarters do not
// line up with calendar quarters.
type Quarter struct {
	Name  string
	start time.Time
	end   time.Time
}

// Reporting quarters for the FY26 dataset window (Feb-Jun 2025).
var fiscalQuarters = []Quarter{
	{
		Name:  "Q1",
		start: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
	},
	{
		Name:  "Q2",
		start: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
	},
}

// QuarterByName resolves a quarter identifier such as "Q1". Unknown names are
// an error, never an empty result.
func QuarterByName(name string) (Quarter, error) {
	for _, q := range fiscalQuarters {
		if q.Name == name {
			return q, nil
		}
	}
	return Quarter{}, fmt.Errorf("unknown quarter %q", name)
}

// Quarters lists the known reporting quarters in order.
func Quarters() []Quarter {
	out := make([]Quarter, len(fiscalQuarters))
	copy(out, fiscalQuarters)
	return out
}

// Start returns the first instant of the quarter.
func (q Quarter) Start() time.Time { return q.start }

// End returns the exclusive upper bound of the quarter.
func (q Quarter) End() time.Time { return q.end }

// Contains reports whether t falls within the quarter's half-open interval.
func (q Quarter) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(q.start) && u.Before(q.end)
}

// BusinessMinutes returns the number of minutes between start and end that
// fall on weekdays (Monday-Friday), in UTC. Weekend time is excluded so that
// resolution targets are not charged for days nobody is on shift. Returns 0
// when end precedes start.
func BusinessMinutes(start, end time.Time) float64 {
	start = start.UTC()
	end = end.UTC()
	if !end.After(start) {
		return 0
	}

	total := 0.0
	current := start
	for current.Before(end) {
		nextDay := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		segmentEnd := end
		if nextDay.Before(end) {
			segmentEnd = nextDay
		}
		if wd := current.Weekday(); wd != time.Saturday && wd != time.Sunday {
			total += segmentEnd.Sub(current).Minutes()
		}
		current = nextDay
	}
	return total
}
