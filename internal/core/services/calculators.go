package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/lorrc/desk-metrics/internal/core/domain"
)

// The calculators in this file are pure functions over an already-filtered
// record slice. They must not narrow their input any further: any additional
// filtering belongs in domain.ApplyFilters, so that every endpoint computing
// over the same criteria sees the same set.

// FCRRate returns the first-contact-resolution rate in percent: the share of
// incidents with a known reopen count of zero among incidents whose reopen
// count is known. Empty input yields 0, not an error.
func FCRRate(incidents []domain.Incident) float64 {
	known := lo.Filter(incidents, func(i domain.Incident, _ int) bool {
		return i.ReopenCount != nil
	})
	if len(known) == 0 {
		return 0
	}
	first := lo.CountBy(known, func(i domain.Incident) bool {
		return *i.ReopenCount == 0
	})
	return float64(first) / float64(len(known)) * 100
}

// MTTRHours returns the mean business-hours resolution time over resolved
// incidents, in hours. Unresolved incidents are excluded from numerator and
// denominator; zero resolved incidents yields 0.
func MTTRHours(incidents []domain.Incident) float64 {
	var sum float64
	var n int
	for _, i := range incidents {
		if mins, ok := i.ResolutionMinutes(); ok {
			sum += mins
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 60
}

// NativeSLARate returns the percent of incidents whose source-system SLA flag
// is set, over all incidents in the set.
func NativeSLARate(incidents []domain.Incident) float64 {
	if len(incidents) == 0 {
		return 0
	}
	met := lo.CountBy(incidents, func(i domain.Incident) bool {
		return i.MadeSLA != nil && *i.MadeSLA
	})
	return float64(met) / float64(len(incidents)) * 100
}

// ThresholdComplianceRate returns the percent of incidents resolved within
// the policy threshold, over all incidents in the set.
func ThresholdComplianceRate(incidents []domain.Incident, policy domain.SLAPolicy) float64 {
	if len(incidents) == 0 {
		return 0
	}
	met := lo.CountBy(incidents, func(i domain.Incident) bool {
		return policy.MetThreshold(i)
	})
	return float64(met) / float64(len(incidents)) * 100
}

// GoalComplianceRate returns the percent of incidents resolved within the
// policy's stretch goal, over all incidents in the set.
func GoalComplianceRate(incidents []domain.Incident, policy domain.SLAPolicy) float64 {
	if len(incidents) == 0 {
		return 0
	}
	met := lo.CountBy(incidents, func(i domain.Incident) bool {
		return policy.MetGoal(i)
	})
	return float64(met) / float64(len(incidents)) * 100
}

// BreachCount returns the number of incidents past their promise at the
// reference time.
func BreachCount(incidents []domain.Incident, policy domain.SLAPolicy, now time.Time) int {
	return lo.CountBy(incidents, func(i domain.Incident) bool {
		return policy.Breached(i, now)
	})
}

// SeverityCounts returns breach counts per severity label.
func SeverityCounts(incidents []domain.Incident, policy domain.SLAPolicy, now time.Time) map[string]int {
	counts := make(map[string]int)
	for _, i := range incidents {
		if sev := policy.BreachSeverity(i, now); sev != "" {
			counts[sev]++
		}
	}
	return counts
}

// TeamRollup groups incidents by assignment group and applies the ungrouped
// formulas independently per group. The group counts partition the input, so
// they always sum to len(incidents).
func TeamRollup(incidents []domain.Incident, policy domain.SLAPolicy, now time.Time) []domain.TeamPerformance {
	groups := lo.GroupBy(incidents, func(i domain.Incident) string {
		return i.AssignmentGroup
	})

	out := make([]domain.TeamPerformance, 0, len(groups))
	for team, members := range groups {
		breaches := BreachCount(members, policy, now)
		critical := SeverityCounts(members, policy, now)[domain.SeverityCritical]
		n := len(members)
		out = append(out, domain.TeamPerformance{
			Team:               team,
			Incidents:          n,
			AvgResolutionHours: round1(MTTRHours(members)),
			FCRRate:            round1(FCRRate(members)),
			SLACompliance:      round1(ThresholdComplianceRate(members, policy)),
			SLAGoalCompliance:  round1(GoalComplianceRate(members, policy)),
			Breaches:           breaches,
			BreachRate:         round1(percent(breaches, n)),
			CriticalBreaches:   critical,
			CriticalBreachRate: round1(percent(critical, n)),
		})
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Incidents != out[b].Incidents {
			return out[a].Incidents > out[b].Incidents
		}
		return out[a].Team < out[b].Team
	})
	return out
}

// TechnicianRollup groups resolved incidents by resolver and region.
// Incidents without a resolver are excluded: an unattributed resolution
// belongs to no technician, and defaulting it to a bucket would skew shares.
func TechnicianRollup(incidents []domain.Incident) *domain.TechnicianReport {
	resolved := lo.Filter(incidents, func(i domain.Incident, _ int) bool {
		return i.ResolvedBy != ""
	})
	if len(resolved) == 0 {
		return &domain.TechnicianReport{Regions: []domain.RegionTechnicians{}}
	}

	byRegion := lo.GroupBy(resolved, func(i domain.Incident) string {
		return i.Region
	})

	regions := make([]domain.RegionTechnicians, 0, len(byRegion))
	for region, members := range byRegion {
		byTech := lo.GroupBy(members, func(i domain.Incident) string {
			return i.ResolvedBy
		})
		techs := make([]domain.TechnicianStats, 0, len(byTech))
		for tech, own := range byTech {
			techs = append(techs, domain.TechnicianStats{
				Name:      cleanTechnicianName(tech),
				Incidents: len(own),
				Share:     round1(percent(len(own), len(resolved))),
				FCRRate:   round1(FCRRate(own)),
				MTTRHours: round1(MTTRHours(own)),
			})
		}
		sort.Slice(techs, func(a, b int) bool {
			if techs[a].Incidents != techs[b].Incidents {
				return techs[a].Incidents > techs[b].Incidents
			}
			return techs[a].Name < techs[b].Name
		})
		regions = append(regions, domain.RegionTechnicians{Region: region, Technicians: techs})
	}

	regionTotal := func(r domain.RegionTechnicians) int {
		return lo.SumBy(r.Technicians, func(t domain.TechnicianStats) int { return t.Incidents })
	}
	sort.Slice(regions, func(a, b int) bool {
		ta, tb := regionTotal(regions[a]), regionTotal(regions[b])
		if ta != tb {
			return ta > tb
		}
		return regions[a].Region < regions[b].Region
	})

	total := lo.UniqBy(resolved, func(i domain.Incident) string { return i.ResolvedBy })
	return &domain.TechnicianReport{
		TotalTechnicians:    len(total),
		AvgIncidentsPerTech: round1(float64(len(resolved)) / float64(len(total))),
		Regions:             regions,
	}
}

// MonthlyTrends buckets incidents by creation month and applies the standard
// formulas per bucket, sorted ascending by month.
func MonthlyTrends(incidents []domain.Incident, policy domain.SLAPolicy, now time.Time) []domain.TrendPoint {
	groups := lo.GroupBy(incidents, func(i domain.Incident) domain.Month {
		return domain.MonthOf(i.CreatedAt)
	})

	out := make([]domain.TrendPoint, 0, len(groups))
	for month, members := range groups {
		breaches := BreachCount(members, policy, now)
		out = append(out, domain.TrendPoint{
			Month:             month,
			Incidents:         len(members),
			FCRRate:           round1(FCRRate(members)),
			MTTRHours:         round1(MTTRHours(members)),
			SLACompliance:     round1(ThresholdComplianceRate(members, policy)),
			SLAGoalCompliance: round1(GoalComplianceRate(members, policy)),
			Breaches:          breaches,
			BreachRate:        round1(percent(breaches, len(members))),
		})
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Month.Before(out[b].Month) })
	return out
}

// CategoryCounts tallies a categorical attribute over the set, with each
// entry's percentage of the total. Sorted by count descending.
func CategoryCounts[R domain.Record](records []R, field domain.Field) []domain.CategoryCount {
	counts := make(map[string]int)
	for _, r := range records {
		if v, ok := r.Attribute(field); ok && v != "" {
			counts[v]++
		}
	}

	out := make([]domain.CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.CategoryCount{
			Name:       name,
			Count:      n,
			Percentage: round1(percent(n, len(records))),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// CompletionRate returns the percent of completed consultations.
func CompletionRate(consultations []domain.Consultation) float64 {
	if len(consultations) == 0 {
		return 0
	}
	done := lo.CountBy(consultations, func(c domain.Consultation) bool { return c.Completed })
	return float64(done) / float64(len(consultations)) * 100
}

// TypeBreakdown tallies completed consultations by their defined type, with
// percentages relative to the completed count.
func TypeBreakdown(consultations []domain.Consultation) []domain.TypeCount {
	completed := lo.Filter(consultations, func(c domain.Consultation, _ int) bool {
		return c.Completed
	})
	groups := lo.CountValuesBy(completed, func(c domain.Consultation) string { return c.Type })

	out := make([]domain.TypeCount, 0, len(groups))
	for typ, n := range groups {
		out = append(out, domain.TypeCount{
			Type:       typ,
			Count:      n,
			Percentage: round1(percent(n, len(completed))),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Type < out[b].Type
	})
	return out
}

// TopIssues returns the top-N issue distribution with a trailing "Others"
// bucket when more issues exist.
func TopIssues(consultations []domain.Consultation, n int) *domain.IssueBreakdown {
	counts := lo.CountValuesBy(consultations, func(c domain.Consultation) string { return c.Issue })

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, c := range counts {
		entries = append(entries, entry{name, c})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].count != entries[b].count {
			return entries[a].count > entries[b].count
		}
		return entries[a].name < entries[b].name
	})

	breakdown := &domain.IssueBreakdown{Total: len(consultations)}
	others := 0
	for i, e := range entries {
		if i < n {
			breakdown.Labels = append(breakdown.Labels, e.name)
			breakdown.Counts = append(breakdown.Counts, e.count)
		} else {
			others += e.count
		}
	}
	if others > 0 {
		breakdown.Labels = append(breakdown.Labels, "Others")
		breakdown.Counts = append(breakdown.Counts, others)
	}
	return breakdown
}

// ConsultationRollup groups consultations by a categorical attribute and
// computes per-group counts and completion rates. The group counts partition
// the input set.
func ConsultationRollup(consultations []domain.Consultation, field domain.Field) []domain.ConsultationGroupStats {
	groups := lo.GroupBy(consultations, func(c domain.Consultation) string {
		v, _ := c.Attribute(field)
		return v
	})

	out := make([]domain.ConsultationGroupStats, 0, len(groups))
	for name, members := range groups {
		done := lo.CountBy(members, func(c domain.Consultation) bool { return c.Completed })
		out = append(out, domain.ConsultationGroupStats{
			Name:           name,
			Consultations:  len(members),
			Completed:      done,
			CompletionRate: round1(percent(done, len(members))),
			Share:          round1(percent(len(members), len(consultations))),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Consultations != out[b].Consultations {
			return out[a].Consultations > out[b].Consultations
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// ConsultationTrends buckets consultations by creation month.
func ConsultationTrends(consultations []domain.Consultation) []domain.ConsultationTrendPoint {
	groups := lo.GroupBy(consultations, func(c domain.Consultation) domain.Month {
		return domain.MonthOf(c.CreatedAt)
	})

	out := make([]domain.ConsultationTrendPoint, 0, len(groups))
	for month, members := range groups {
		out = append(out, domain.ConsultationTrendPoint{
			Month:            month,
			Consultations:    len(members),
			Completed:        lo.CountBy(members, func(c domain.Consultation) bool { return c.Completed }),
			IncidentsCreated: lo.CountBy(members, func(c domain.Consultation) bool { return c.HasIncident() }),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Month.Before(out[b].Month) })
	return out
}

// cleanTechnicianName strips the trailing employee-ID parenthetical that the
// export appends to resolver names.
func cleanTechnicianName(name string) string {
	if idx := strings.Index(name, "("); idx > 0 && strings.Contains(name[idx:], ")") {
		return strings.TrimSpace(name[:idx])
	}
	return name
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
