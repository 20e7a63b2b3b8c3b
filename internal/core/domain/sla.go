package domain

import "time"

// Default SLA targets in business minutes, matching the service-desk promise
// (4 hours) and the internal stretch goal (3 hours 12 minutes).
const (
	DefaultSLAThresholdMinutes = 240
	DefaultSLAGoalMinutes      = 192
)

// Breach severity boundaries, measured in minutes over the threshold.
const (
	moderateBreachFloorMinutes = 180
	criticalBreachFloorMinutes = 240
)

// SLAPolicy holds the resolution-time targets. ThresholdMinutes is the
// promised ceiling whose violation counts as a breach; GoalMinutes is the
// stricter internal goal. GroupThresholds optionally overrides the threshold
// for specific assignment groups.
type SLAPolicy struct {
	ThresholdMinutes float64
	GoalMinutes      float64
	GroupThresholds  map[string]float64
}

// DefaultSLAPolicy returns the standard 240/192 minute policy.
func DefaultSLAPolicy() SLAPolicy {
	return SLAPolicy{
		ThresholdMinutes: DefaultSLAThresholdMinutes,
		GoalMinutes:      DefaultSLAGoalMinutes,
	}
}

// ThresholdFor returns the breach threshold for an assignment group.
func (p SLAPolicy) ThresholdFor(group string) float64 {
	if t, ok := p.GroupThresholds[group]; ok {
		return t
	}
	return p.ThresholdMinutes
}

// Breached reports whether the incident has exceeded its group's threshold.
// Unresolved incidents accrue elapsed time up to the reference time, so an
// open incident past its promise already counts as breached.
func (p SLAPolicy) Breached(i Incident, now time.Time) bool {
	return i.ElapsedMinutes(now) > p.ThresholdFor(i.AssignmentGroup)
}

// VarianceMinutes returns elapsed minus threshold; positive values mean the
// incident ran over its promise.
func (p SLAPolicy) VarianceMinutes(i Incident, now time.Time) float64 {
	return i.ElapsedMinutes(now) - p.ThresholdFor(i.AssignmentGroup)
}

// MetThreshold reports whether a resolved incident met the baseline
// threshold. Unresolved incidents never count as having met it.
func (p SLAPolicy) MetThreshold(i Incident) bool {
	mins, ok := i.ResolutionMinutes()
	return ok && mins <= p.ThresholdFor(i.AssignmentGroup)
}

// MetGoal reports whether a resolved incident met the stretch goal.
func (p SLAPolicy) MetGoal(i Incident) bool {
	mins, ok := i.ResolutionMinutes()
	return ok && mins <= p.GoalMinutes
}

// BreachSeverity classifies how far over the threshold a breached incident
// ran. Returns "" for incidents that are not breached.
func (p SLAPolicy) BreachSeverity(i Incident, now time.Time) string {
	if !p.Breached(i, now) {
		return ""
	}
	over := p.VarianceMinutes(i, now)
	switch {
	case over > criticalBreachFloorMinutes:
		return SeverityCritical
	case over > moderateBreachFloorMinutes:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// Breach severity labels.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeverityCritical = "critical"
)
