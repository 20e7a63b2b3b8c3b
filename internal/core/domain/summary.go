package domain

// Summary types computed by the metric calculators. They have no lifecycle of
// their own: every request recomputes them from a filtered snapshot.

// Overview is the headline incident summary.
type Overview struct {
	TotalIncidents     int
	FCRRate            float64
	AvgResolutionHours float64
	SLACompliance      float64 // from the source system's own SLA flag
	SLAComplianceMTTR  float64 // against the baseline threshold
	SLAGoalCompliance  float64 // against the stretch goal
	SLABreaches        int
	SLABreachRate      float64
	IncidentChange     float64 // latest month vs previous, percent
	FCRChange          float64 // percentage-point delta
	MTTRChange         float64 // percent delta
	Technicians        int
	AssignmentGroups   int
}

// TrendPoint is one month of the incident trend series.
type TrendPoint struct {
	Month             Month
	Incidents         int
	FCRRate           float64
	MTTRHours         float64
	SLACompliance     float64
	SLAGoalCompliance float64
	Breaches          int
	BreachRate        float64
}

// TeamPerformance is the per-assignment-group rollup. The same formulas as
// the ungrouped summary, applied independently per group.
type TeamPerformance struct {
	Team               string
	Incidents          int
	AvgResolutionHours float64
	FCRRate            float64
	SLACompliance      float64
	SLAGoalCompliance  float64
	Breaches           int
	BreachRate         float64
	CriticalBreaches   int
	CriticalBreachRate float64
}

// TechnicianStats is the per-technician rollup entry.
type TechnicianStats struct {
	Name      string
	Incidents int
	Share     float64 // percent of resolved incidents in the filtered set
	FCRRate   float64
	MTTRHours float64
}

// RegionTechnicians groups technician stats by region for the dashboard's
// region-sectioned view.
type RegionTechnicians struct {
	Region      string
	Technicians []TechnicianStats
}

// TechnicianReport is the full technician summary.
type TechnicianReport struct {
	TotalTechnicians    int
	AvgIncidentsPerTech float64
	Regions             []RegionTechnicians
}

// TeamBreaches is one team's row in the SLA breach report.
type TeamBreaches struct {
	Team       string
	Incidents  int
	Breaches   int
	BreachRate float64
}

// MonthlyBreaches is one month's row in the SLA breach report.
type MonthlyBreaches struct {
	Month      Month
	Incidents  int
	Breaches   int
	BreachRate float64
}

// SLABreachReport is the detailed breach analysis.
type SLABreachReport struct {
	TotalIncidents   int
	TotalBreaches    int
	BreachRate       float64
	PromiseHours     float64
	ModerateBreaches int
	CriticalBreaches int
	TopTeams         []TeamBreaches
	Monthly          []MonthlyBreaches
}

// CategoryCount is a generic name/count/percentage triple used by the catalog
// listings (regions, assignment groups, locations).
type CategoryCount struct {
	Name       string
	Count      int
	Percentage float64
}

// TypeCount is one entry of the completed-consultation type breakdown.
type TypeCount struct {
	Type       string
	Count      int
	Percentage float64
}

// ConsultationOverview is the headline consultation summary.
type ConsultationOverview struct {
	Total                int
	Completed            int
	CompletionRate       float64
	TypeBreakdown        []TypeCount
	IncidentsCreated     int
	IncidentCreationRate float64
	MissingIncident      int // completed consultations without an INC
	MissingIncidentRate  float64
	Locations            int
	Technicians          int
}

// ConsultationTrendPoint is one month of the consultation trend series.
type ConsultationTrendPoint struct {
	Month            Month
	Consultations    int
	Completed        int
	IncidentsCreated int
}

// IssueBreakdown is the top-N issue distribution with a trailing "Others"
// bucket when the tail is non-empty.
type IssueBreakdown struct {
	Labels []string
	Counts []int
	Total  int
}

// ConsultationGroupStats is the per-technician or per-location consultation
// rollup entry.
type ConsultationGroupStats struct {
	Name           string
	Consultations  int
	Completed      int
	CompletionRate float64
	Share          float64
}
