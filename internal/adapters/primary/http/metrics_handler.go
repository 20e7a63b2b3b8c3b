package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/desk-metrics/internal/adapters/primary/validation"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// IncidentHandler serves the incident metric endpoints. Every endpoint
// accepts the same filter parameters (quarter, month, location, region,
// assignment_group, technician) and narrows the dataset identically.
type IncidentHandler struct {
	metrics      ports.MetricsService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewIncidentHandler creates a new incident metrics handler
func NewIncidentHandler(metrics ports.MetricsService, errorHandler *ErrorHandler, logger *slog.Logger) *IncidentHandler {
	return &IncidentHandler{
		metrics:      metrics,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "incidents"),
	}
}

// Router sets up a new chi Router for all incident metric routes.
func (h *IncidentHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all incident metric endpoints.
func (h *IncidentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/trends", h.HandleTrends)
	r.Get("/teams", h.HandleTeams)
	r.Get("/sla-breach", h.HandleSLABreach)
	r.Get("/technicians", h.HandleTechnicians)
}

// --- Response DTOs ---

// OverviewResponse is the headline incident summary.
type OverviewResponse struct {
	TotalIncidents    int     `json:"total_incidents"`
	FCRRate           float64 `json:"fcr_rate"`
	AvgResolutionTime float64 `json:"avg_resolution_time"` // business hours
	SLACompliance     float64 `json:"sla_compliance"`
	SLAComplianceMTTR float64 `json:"sla_compliance_mttr"`
	SLAGoalCompliance float64 `json:"sla_goal_compliance"`
	SLABreaches       int     `json:"sla_breaches"`
	SLABreachRate     float64 `json:"sla_breach_rate"`
	IncidentChange    float64 `json:"incident_change"`
	FCRChange         float64 `json:"fcr_change"`
	MTTRChange        float64 `json:"mttr_change"`
	Technicians       int     `json:"technicians"`
	AssignmentGroups  int     `json:"assignment_groups"`
}

// TrendPointResponse is one month of the trend series.
type TrendPointResponse struct {
	Month             string  `json:"month"`
	Label             string  `json:"label"`
	Incidents         int     `json:"incidents"`
	FCRRate           float64 `json:"fcr_rate"`
	MTTRHours         float64 `json:"mttr_hours"`
	SLACompliance     float64 `json:"sla_compliance"`
	SLAGoalCompliance float64 `json:"sla_goal_compliance"`
	Breaches          int     `json:"breaches"`
	BreachRate        float64 `json:"breach_rate"`
}

// TeamResponse is one assignment group's rollup.
type TeamResponse struct {
	Team               string  `json:"team"`
	Incidents          int     `json:"incidents"`
	AvgResolutionTime  float64 `json:"avg_resolution_time"`
	FCRRate            float64 `json:"fcr_rate"`
	SLACompliance      float64 `json:"sla_compliance"`
	SLAGoalCompliance  float64 `json:"sla_goal_compliance"`
	Breaches           int     `json:"breaches"`
	BreachRate         float64 `json:"breach_rate"`
	CriticalBreaches   int     `json:"critical_breaches"`
	CriticalBreachRate float64 `json:"critical_breach_rate"`
}

// TeamBreachesResponse is one team's row in the breach report.
type TeamBreachesResponse struct {
	Team       string  `json:"team"`
	Incidents  int     `json:"incidents"`
	Breaches   int     `json:"breaches"`
	BreachRate float64 `json:"breach_rate"`
}

// MonthlyBreachesResponse is one month's row in the breach report.
type MonthlyBreachesResponse struct {
	Month      string  `json:"month"`
	Label      string  `json:"label"`
	Incidents  int     `json:"incidents"`
	Breaches   int     `json:"breaches"`
	BreachRate float64 `json:"breach_rate"`
}

// SLABreachResponse is the detailed breach analysis.
type SLABreachResponse struct {
	TotalIncidents   int                       `json:"total_incidents"`
	TotalBreaches    int                       `json:"total_breaches"`
	BreachRate       float64                   `json:"breach_rate"`
	PromiseHours     float64                   `json:"promise_hours"`
	ModerateBreaches int                       `json:"moderate_breaches"`
	CriticalBreaches int                       `json:"critical_breaches"`
	TopTeams         []TeamBreachesResponse    `json:"top_teams"`
	Monthly          []MonthlyBreachesResponse `json:"monthly"`
}

// TechnicianResponse is one technician's rollup entry.
type TechnicianResponse struct {
	Name      string  `json:"name"`
	Incidents int     `json:"incidents"`
	Share     float64 `json:"share"`
	FCRRate   float64 `json:"fcr_rate"`
	MTTRHours float64 `json:"mttr_hours"`
}

// RegionTechniciansResponse groups technician entries by region.
type RegionTechniciansResponse struct {
	Region      string               `json:"region"`
	Technicians []TechnicianResponse `json:"technicians"`
}

// TechnicianReportResponse is the full technician summary.
type TechnicianReportResponse struct {
	TotalTechnicians    int                         `json:"total_technicians"`
	AvgIncidentsPerTech float64                     `json:"avg_incidents_per_tech"`
	Regions             []RegionTechniciansResponse `json:"regions"`
}

// --- Handlers ---

// HandleOverview handles GET /overview
func (h *IncidentHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	overview, err := h.metrics.Overview(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, OverviewResponse{
		TotalIncidents:    overview.TotalIncidents,
		FCRRate:           overview.FCRRate,
		AvgResolutionTime: overview.AvgResolutionHours,
		SLACompliance:     overview.SLACompliance,
		SLAComplianceMTTR: overview.SLAComplianceMTTR,
		SLAGoalCompliance: overview.SLAGoalCompliance,
		SLABreaches:       overview.SLABreaches,
		SLABreachRate:     overview.SLABreachRate,
		IncidentChange:    overview.IncidentChange,
		FCRChange:         overview.FCRChange,
		MTTRChange:        overview.MTTRChange,
		Technicians:       overview.Technicians,
		AssignmentGroups:  overview.AssignmentGroups,
	})
}

// HandleTrends handles GET /trends
func (h *IncidentHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	trends, err := h.metrics.Trends(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := make([]TrendPointResponse, 0, len(trends))
	for _, point := range trends {
		response = append(response, TrendPointResponse{
			Month:             point.Month.Key(),
			Label:             point.Month.Label(),
			Incidents:         point.Incidents,
			FCRRate:           point.FCRRate,
			MTTRHours:         point.MTTRHours,
			SLACompliance:     point.SLACompliance,
			SLAGoalCompliance: point.SLAGoalCompliance,
			Breaches:          point.Breaches,
			BreachRate:        point.BreachRate,
		})
	}

	WriteList(w, response)
}

// HandleTeams handles GET /teams
func (h *IncidentHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	teams, err := h.metrics.TeamPerformance(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		response = append(response, TeamResponse{
			Team:               team.Team,
			Incidents:          team.Incidents,
			AvgResolutionTime:  team.AvgResolutionHours,
			FCRRate:            team.FCRRate,
			SLACompliance:      team.SLACompliance,
			SLAGoalCompliance:  team.SLAGoalCompliance,
			Breaches:           team.Breaches,
			BreachRate:         team.BreachRate,
			CriticalBreaches:   team.CriticalBreaches,
			CriticalBreachRate: team.CriticalBreachRate,
		})
	}

	WriteList(w, response)
}

// HandleSLABreach handles GET /sla-breach
func (h *IncidentHandler) HandleSLABreach(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	report, err := h.metrics.SLABreachReport(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := SLABreachResponse{
		TotalIncidents:   report.TotalIncidents,
		TotalBreaches:    report.TotalBreaches,
		BreachRate:       report.BreachRate,
		PromiseHours:     report.PromiseHours,
		ModerateBreaches: report.ModerateBreaches,
		CriticalBreaches: report.CriticalBreaches,
		TopTeams:         make([]TeamBreachesResponse, 0, len(report.TopTeams)),
		Monthly:          make([]MonthlyBreachesResponse, 0, len(report.Monthly)),
	}

	for _, team := range report.TopTeams {
		response.TopTeams = append(response.TopTeams, TeamBreachesResponse{
			Team:       team.Team,
			Incidents:  team.Incidents,
			Breaches:   team.Breaches,
			BreachRate: team.BreachRate,
		})
	}
	for _, month := range report.Monthly {
		response.Monthly = append(response.Monthly, MonthlyBreachesResponse{
			Month:      month.Month.Key(),
			Label:      month.Month.Label(),
			Incidents:  month.Incidents,
			Breaches:   month.Breaches,
			BreachRate: month.BreachRate,
		})
	}

	WriteJSON(w, http.StatusOK, response)
}

// HandleTechnicians handles GET /technicians
func (h *IncidentHandler) HandleTechnicians(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	report, err := h.metrics.TechnicianReport(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := TechnicianReportResponse{
		TotalTechnicians:    report.TotalTechnicians,
		AvgIncidentsPerTech: report.AvgIncidentsPerTech,
		Regions:             make([]RegionTechniciansResponse, 0, len(report.Regions)),
	}

	for _, region := range report.Regions {
		techs := make([]TechnicianResponse, 0, len(region.Technicians))
		for _, tech := range region.Technicians {
			techs = append(techs, TechnicianResponse{
				Name:      tech.Name,
				Incidents: tech.Incidents,
				Share:     tech.Share,
				FCRRate:   tech.FCRRate,
				MTTRHours: tech.MTTRHours,
			})
		}
		response.Regions = append(response.Regions, RegionTechniciansResponse{
			Region:      region.Region,
			Technicians: techs,
		})
	}

	WriteJSON(w, http.StatusOK, response)
}
