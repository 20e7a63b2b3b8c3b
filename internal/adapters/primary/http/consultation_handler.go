package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/desk-metrics/internal/adapters/primary/validation"
	"github.com/lorrc/desk-metrics/internal/core/domain"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// ConsultationHandler serves the walk-up consultation endpoints. The same
// filter parameters apply as for incidents; a criterion on a field
// consultations don't have (assignment_group) matches nothing.
type ConsultationHandler struct {
	consultations ports.ConsultationService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewConsultationHandler creates a new consultation handler
func NewConsultationHandler(consultations ports.ConsultationService, errorHandler *ErrorHandler, logger *slog.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		consultations: consultations,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "consultations"),
	}
}

// Router sets up a new chi Router for all consultation routes.
func (h *ConsultationHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all consultation endpoints.
func (h *ConsultationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/trends", h.HandleTrends)
	r.Get("/issues", h.HandleIssues)
	r.Get("/technicians", h.HandleTechnicians)
	r.Get("/locations", h.HandleLocations)
}

// --- Response DTOs ---

// TypeCountResponse is one entry of the consultation type breakdown.
type TypeCountResponse struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ConsultationOverviewResponse is the headline consultation summary.
type ConsultationOverviewResponse struct {
	TotalConsultations   int                 `json:"total_consultations"`
	Completed            int                 `json:"completed"`
	CompletionRate       float64             `json:"completion_rate"`
	TypeBreakdown        []TypeCountResponse `json:"type_breakdown"`
	IncidentsCreated     int                 `json:"incidents_created"`
	IncidentCreationRate float64             `json:"incident_creation_rate"`
	MissingIncident      int                 `json:"missing_incident"`
	MissingIncidentRate  float64             `json:"missing_incident_rate"`
	Locations            int                 `json:"locations"`
	Technicians          int                 `json:"technicians"`
}

// ConsultationTrendResponse is one month of the consultation series.
type ConsultationTrendResponse struct {
	Month            string `json:"month"`
	Label            string `json:"label"`
	Consultations    int    `json:"consultations"`
	Completed        int    `json:"completed"`
	IncidentsCreated int    `json:"incidents_created"`
}

// IssueBreakdownResponse is the top-issue distribution.
type IssueBreakdownResponse struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
	Total  int      `json:"total"`
}

// ConsultationGroupResponse is one per-technician or per-location rollup row.
type ConsultationGroupResponse struct {
	Name           string  `json:"name"`
	Consultations  int     `json:"consultations"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
	Share          float64 `json:"share"`
}

// --- Handlers ---

// HandleOverview handles GET /overview
func (h *ConsultationHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	overview, err := h.consultations.Overview(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	types := make([]TypeCountResponse, 0, len(overview.TypeBreakdown))
	for _, t := range overview.TypeBreakdown {
		types = append(types, TypeCountResponse{
			Type:       t.Type,
			Count:      t.Count,
			Percentage: t.Percentage,
		})
	}

	WriteJSON(w, http.StatusOK, ConsultationOverviewResponse{
		TotalConsultations:   overview.Total,
		Completed:            overview.Completed,
		CompletionRate:       overview.CompletionRate,
		TypeBreakdown:        types,
		IncidentsCreated:     overview.IncidentsCreated,
		IncidentCreationRate: overview.IncidentCreationRate,
		MissingIncident:      overview.MissingIncident,
		MissingIncidentRate:  overview.MissingIncidentRate,
		Locations:            overview.Locations,
		Technicians:          overview.Technicians,
	})
}

// HandleTrends handles GET /trends
func (h *ConsultationHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	trends, err := h.consultations.Trends(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := make([]ConsultationTrendResponse, 0, len(trends))
	for _, point := range trends {
		response = append(response, ConsultationTrendResponse{
			Month:            point.Month.Key(),
			Label:            point.Month.Label(),
			Consultations:    point.Consultations,
			Completed:        point.Completed,
			IncidentsCreated: point.IncidentsCreated,
		})
	}

	WriteList(w, response)
}

// HandleIssues handles GET /issues
func (h *ConsultationHandler) HandleIssues(w http.ResponseWriter, r *http.Request) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	breakdown, err := h.consultations.IssueBreakdown(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := IssueBreakdownResponse{
		Labels: breakdown.Labels,
		Counts: breakdown.Counts,
		Total:  breakdown.Total,
	}
	if response.Labels == nil {
		response.Labels = []string{}
	}
	if response.Counts == nil {
		response.Counts = []int{}
	}

	WriteJSON(w, http.StatusOK, response)
}

// HandleTechnicians handles GET /technicians
func (h *ConsultationHandler) HandleTechnicians(w http.ResponseWriter, r *http.Request) {
	h.writeRollup(w, r, h.consultations.TechnicianRollup)
}

// HandleLocations handles GET /locations
func (h *ConsultationHandler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	h.writeRollup(w, r, h.consultations.LocationRollup)
}

func (h *ConsultationHandler) writeRollup(
	w http.ResponseWriter,
	r *http.Request,
	rollup func(ctx context.Context, c domain.Criteria) ([]domain.ConsultationGroupStats, error),
) {
	criteria, err := validation.ParseCriteria(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	groups, err := rollup(r.Context(), criteria)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := make([]ConsultationGroupResponse, 0, len(groups))
	for _, g := range groups {
		response = append(response, ConsultationGroupResponse{
			Name:           g.Name,
			Consultations:  g.Consultations,
			Completed:      g.Completed,
			CompletionRate: g.CompletionRate,
			Share:          g.Share,
		})
	}

	WriteList(w, response)
}
