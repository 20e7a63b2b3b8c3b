package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/desk-metrics/internal/core/domain"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// CatalogHandler serves the filter catalogs: the regions, assignment groups
// and locations present in the loaded dataset, for populating dashboard
// dropdowns.
type CatalogHandler struct {
	metrics       ports.MetricsService
	consultations ports.ConsultationService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	metrics ports.MetricsService,
	consultations ports.ConsultationService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		metrics:       metrics,
		consultations: consultations,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "catalog"),
	}
}

// Router sets up a new chi Router for all catalog routes.
func (h *CatalogHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all catalog endpoints.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/regions", h.HandleRegions)
	r.Get("/assignment-groups", h.HandleAssignmentGroups)
	r.Get("/locations", h.HandleLocations)
}

// CategoryResponse is one catalog entry.
type CategoryResponse struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// HandleRegions handles GET /regions
func (h *CatalogHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	categories, err := h.metrics.Regions(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	h.writeCategories(w, categories)
}

// HandleAssignmentGroups handles GET /assignment-groups
func (h *CatalogHandler) HandleAssignmentGroups(w http.ResponseWriter, r *http.Request) {
	categories, err := h.metrics.AssignmentGroups(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	h.writeCategories(w, categories)
}

// HandleLocations handles GET /locations
func (h *CatalogHandler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	categories, err := h.consultations.Locations(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	h.writeCategories(w, categories)
}

func (h *CatalogHandler) writeCategories(w http.ResponseWriter, categories []domain.CategoryCount) {
	response := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, CategoryResponse{
			Name:       c.Name,
			Count:      c.Count,
			Percentage: c.Percentage,
		})
	}
	WriteList(w, response)
}
