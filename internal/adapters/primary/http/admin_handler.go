package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// AdminHandler handles operator actions. All routes here sit behind the JWT
// middleware.
type AdminHandler struct {
	dataset      ports.DatasetService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dataset ports.DatasetService, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		dataset:      dataset,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

// Router sets up a new chi Router for admin routes.
func (h *AdminHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for admin endpoints.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/reload", h.HandleReload)
}

// ReloadResponse reports the outcome of a dataset reload
type ReloadResponse struct {
	Message       string `json:"message"`
	Incidents     int    `json:"incidents"`
	Consultations int    `json:"consultations"`
	LoadedAt      string `json:"loaded_at"`
}

// HandleReload handles POST /reload
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dataset.Reload(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.Info("dataset reloaded by operator",
		"request_id", GetRequestID(r.Context()),
		"incidents", len(snap.Incidents),
		"consultations", len(snap.Consultations),
	)

	WriteJSON(w, http.StatusOK, ReloadResponse{
		Message:       "Dataset reloaded",
		Incidents:     len(snap.Incidents),
		Consultations: len(snap.Consultations),
		LoadedAt:      snap.LoadedAt.Format(time.RFC3339),
	})
}
