package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lorrc/desk-metrics/internal/core/domain"
	apperrors "github.com/lorrc/desk-metrics/internal/core/errors"
	"github.com/lorrc/desk-metrics/internal/core/ports"
)

// DatasetService owns the snapshot lifecycle. The snapshot is held behind an
// atomic pointer: readers never lock, and a reload builds a complete new
// snapshot before swapping it in. A failed reload leaves the previous
// snapshot serving.
type DatasetService struct {
	source      ports.DatasetSource
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
	current     atomic.Pointer[domain.Snapshot]
}

var _ ports.DatasetService = (*DatasetService)(nil)

// NewDatasetService creates a dataset service. broadcaster may be nil when no
// realtime notifications are wanted.
func NewDatasetService(source ports.DatasetSource, broadcaster ports.EventBroadcaster, logger *slog.Logger) *DatasetService {
	return &DatasetService{
		source:      source,
		broadcaster: broadcaster,
		logger:      logger.With("component", "dataset"),
	}
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *DatasetService) Snapshot() *domain.Snapshot {
	return s.current.Load()
}

// Reload loads both datasets from the source and atomically swaps the
// snapshot. Connected dashboard clients are notified on success.
func (s *DatasetService) Reload(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()

	incidents, err := s.source.LoadIncidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load incidents: %w", err)
	}

	consultations, err := s.source.LoadConsultations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load consultations: %w", err)
	}

	// A source that yields nothing at all is treated as a failed reload so
	// the previous snapshot keeps serving.
	if len(incidents) == 0 && len(consultations) == 0 {
		return nil, apperrors.ErrDatasetEmpty
	}

	snap := &domain.Snapshot{
		Incidents:     incidents,
		Consultations: consultations,
		LoadedAt:      time.Now().UTC(),
	}
	s.current.Store(snap)

	s.logger.Info("dataset loaded",
		"incidents", len(incidents),
		"consultations", len(consultations),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if s.broadcaster != nil {
		if err := s.broadcaster.Broadcast(domain.NewDatasetReloadedEvent(snap)); err != nil {
			s.logger.Warn("failed to broadcast reload event", "error", err)
		}
	}

	return snap, nil
}
