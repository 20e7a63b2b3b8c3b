package ports

import (
	"context"

	"github.com/lorrc/desk-metrics/internal/core/domain"
)

// SnapshotProvider yields the current immutable dataset snapshot. Returns nil
// before the first successful load.
type SnapshotProvider interface {
	Snapshot() *domain.Snapshot
}

// DatasetService manages the snapshot lifecycle: the initial load at startup
// and operator-triggered reloads.
type DatasetService interface {
	SnapshotProvider
	Reload(ctx context.Context) (*domain.Snapshot, error)
}

// MetricsService computes incident metrics over the current snapshot. Every
// method narrows the data through the shared filter engine exactly once; the
// same criteria therefore yield consistent counts across all methods.
type MetricsService interface {
	Overview(ctx context.Context, c domain.Criteria) (*domain.Overview, error)
	Trends(ctx context.Context, c domain.Criteria) ([]domain.TrendPoint, error)
	TeamPerformance(ctx context.Context, c domain.Criteria) ([]domain.TeamPerformance, error)
	SLABreachReport(ctx context.Context, c domain.Criteria) (*domain.SLABreachReport, error)
	TechnicianReport(ctx context.Context, c domain.Criteria) (*domain.TechnicianReport, error)
	Regions(ctx context.Context) ([]domain.CategoryCount, error)
	AssignmentGroups(ctx context.Context) ([]domain.CategoryCount, error)
}

// ConsultationService computes consultation metrics over the current
// snapshot, under the same single-filter contract as MetricsService.
type ConsultationService interface {
	Overview(ctx context.Context, c domain.Criteria) (*domain.ConsultationOverview, error)
	Trends(ctx context.Context, c domain.Criteria) ([]domain.ConsultationTrendPoint, error)
	IssueBreakdown(ctx context.Context, c domain.Criteria) (*domain.IssueBreakdown, error)
	TechnicianRollup(ctx context.Context, c domain.Criteria) ([]domain.ConsultationGroupStats, error)
	LocationRollup(ctx context.Context, c domain.Criteria) ([]domain.ConsultationGroupStats, error)
	Locations(ctx context.Context) ([]domain.CategoryCount, error)
}

// AuthService validates operator credentials for the admin endpoints.
type AuthService interface {
	Login(ctx context.Context, password string) (token string, err error)
}

// EventBroadcaster pushes realtime events to connected dashboard clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
