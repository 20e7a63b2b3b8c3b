package ports

import (
	"context"

	"github.com/lorrc/desk-metrics/internal/core/domain"
)

// DatasetSource is the port for loading the raw records, implemented by the
// CSV export reader and the Postgres snapshot store.
type DatasetSource interface {
	LoadIncidents(ctx context.Context) ([]domain.Incident, error)
	LoadConsultations(ctx context.Context) ([]domain.Consultation, error)
}
