package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/desk-metrics/internal/core/domain"
	apperrors "github.com/lorrc/desk-metrics/internal/core/errors"
	"github.com/lorrc/desk-metrics/internal/core/mocks"
	"github.com/lorrc/desk-metrics/internal/core/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDatasetServiceReload(t *testing.T) {
	incidents := []domain.Incident{
		{Number: "INC001", CreatedAt: time.Date(2025, 2, 4, 9, 0, 0, 0, time.UTC)},
	}
	consultations := []domain.Consultation{
		{ID: "C1", CreatedAt: time.Date(2025, 2, 4, 10, 0, 0, 0, time.UTC)},
	}

	t.Run("swaps snapshot and broadcasts", func(t *testing.T) {
		source := mocks.NewMockDatasetSource()
		source.On("LoadIncidents", mock.Anything).Return(incidents, nil)
		source.On("LoadConsultations", mock.Anything).Return(consultations, nil)

		broadcaster := mocks.NewMockEventBroadcaster()
		broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventDatasetReloaded && e.Incidents == 1
		})).Return(nil)

		svc := services.NewDatasetService(source, broadcaster, discardLogger())
		assert.Nil(t, svc.Snapshot())

		snap, err := svc.Reload(context.Background())
		require.NoError(t, err)

		assert.Len(t, snap.Incidents, 1)
		assert.Len(t, snap.Consultations, 1)
		assert.False(t, snap.LoadedAt.IsZero())
		assert.Same(t, snap, svc.Snapshot())

		source.AssertExpectations(t)
		broadcaster.AssertExpectations(t)
	})

	t.Run("failed reload keeps previous snapshot", func(t *testing.T) {
		source := mocks.NewMockDatasetSource()
		source.On("LoadIncidents", mock.Anything).Return(incidents, nil).Once()
		source.On("LoadConsultations", mock.Anything).Return(consultations, nil).Once()
		source.On("LoadIncidents", mock.Anything).Return(nil, errors.New("export missing")).Once()

		svc := services.NewDatasetService(source, nil, discardLogger())

		first, err := svc.Reload(context.Background())
		require.NoError(t, err)

		_, err = svc.Reload(context.Background())
		require.Error(t, err)
		assert.Same(t, first, svc.Snapshot())
	})

	t.Run("empty source is a failed reload", func(t *testing.T) {
		source := mocks.NewMockDatasetSource()
		source.On("LoadIncidents", mock.Anything).Return(incidents, nil).Once()
		source.On("LoadConsultations", mock.Anything).Return(consultations, nil).Once()
		source.On("LoadIncidents", mock.Anything).Return([]domain.Incident{}, nil).Once()
		source.On("LoadConsultations", mock.Anything).Return([]domain.Consultation{}, nil).Once()

		broadcaster := mocks.NewMockEventBroadcaster()
		broadcaster.On("Broadcast", mock.Anything).Return(nil).Once()

		svc := services.NewDatasetService(source, broadcaster, discardLogger())

		first, err := svc.Reload(context.Background())
		require.NoError(t, err)

		_, err = svc.Reload(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrDatasetEmpty)
		assert.Same(t, first, svc.Snapshot())

		// Only the first reload may announce itself.
		broadcaster.AssertNumberOfCalls(t, "Broadcast", 1)
	})

	t.Run("broadcast failure does not fail the reload", func(t *testing.T) {
		source := mocks.NewMockDatasetSource()
		source.On("LoadIncidents", mock.Anything).Return(incidents, nil)
		source.On("LoadConsultations", mock.Anything).Return(consultations, nil)

		broadcaster := mocks.NewMockEventBroadcaster()
		broadcaster.On("Broadcast", mock.Anything).Return(errors.New("hub closed"))

		svc := services.NewDatasetService(source, broadcaster, discardLogger())
		_, err := svc.Reload(context.Background())
		require.NoError(t, err)
	})
}
