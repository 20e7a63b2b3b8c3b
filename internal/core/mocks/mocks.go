package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lorrc/desk-metrics/internal/core/domain"
)

// MockDatasetSource is a mock implementation of ports.DatasetSource
type MockDatasetSource struct {
	mock.Mock
}

func NewMockDatasetSource() *MockDatasetSource {
	return &MockDatasetSource{}
}

func (m *MockDatasetSource) LoadIncidents(ctx context.Context) ([]domain.Incident, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Incident), args.Error(1)
}

func (m *MockDatasetSource) LoadConsultations(ctx context.Context) ([]domain.Consultation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Consultation), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockMetricsService is a mock implementation of ports.MetricsService
type MockMetricsService struct {
	mock.Mock
}

func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) Overview(ctx context.Context, c domain.Criteria) (*domain.Overview, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Overview), args.Error(1)
}

func (m *MockMetricsService) Trends(ctx context.Context, c domain.Criteria) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func (m *MockMetricsService) TeamPerformance(ctx context.Context, c domain.Criteria) ([]domain.TeamPerformance, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TeamPerformance), args.Error(1)
}

func (m *MockMetricsService) SLABreachReport(ctx context.Context, c domain.Criteria) (*domain.SLABreachReport, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SLABreachReport), args.Error(1)
}

func (m *MockMetricsService) TechnicianReport(ctx context.Context, c domain.Criteria) (*domain.TechnicianReport, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TechnicianReport), args.Error(1)
}

func (m *MockMetricsService) Regions(ctx context.Context) ([]domain.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

func (m *MockMetricsService) AssignmentGroups(ctx context.Context) ([]domain.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

// MockConsultationService is a mock implementation of ports.ConsultationService
type MockConsultationService struct {
	mock.Mock
}

func NewMockConsultationService() *MockConsultationService {
	return &MockConsultationService{}
}

func (m *MockConsultationService) Overview(ctx context.Context, c domain.Criteria) (*domain.ConsultationOverview, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsultationOverview), args.Error(1)
}

func (m *MockConsultationService) Trends(ctx context.Context, c domain.Criteria) ([]domain.ConsultationTrendPoint, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConsultationTrendPoint), args.Error(1)
}

func (m *MockConsultationService) IssueBreakdown(ctx context.Context, c domain.Criteria) (*domain.IssueBreakdown, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssueBreakdown), args.Error(1)
}

func (m *MockConsultationService) TechnicianRollup(ctx context.Context, c domain.Criteria) ([]domain.ConsultationGroupStats, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConsultationGroupStats), args.Error(1)
}

func (m *MockConsultationService) LocationRollup(ctx context.Context, c domain.Criteria) ([]domain.ConsultationGroupStats, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConsultationGroupStats), args.Error(1)
}

func (m *MockConsultationService) Locations(ctx context.Context) ([]domain.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryCount), args.Error(1)
}

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Login(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

// MockDatasetService is a mock implementation of ports.DatasetService
type MockDatasetService struct {
	mock.Mock
}

func NewMockDatasetService() *MockDatasetService {
	return &MockDatasetService{}
}

func (m *MockDatasetService) Snapshot() *domain.Snapshot {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Snapshot)
}

func (m *MockDatasetService) Reload(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}
