package mocks

import (
	"context"

	"github.com/cx-tal-miterani/flightdesk/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockBackendService is a mock implementation of service.BackendService
type MockBackendService struct {
	mock.Mock
}

func (m *MockBackendService) Verify(ctx context.Context, token string) (models.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *MockBackendService) SearchFlights(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightRecord), args.Error(1)
}

func (m *MockBackendService) SearchAllFlights(ctx context.Context) ([]models.FlightRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightRecord), args.Error(1)
}

func (m *MockBackendService) AddFeedback(ctx context.Context, fb models.Feedback) (string, error) {
	args := m.Called(ctx, fb)
	return args.String(0), args.Error(1)
}

func (m *MockBackendService) GetUserDetails(ctx context.Context) (*models.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockBackendService) UpdateUserDetails(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	args := m.Called(ctx, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockBackendService) AddFlight(ctx context.Context, flight models.FlightRecord) (string, error) {
	args := m.Called(ctx, flight)
	return args.String(0), args.Error(1)
}

func (m *MockBackendService) GetAllFlights(ctx context.Context) ([]models.FlightRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightRecord), args.Error(1)
}

func (m *MockBackendService) UpdateFlight(ctx context.Context, id string, flight models.FlightRecord) (string, error) {
	args := m.Called(ctx, id, flight)
	return args.String(0), args.Error(1)
}

func (m *MockBackendService) DeleteFlight(ctx context.Context, id string) (*models.FlightsResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightsResponse), args.Error(1)
}
