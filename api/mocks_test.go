package api

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, in domain.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id int64, in domain.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUseCase) ListOrders(ctx context.Context, input orders.ListOrdersInput) ([]domain.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) CreateAirport(ctx context.Context, input catalog.AirportInput) (*domain.Airport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockCatalogUseCase) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockCatalogUseCase) CreateRoute(ctx context.Context, input catalog.RouteInput) (*domain.Route, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

func (m *MockCatalogUseCase) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockCatalogUseCase) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

func (m *MockCatalogUseCase) CreateAirplaneType(ctx context.Context, name string) (*domain.AirplaneType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AirplaneType), args.Error(1)
}

func (m *MockCatalogUseCase) ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AirplaneType), args.Error(1)
}

func (m *MockCatalogUseCase) CreateAirplane(ctx context.Context, input catalog.AirplaneInput) (*domain.Airplane, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

func (m *MockCatalogUseCase) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockCatalogUseCase) CreateCrew(ctx context.Context, input catalog.CrewInput) (*domain.Crew, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crew), args.Error(1)
}

func (m *MockCatalogUseCase) ListCrew(ctx context.Context) ([]domain.Crew, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Crew), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
