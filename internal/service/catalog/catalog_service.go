package catalog

import (
	"context"
	"strings"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
)

// CatalogUseCase manages the reference data flights are built from.
type CatalogUseCase interface {
	CreateAirport(ctx context.Context, input AirportInput) (*domain.Airport, error)
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	CreateRoute(ctx context.Context, input RouteInput) (*domain.Route, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	CreateAirplaneType(ctx context.Context, name string) (*domain.AirplaneType, error)
	ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error)
	CreateAirplane(ctx context.Context, input AirplaneInput) (*domain.Airplane, error)
	ListAirplanes(ctx context.Context) ([]domain.Airplane, error)
	CreateCrew(ctx context.Context, input CrewInput) (*domain.Crew, error)
	ListCrew(ctx context.Context) ([]domain.Crew, error)
}

type AirportInput struct {
	Name           string
	ClosestBigCity string
}

type RouteInput struct {
	SourceID      int64
	DestinationID int64
	Distance      int
}

type AirplaneInput struct {
	Name       string
	Rows       int
	SeatsInRow int
	TypeID     int64
}

type CrewInput struct {
	FirstName string
	LastName  string
}

type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) CreateAirport(ctx context.Context, input AirportInput) (*domain.Airport, error) {
	airport := &domain.Airport{
		Name:           strings.TrimSpace(input.Name),
		ClosestBigCity: strings.TrimSpace(input.ClosestBigCity),
	}
	if err := required("name", airport.Name); err != nil {
		return nil, err
	}
	if err := required("closest_big_city", airport.ClosestBigCity); err != nil {
		return nil, err
	}
	if err := s.repo.CreateAirport(ctx, airport); err != nil {
		return nil, err
	}
	return airport, nil
}

func (s *CatalogService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.repo.ListAirports(ctx)
}

func (s *CatalogService) CreateRoute(ctx context.Context, input RouteInput) (*domain.Route, error) {
	if err := domain.ValidateRoute(input.SourceID, input.DestinationID, input.Distance); err != nil {
		return nil, err
	}
	return s.repo.CreateRoute(ctx, input.SourceID, input.DestinationID, input.Distance)
}

func (s *CatalogService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return s.repo.ListRoutes(ctx)
}

func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	if id <= 0 {
		return nil, domain.ErrRouteNotFound
	}
	return s.repo.GetRoute(ctx, id)
}

func (s *CatalogService) CreateAirplaneType(ctx context.Context, name string) (*domain.AirplaneType, error) {
	airplaneType := &domain.AirplaneType{Name: strings.TrimSpace(name)}
	if err := required("name", airplaneType.Name); err != nil {
		return nil, err
	}
	if err := s.repo.CreateAirplaneType(ctx, airplaneType); err != nil {
		return nil, err
	}
	return airplaneType, nil
}

func (s *CatalogService) ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	return s.repo.ListAirplaneTypes(ctx)
}

func (s *CatalogService) CreateAirplane(ctx context.Context, input AirplaneInput) (*domain.Airplane, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateAirplane(name, input.Rows, input.SeatsInRow); err != nil {
		return nil, err
	}
	if input.TypeID <= 0 {
		return nil, &domain.ValidationError{Field: "airplane_type", Message: "airplane_type is required", Err: domain.ErrRequired}
	}
	return s.repo.CreateAirplane(ctx, name, input.Rows, input.SeatsInRow, input.TypeID)
}

func (s *CatalogService) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	return s.repo.ListAirplanes(ctx)
}

func (s *CatalogService) CreateCrew(ctx context.Context, input CrewInput) (*domain.Crew, error) {
	crew := &domain.Crew{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	if err := required("first_name", crew.FirstName); err != nil {
		return nil, err
	}
	if err := required("last_name", crew.LastName); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCrew(ctx, crew); err != nil {
		return nil, err
	}
	return crew, nil
}

func (s *CatalogService) ListCrew(ctx context.Context) ([]domain.Crew, error) {
	return s.repo.ListCrew(ctx)
}

func required(field, value string) error {
	if value == "" {
		return &domain.ValidationError{Field: field, Message: field + " is required", Err: domain.ErrRequired}
	}
	return nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
