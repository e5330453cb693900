package flights

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, in domain.FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, in domain.FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

// FlightCache keeps flight listings keyed by query. Entries are grouped by a
// generation that InvalidateFlights bumps, so a write makes every earlier
// listing unreachable at once.
type FlightCache interface {
	GetFlights(ctx context.Context, query string) ([]domain.Flight, int64, error)
	SetFlights(ctx context.Context, gen int64, query string, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	key := cacheKey(filter)

	var (
		gen    int64
		cached bool
	)
	if s.cache != nil {
		flights, g, err := s.cache.GetFlights(ctx, key)
		switch {
		case err != nil:
			log.Printf("WARNING: flights cache read failed: %v", err)
		case flights != nil:
			return flights, nil
		default:
			gen, cached = g, true
		}
	}

	flights, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if flights == nil {
		flights = []domain.Flight{}
	}
	for i := range flights {
		if err := annotate(&flights[i]); err != nil {
			return nil, err
		}
	}

	if cached {
		if err := s.cache.SetFlights(ctx, gen, key, flights); err != nil {
			log.Printf("WARNING: flights cache write failed: %v", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := annotate(flight); err != nil {
		return nil, err
	}
	return flight, nil
}

func (s *FlightService) Create(ctx context.Context, in domain.FlightInput) (*domain.Flight, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	id, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetByID(ctx, id)
}

func (s *FlightService) Update(ctx context.Context, id int64, in domain.FlightInput) (*domain.Flight, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, in); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetByID(ctx, id)
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Audit scans every flight, bypassing the cache, and returns the ones that
// sold more tickets than their airplane holds.
func (s *FlightService) Audit(ctx context.Context) ([]domain.ConsistencyError, error) {
	flights, err := s.repo.List(ctx, domain.FlightFilter{})
	if err != nil {
		return nil, err
	}
	var faults []domain.ConsistencyError
	for i := range flights {
		var fault *domain.ConsistencyError
		if err := annotate(&flights[i]); errors.As(err, &fault) {
			faults = append(faults, *fault)
		}
	}
	return faults, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Printf("WARNING: failed to invalidate flights cache: %v", err)
	}
}

func annotate(f *domain.Flight) error {
	available, err := domain.AvailableSeats(f.ID, f.Airplane.Capacity(), f.TicketsSold)
	if err != nil {
		log.Printf("ERROR: %v", err)
		return err
	}
	f.TicketsAvailable = available
	return nil
}

func validateInput(in domain.FlightInput) error {
	if in.RouteID <= 0 {
		return &domain.ValidationError{Field: "route", Message: "route is required", Err: domain.ErrRequired}
	}
	if in.AirplaneID <= 0 {
		return &domain.ValidationError{Field: "airplane", Message: "airplane is required", Err: domain.ErrRequired}
	}
	return domain.ValidateSchedule(in.DepartureTime, in.ArrivalTime)
}

// cacheKey renders a filter as a canonical query string.
func cacheKey(filter domain.FlightFilter) string {
	v := url.Values{}
	if filter.RouteID > 0 {
		v.Set("route", strconv.FormatInt(filter.RouteID, 10))
	}
	setTime(v, "departure_after", filter.DepartureAfter)
	setTime(v, "departure_before", filter.DepartureBefore)
	setTime(v, "arrival_after", filter.ArrivalAfter)
	setTime(v, "arrival_before", filter.ArrivalBefore)
	if len(filter.Ordering) > 0 {
		v.Set("ordering", strings.Join(filter.Ordering, ","))
	}
	return v.Encode()
}

func setTime(v url.Values, key string, t time.Time) {
	if !t.IsZero() {
		v.Set(key, t.UTC().Format(time.RFC3339Nano))
	}
}

var _ FlightUseCase = (*FlightService)(nil)
