package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, input ListOrdersInput) ([]domain.Order, error)
}

// FlightsCache is the part of the flight cache an order commit must invalidate.
type FlightsCache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type OrderService struct {
	orders             repository.OrderRepository
	cache              FlightsCache
	producer           Producer
	ordersTopic        string
	notificationsTopic string
	txTimeout          time.Duration
	publishRetries     int
}

type CreateOrderInput struct {
	UserID  string
	Tickets []domain.TicketRequest
}

type ListOrdersInput struct {
	UserID string
	Page   int
	Limit  int
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

// WithPublishRetries sets how many attempts each event publish gets.
func WithPublishRetries(n int) OrderServiceOption {
	return func(s *OrderService) {
		if n > 0 {
			s.publishRetries = n
		}
	}
}

func WithTxTimeout(timeout time.Duration) OrderServiceOption {
	return func(s *OrderService) {
		s.txTimeout = timeout
	}
}

func NewOrderService(
	orders repository.OrderRepository,
	cache FlightsCache,
	producer Producer,
	ordersTopic string,
	opts ...OrderServiceOption,
) *OrderService {
	service := &OrderService{
		orders:         orders,
		cache:          cache,
		producer:       producer,
		ordersTopic:    ordersTopic,
		txTimeout:      5 * time.Second,
		publishRetries: 1,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateOrder persists an order and all of its tickets, or nothing.
//
// Every ticket is checked against its flight's grid before the first write.
// Seat collisions with other orders are caught by the tickets unique key;
// the losing transaction sees ErrSeatAlreadyTaken after the winner commits.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if len(input.Tickets) == 0 {
		return nil, &domain.ValidationError{
			Field:   "tickets",
			Message: "order must contain at least one ticket",
			Err:     domain.ErrEmptyOrder,
		}
	}
	if i := domain.DuplicateSeat(input.Tickets); i >= 0 {
		t := input.Tickets[i]
		return nil, &domain.SeatTakenError{Index: i, FlightID: t.FlightID, Row: t.Row, Seat: t.Seat}
	}

	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	order := &domain.Order{UserID: input.UserID}
	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.validateTickets(txCtx, input.Tickets); err != nil {
			return err
		}

		if err := s.orders.CreateOrder(txCtx, order); err != nil {
			return err
		}

		tickets := make([]domain.Ticket, len(input.Tickets))
		for _, i := range insertOrder(input.Tickets) {
			req := input.Tickets[i]
			ticket := domain.Ticket{Row: req.Row, Seat: req.Seat, FlightID: req.FlightID, OrderID: order.ID}
			if err := s.orders.CreateTicket(txCtx, &ticket); err != nil {
				if errors.Is(err, domain.ErrSeatAlreadyTaken) {
					return &domain.SeatTakenError{Index: i, FlightID: req.FlightID, Row: req.Row, Seat: req.Seat}
				}
				return err
			}
			tickets[i] = ticket
		}
		order.Tickets = tickets
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("WARNING: failed to invalidate flights cache after order %d: %v", order.ID, err)
		}
	}
	if err := s.publish(ctx, kafka.EventOrderCreated, order); err != nil {
		log.Printf("WARNING: failed to publish %s event for order %d: %v", kafka.EventOrderCreated, order.ID, err)
	}
	return order, nil
}

// validateTickets loads each distinct flight once, in id order, and checks
// every requested seat against its grid.
func (s *OrderService) validateTickets(ctx context.Context, tickets []domain.TicketRequest) error {
	ids := make([]int64, 0, len(tickets))
	seen := make(map[int64]bool, len(tickets))
	for _, t := range tickets {
		if !seen[t.FlightID] {
			seen[t.FlightID] = true
			ids = append(ids, t.FlightID)
		}
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	grids := make(map[int64]domain.Airplane, len(ids))
	missing := make(map[int64]bool)
	for _, id := range ids {
		grid, err := s.orders.FlightSeating(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrFlightNotFound) {
				missing[id] = true
				continue
			}
			return err
		}
		grids[id] = grid
	}

	for i, t := range tickets {
		if missing[t.FlightID] {
			return &domain.TicketError{Index: i, Err: &domain.ValidationError{
				Field:   "flight",
				Message: fmt.Sprintf("flight %d does not exist", t.FlightID),
				Err:     domain.ErrFlightNotFound,
			}}
		}
		grid := grids[t.FlightID]
		if err := domain.ValidateSeat(t.Row, t.Seat, grid.Rows, grid.SeatsInRow); err != nil {
			return &domain.TicketError{Index: i, Err: err}
		}
	}
	return nil
}

// insertOrder returns ticket indexes sorted by (flight, row, seat). Inserting
// in one global order keeps two overlapping orders from deadlocking on each
// other's seats.
func insertOrder(tickets []domain.TicketRequest) []int {
	idx := make([]int, len(tickets))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := tickets[idx[a]], tickets[idx[b]]
		if x.FlightID != y.FlightID {
			return x.FlightID < y.FlightID
		}
		if x.Row != y.Row {
			return x.Row < y.Row
		}
		return x.Seat < y.Seat
	})
	return idx
}

func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) ([]domain.Order, error) {
	if input.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := input.Page
	if page <= 0 {
		page = 1
	}
	if page-1 > math.MaxInt32/limit {
		return nil, &domain.ValidationError{
			Field:   "page",
			Message: fmt.Sprintf("page must be at most %d for limit %d", math.MaxInt32/limit+1, limit),
			Err:     domain.ErrOutOfRange,
		}
	}
	orders, err := s.orders.ListByUser(ctx, input.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		for j := range orders[i].Tickets {
			f := orders[i].Tickets[j].Flight
			if f == nil {
				continue
			}
			available, err := domain.AvailableSeats(f.ID, f.Airplane.Capacity(), f.TicketsSold)
			if err != nil {
				log.Printf("ERROR: %v", err)
				return nil, err
			}
			f.TicketsAvailable = available
		}
	}
	return orders, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) error {
	if s.producer == nil || s.ordersTopic == "" {
		return nil
	}
	event := kafka.NewOrderEvent(eventType, order)
	key := fmt.Sprintf("%d", order.ID)
	if err := s.producer.PublishWithRetry(ctx, s.ordersTopic, key, event, s.publishRetries); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.PublishWithRetry(ctx, s.notificationsTopic, key, event, s.publishRetries)
	}
	return nil
}

var _ OrderUseCase = (*OrderService)(nil)
