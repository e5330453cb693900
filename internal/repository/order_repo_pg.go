package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// FlightSeating returns the airplane grid of a flight and share-locks the
	// flight row for the rest of the transaction.
	FlightSeating(ctx context.Context, flightID int64) (domain.Airplane, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, pgx.TxOptions{}, fn)
}

func (r *PGOrderRepository) FlightSeating(ctx context.Context, flightID int64) (domain.Airplane, error) {
	const query = `
SELECT a.id, a.name, a.rows, a.seats_in_row
FROM flights f JOIN airplanes a ON a.id = f.airplane_id
WHERE f.id = $1
FOR SHARE OF f`

	var a domain.Airplane
	err := conn(ctx, r.db).QueryRow(ctx, query, flightID).Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Airplane{}, domain.ErrFlightNotFound
		}
		return domain.Airplane{}, fmt.Errorf("get flight seating: %w", err)
	}
	return a, nil
}

func (r *PGOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO orders (user_id) VALUES ($1) RETURNING id, created_at`, order.UserID).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// CreateTicket inserts one ticket. A concurrent transaction holding the same
// (flight, row, seat) makes this insert wait for it; if that transaction
// commits the insert fails with ErrSeatAlreadyTaken.
func (r *PGOrderRepository) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	err := conn(ctx, r.db).QueryRow(ctx, `
INSERT INTO tickets (seat_row, seat, flight_id, order_id)
VALUES ($1, $2, $3, $4)
RETURNING id`, ticket.Row, ticket.Seat, ticket.FlightID, ticket.OrderID).Scan(&ticket.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSeatAlreadyTaken
		}
		if _, ok := foreignKeyViolation(err); ok {
			return domain.ErrFlightNotFound
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, user_id, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		var o domain.Order
		err := row.Scan(&o.ID, &o.UserID, &o.CreatedAt)
		return o, err
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Tickets = make([]domain.Ticket, 0)
	}

	ticketRows, err := r.db.Query(ctx, `
SELECT tk.id, tk.seat_row, tk.seat, tk.order_id,
	f.id, f.departure_time, f.arrival_time,
	s.name, d.name, a.name, a.rows, a.seats_in_row,
	(SELECT COUNT(*) FROM tickets sold WHERE sold.flight_id = f.id)
FROM tickets tk
JOIN flights f ON f.id = tk.flight_id
JOIN routes r ON r.id = f.route_id
JOIN airports s ON s.id = r.source_id
JOIN airports d ON d.id = r.destination_id
JOIN airplanes a ON a.id = f.airplane_id
WHERE tk.order_id = ANY($1)
ORDER BY tk.seat_row, tk.seat, tk.id`, ids)
	if err != nil {
		return nil, err
	}
	defer ticketRows.Close()

	for ticketRows.Next() {
		var (
			t domain.Ticket
			f domain.Flight
		)
		if err := ticketRows.Scan(&t.ID, &t.Row, &t.Seat, &t.OrderID,
			&f.ID, &f.DepartureTime, &f.ArrivalTime,
			&f.Route.Source.Name, &f.Route.Destination.Name,
			&f.Airplane.Name, &f.Airplane.Rows, &f.Airplane.SeatsInRow, &f.TicketsSold); err != nil {
			return nil, err
		}
		t.FlightID = f.ID
		t.Flight = &f
		i := index[t.OrderID]
		orders[i].Tickets = append(orders[i].Tickets, t)
	}
	if err := ticketRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

var _ OrderRepository = (*PGOrderRepository)(nil)
