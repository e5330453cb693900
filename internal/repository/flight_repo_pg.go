package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, in domain.FlightInput) (int64, error)
	Update(ctx context.Context, id int64, in domain.FlightInput) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

// Capacity and sold count come from the same statement, so availability is
// computed from one snapshot.
const flightSelect = `
SELECT f.id, f.departure_time, f.arrival_time, f.created_at, f.updated_at,
	r.id, r.distance, s.id, s.name, s.closest_big_city, d.id, d.name, d.closest_big_city,
	a.id, a.name, a.rows, a.seats_in_row, t.id, t.name,
	(SELECT COUNT(*) FROM tickets tk WHERE tk.flight_id = f.id)
FROM flights f
JOIN routes r ON r.id = f.route_id
JOIN airports s ON s.id = r.source_id
JOIN airports d ON d.id = r.destination_id
JOIN airplanes a ON a.id = f.airplane_id
JOIN airplane_types t ON t.id = a.airplane_type_id`

var orderingColumns = map[string]string{
	"route":          "s.name %[1]s, d.name %[1]s",
	"departure_time": "f.departure_time %[1]s",
	"arrival_time":   "f.arrival_time %[1]s",
}

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt, &f.UpdatedAt,
		&f.Route.ID, &f.Route.Distance,
		&f.Route.Source.ID, &f.Route.Source.Name, &f.Route.Source.ClosestBigCity,
		&f.Route.Destination.ID, &f.Route.Destination.Name, &f.Route.Destination.ClosestBigCity,
		&f.Airplane.ID, &f.Airplane.Name, &f.Airplane.Rows, &f.Airplane.SeatsInRow,
		&f.Airplane.Type.ID, &f.Airplane.Type.Name,
		&f.TicketsSold)
	return f, err
}

// buildFlightQuery renders the WHERE and ORDER BY clauses for a filter.
// Unknown ordering fields are rejected rather than ignored.
func buildFlightQuery(filter domain.FlightFilter) (string, []any, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.RouteID != 0 {
		add("f.route_id = $%d", filter.RouteID)
	}
	if !filter.DepartureAfter.IsZero() {
		add("f.departure_time >= $%d", filter.DepartureAfter)
	}
	if !filter.DepartureBefore.IsZero() {
		add("f.departure_time <= $%d", filter.DepartureBefore)
	}
	if !filter.ArrivalAfter.IsZero() {
		add("f.arrival_time >= $%d", filter.ArrivalAfter)
	}
	if !filter.ArrivalBefore.IsZero() {
		add("f.arrival_time <= $%d", filter.ArrivalBefore)
	}

	var sb strings.Builder
	sb.WriteString(flightSelect)
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	order := make([]string, 0, len(filter.Ordering)+1)
	for _, field := range filter.Ordering {
		direction := "ASC"
		if strings.HasPrefix(field, "-") {
			direction = "DESC"
			field = strings.TrimPrefix(field, "-")
		}
		column, ok := orderingColumns[field]
		if !ok {
			return "", nil, &domain.ValidationError{
				Field:   "ordering",
				Message: fmt.Sprintf("cannot order by %q", field),
				Err:     domain.ErrInvalidFilter,
			}
		}
		order = append(order, fmt.Sprintf(column, direction))
	}
	if len(order) == 0 {
		order = append(order, "f.departure_time ASC")
	}
	order = append(order, "f.id ASC")
	sb.WriteString("\nORDER BY ")
	sb.WriteString(strings.Join(order, ", "))

	return sb.String(), args, nil
}

func (r *PGFlightRepository) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	query, args, err := buildFlightQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// GetByID loads a flight with its crew and taken seats. The reads share one
// repeatable-read snapshot so TicketsSold matches len(TakenSeats).
func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	var flight domain.Flight
	err := withTx(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		f, err := scanFlight(q.QueryRow(ctx, flightSelect+"\nWHERE f.id = $1", id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrFlightNotFound
			}
			return fmt.Errorf("get flight: %w", err)
		}

		crewRows, err := q.Query(ctx, `
SELECT c.id, c.first_name, c.last_name
FROM flight_crew fc JOIN crew c ON c.id = fc.crew_id
WHERE fc.flight_id = $1
ORDER BY c.first_name, c.last_name, c.id`, id)
		if err != nil {
			return err
		}
		f.Crew, err = pgx.CollectRows(crewRows, func(row pgx.CollectableRow) (domain.Crew, error) {
			var c domain.Crew
			err := row.Scan(&c.ID, &c.FirstName, &c.LastName)
			return c, err
		})
		if err != nil {
			return err
		}

		seatRows, err := q.Query(ctx, `SELECT seat_row, seat FROM tickets WHERE flight_id = $1 ORDER BY seat_row, seat`, id)
		if err != nil {
			return err
		}
		f.TakenSeats, err = pgx.CollectRows(seatRows, func(row pgx.CollectableRow) (domain.Seat, error) {
			var s domain.Seat
			err := row.Scan(&s.Row, &s.Seat)
			return s, err
		})
		if err != nil {
			return err
		}

		flight = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, in domain.FlightInput) (int64, error) {
	var id int64
	err := withTx(ctx, r.db, pgx.TxOptions{}, func(ctx context.Context) error {
		q := conn(ctx, r.db)
		err := q.QueryRow(ctx, `
INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
VALUES ($1, $2, $3, $4)
RETURNING id`, in.RouteID, in.AirplaneID, in.DepartureTime, in.ArrivalTime).Scan(&id)
		if err != nil {
			return flightWriteError(err)
		}
		return replaceCrew(ctx, q, id, in.CrewIDs)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites a flight. The row lock taken here conflicts with the share
// lock held by order transactions, so the grid check below cannot race a sale.
func (r *PGFlightRepository) Update(ctx context.Context, id int64, in domain.FlightInput) error {
	return withTx(ctx, r.db, pgx.TxOptions{}, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		var airplaneID int64
		if err := q.QueryRow(ctx, `SELECT airplane_id FROM flights WHERE id = $1 FOR UPDATE`, id).Scan(&airplaneID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrFlightNotFound
			}
			return fmt.Errorf("lock flight: %w", err)
		}

		if airplaneID != in.AirplaneID {
			if err := checkTicketsFit(ctx, q, id, in.AirplaneID); err != nil {
				return err
			}
		}

		_, err := q.Exec(ctx, `
UPDATE flights
SET route_id = $2, airplane_id = $3, departure_time = $4, arrival_time = $5, updated_at = now()
WHERE id = $1`, id, in.RouteID, in.AirplaneID, in.DepartureTime, in.ArrivalTime)
		if err != nil {
			return flightWriteError(err)
		}

		if _, err := q.Exec(ctx, `DELETE FROM flight_crew WHERE flight_id = $1`, id); err != nil {
			return fmt.Errorf("clear crew: %w", err)
		}
		return replaceCrew(ctx, q, id, in.CrewIDs)
	})
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return domain.ErrFlightHasTickets
		}
		return fmt.Errorf("delete flight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func checkTicketsFit(ctx context.Context, q querier, flightID, airplaneID int64) error {
	var rows, seats int
	err := q.QueryRow(ctx, `SELECT rows, seats_in_row FROM airplanes WHERE id = $1`, airplaneID).Scan(&rows, &seats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.ValidationError{Field: "airplane", Message: "airplane does not exist", Err: domain.ErrAirplaneNotFound}
		}
		return fmt.Errorf("get airplane: %w", err)
	}

	var maxRow, maxSeat int
	err = q.QueryRow(ctx, `SELECT COALESCE(MAX(seat_row), 0), COALESCE(MAX(seat), 0) FROM tickets WHERE flight_id = $1`, flightID).
		Scan(&maxRow, &maxSeat)
	if err != nil {
		return fmt.Errorf("get sold grid: %w", err)
	}
	if maxRow > rows || maxSeat > seats {
		return &domain.ValidationError{
			Field:   "airplane",
			Message: fmt.Sprintf("sold tickets reach row %d seat %d, outside the %dx%d grid of the new airplane", maxRow, maxSeat, rows, seats),
			Err:     domain.ErrOutOfRange,
		}
	}
	return nil
}

func replaceCrew(ctx context.Context, q querier, flightID int64, crewIDs []int64) error {
	if len(crewIDs) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
INSERT INTO flight_crew (flight_id, crew_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING`, flightID, crewIDs)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return &domain.ValidationError{Field: "crew", Message: "crew member does not exist", Err: domain.ErrCrewNotFound}
		}
		return fmt.Errorf("set crew: %w", err)
	}
	return nil
}

func flightWriteError(err error) error {
	constraint, ok := foreignKeyViolation(err)
	if !ok {
		return fmt.Errorf("write flight: %w", err)
	}
	switch constraint {
	case "flights_route_id_fkey":
		return &domain.ValidationError{Field: "route", Message: "route does not exist", Err: domain.ErrRouteNotFound}
	case "flights_airplane_id_fkey":
		return &domain.ValidationError{Field: "airplane", Message: "airplane does not exist", Err: domain.ErrAirplaneNotFound}
	default:
		return fmt.Errorf("write flight: %w", err)
	}
}

var _ FlightRepository = (*PGFlightRepository)(nil)
