package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlightRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewFlightRepository(pool)
	assert.NotNil(t, repo)
}

func TestBuildFlightQuery(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildFlightQuery(domain.FlightFilter{
		RouteID:        3,
		DepartureAfter: after,
		ArrivalBefore:  after.Add(24 * time.Hour),
		Ordering:       []string{"-departure_time", "route"},
	})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE f.route_id = $1 AND f.departure_time >= $2 AND f.arrival_time <= $3")
	assert.Contains(t, query, "ORDER BY f.departure_time DESC, s.name ASC, d.name ASC, f.id ASC")
	assert.Equal(t, []any{int64(3), after, after.Add(24 * time.Hour)}, args)
}

func TestBuildFlightQuery_Defaults(t *testing.T) {
	query, args, err := buildFlightQuery(domain.FlightFilter{})
	require.NoError(t, err)

	assert.False(t, strings.Contains(query, "WHERE"))
	assert.True(t, strings.HasSuffix(query, "ORDER BY f.departure_time ASC, f.id ASC"))
	assert.Empty(t, args)
}

func TestBuildFlightQuery_UnknownOrdering(t *testing.T) {
	_, _, err := buildFlightQuery(domain.FlightFilter{Ordering: []string{"price; DROP TABLE flights"}})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestFlightRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewFlightRepository(pool)
	orders := NewOrderRepository(pool)
	departure := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("List reports sold tickets", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		fx := testutil.InsertFlight(t, ctx, pool, 10, 6, departure)
		sell(t, ctx, orders, fx.FlightID, domain.Seat{Row: 1, Seat: 1}, domain.Seat{Row: 1, Seat: 2}, domain.Seat{Row: 2, Seat: 1})

		flights, err := repo.List(ctx, domain.FlightFilter{})
		require.NoError(t, err)
		require.Len(t, flights, 1)
		assert.Equal(t, 60, flights[0].Airplane.Capacity())
		assert.Equal(t, 3, flights[0].TicketsSold)
		assert.Equal(t, "Boryspil-Heathrow", flights[0].Route.String())
	})

	t.Run("List filters by time range", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		fx := testutil.InsertFlight(t, ctx, pool, 2, 2, departure)

		flights, err := repo.List(ctx, domain.FlightFilter{DepartureAfter: departure.Add(time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, flights)

		flights, err = repo.List(ctx, domain.FlightFilter{RouteID: fx.RouteID, ArrivalBefore: departure.Add(3 * time.Hour)})
		require.NoError(t, err)
		assert.Len(t, flights, 1)
	})

	t.Run("Create, GetByID and Update", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		fx := testutil.InsertFlight(t, ctx, pool, 5, 4, departure)

		var crewID int64
		require.NoError(t, pool.QueryRow(ctx, `INSERT INTO crew (first_name, last_name) VALUES ('Ann', 'Lee') RETURNING id`).Scan(&crewID))

		id, err := repo.Create(ctx, domain.FlightInput{
			RouteID:       fx.RouteID,
			AirplaneID:    fx.AirplaneID,
			DepartureTime: departure.Add(24 * time.Hour),
			ArrivalTime:   departure.Add(26 * time.Hour),
			CrewIDs:       []int64{crewID},
		})
		require.NoError(t, err)

		sell(t, ctx, orders, id, domain.Seat{Row: 5, Seat: 4})

		flight, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Len(t, flight.Crew, 1)
		assert.Equal(t, "Ann Lee", flight.Crew[0].FullName())
		assert.Equal(t, []domain.Seat{{Row: 5, Seat: 4}}, flight.TakenSeats)
		assert.Equal(t, 1, flight.TicketsSold)

		var smallID int64
		require.NoError(t, pool.QueryRow(ctx, `INSERT INTO airplanes (name, rows, seats_in_row, airplane_type_id) VALUES ('Small', 2, 2, $1) RETURNING id`, fx.TypeID).Scan(&smallID))

		err = repo.Update(ctx, id, domain.FlightInput{
			RouteID:       fx.RouteID,
			AirplaneID:    smallID,
			DepartureTime: departure.Add(24 * time.Hour),
			ArrivalTime:   departure.Add(26 * time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrOutOfRange)

		err = repo.Update(ctx, id, domain.FlightInput{
			RouteID:       fx.RouteID,
			AirplaneID:    fx.AirplaneID,
			DepartureTime: departure.Add(48 * time.Hour),
			ArrivalTime:   departure.Add(50 * time.Hour),
		})
		require.NoError(t, err)

		flight, err = repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, flight.Crew)
		assert.True(t, flight.DepartureTime.Equal(departure.Add(48*time.Hour)))
	})

	t.Run("Create rejects unknown route", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		fx := testutil.InsertFlight(t, ctx, pool, 5, 4, departure)

		_, err := repo.Create(ctx, domain.FlightInput{
			RouteID:       fx.RouteID + 100,
			AirplaneID:    fx.AirplaneID,
			DepartureTime: departure,
			ArrivalTime:   departure.Add(time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrRouteNotFound)
	})

	t.Run("Delete is refused while tickets exist", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		fx := testutil.InsertFlight(t, ctx, pool, 5, 4, departure)
		sell(t, ctx, orders, fx.FlightID, domain.Seat{Row: 1, Seat: 1})

		assert.ErrorIs(t, repo.Delete(ctx, fx.FlightID), domain.ErrFlightHasTickets)

		_, err := repo.GetByID(ctx, fx.FlightID)
		require.NoError(t, err)

		assert.ErrorIs(t, repo.Delete(ctx, fx.FlightID+100), domain.ErrFlightNotFound)
	})
}

func sell(t *testing.T, ctx context.Context, repo OrderRepository, flightID int64, seats ...domain.Seat) {
	t.Helper()
	err := repo.WithTx(ctx, func(ctx context.Context) error {
		order := &domain.Order{UserID: "seed"}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, s := range seats {
			if err := repo.CreateTicket(ctx, &domain.Ticket{Row: s.Row, Seat: s.Seat, FlightID: flightID, OrderID: order.ID}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}
