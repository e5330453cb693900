package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository stores the reference data flights are built from.
type CatalogRepository interface {
	CreateAirport(ctx context.Context, airport *domain.Airport) error
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	CreateRoute(ctx context.Context, sourceID, destinationID int64, distance int) (*domain.Route, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	CreateAirplaneType(ctx context.Context, airplaneType *domain.AirplaneType) error
	ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error)
	CreateAirplane(ctx context.Context, name string, rows, seatsInRow int, typeID int64) (*domain.Airplane, error)
	ListAirplanes(ctx context.Context) ([]domain.Airplane, error)
	CreateCrew(ctx context.Context, crew *domain.Crew) error
	ListCrew(ctx context.Context) ([]domain.Crew, error)
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

func (r *PGCatalogRepository) CreateAirport(ctx context.Context, airport *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (name, closest_big_city) VALUES ($1, $2) RETURNING id`, airport.Name, airport.ClosestBigCity).
		Scan(&airport.ID)
	if err != nil {
		return fmt.Errorf("create airport: %w", err)
	}
	return nil
}

func (r *PGCatalogRepository) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, closest_big_city FROM airports ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.ClosestBigCity); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

const routeColumns = `r.id, r.distance, s.id, s.name, s.closest_big_city, d.id, d.name, d.closest_big_city`

func scanRoute(row pgx.Row, route *domain.Route) error {
	return row.Scan(&route.ID, &route.Distance,
		&route.Source.ID, &route.Source.Name, &route.Source.ClosestBigCity,
		&route.Destination.ID, &route.Destination.Name, &route.Destination.ClosestBigCity)
}

func (r *PGCatalogRepository) CreateRoute(ctx context.Context, sourceID, destinationID int64, distance int) (*domain.Route, error) {
	const stmt = `
WITH r AS (
	INSERT INTO routes (source_id, destination_id, distance) VALUES ($1, $2, $3)
	RETURNING id, source_id, destination_id, distance
)
SELECT ` + routeColumns + `
FROM r
JOIN airports s ON s.id = r.source_id
JOIN airports d ON d.id = r.destination_id`

	var route domain.Route
	if err := scanRoute(r.db.QueryRow(ctx, stmt, sourceID, destinationID, distance), &route); err != nil {
		if constraint, ok := foreignKeyViolation(err); ok {
			field := "source"
			if constraint == "routes_destination_id_fkey" {
				field = "destination"
			}
			return nil, &domain.ValidationError{Field: field, Message: "airport does not exist", Err: domain.ErrAirportNotFound}
		}
		return nil, fmt.Errorf("create route: %w", err)
	}
	return &route, nil
}

func (r *PGCatalogRepository) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Query(ctx, `
SELECT `+routeColumns+`
FROM routes r
JOIN airports s ON s.id = r.source_id
JOIN airports d ON d.id = r.destination_id
ORDER BY s.name, d.name, r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		var route domain.Route
		if err := scanRoute(rows, &route); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

func (r *PGCatalogRepository) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	var route domain.Route
	err := scanRoute(r.db.QueryRow(ctx, `
SELECT `+routeColumns+`
FROM routes r
JOIN airports s ON s.id = r.source_id
JOIN airports d ON d.id = r.destination_id
WHERE r.id = $1`, id), &route)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRouteNotFound
		}
		return nil, fmt.Errorf("get route: %w", err)
	}
	return &route, nil
}

func (r *PGCatalogRepository) CreateAirplaneType(ctx context.Context, airplaneType *domain.AirplaneType) error {
	if err := r.db.QueryRow(ctx, `INSERT INTO airplane_types (name) VALUES ($1) RETURNING id`, airplaneType.Name).Scan(&airplaneType.ID); err != nil {
		return fmt.Errorf("create airplane type: %w", err)
	}
	return nil
}

func (r *PGCatalogRepository) ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM airplane_types ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]domain.AirplaneType, 0)
	for rows.Next() {
		var t domain.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *PGCatalogRepository) CreateAirplane(ctx context.Context, name string, rows, seatsInRow int, typeID int64) (*domain.Airplane, error) {
	const stmt = `
WITH a AS (
	INSERT INTO airplanes (name, rows, seats_in_row, airplane_type_id) VALUES ($1, $2, $3, $4)
	RETURNING id, name, rows, seats_in_row, airplane_type_id
)
SELECT a.id, a.name, a.rows, a.seats_in_row, t.id, t.name
FROM a JOIN airplane_types t ON t.id = a.airplane_type_id`

	var a domain.Airplane
	err := r.db.QueryRow(ctx, stmt, name, rows, seatsInRow, typeID).
		Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.Type.ID, &a.Type.Name)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return nil, &domain.ValidationError{Field: "airplane_type", Message: "airplane type does not exist", Err: domain.ErrAirplaneTypeNotFound}
		}
		return nil, fmt.Errorf("create airplane: %w", err)
	}
	return &a, nil
}

func (r *PGCatalogRepository) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := r.db.Query(ctx, `
SELECT a.id, a.name, a.rows, a.seats_in_row, t.id, t.name
FROM airplanes a JOIN airplane_types t ON t.id = a.airplane_type_id
ORDER BY a.name, a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.Type.ID, &a.Type.Name); err != nil {
			return nil, err
		}
		airplanes = append(airplanes, a)
	}
	return airplanes, rows.Err()
}

func (r *PGCatalogRepository) CreateCrew(ctx context.Context, crew *domain.Crew) error {
	if err := r.db.QueryRow(ctx, `INSERT INTO crew (first_name, last_name) VALUES ($1, $2) RETURNING id`, crew.FirstName, crew.LastName).Scan(&crew.ID); err != nil {
		return fmt.Errorf("create crew: %w", err)
	}
	return nil
}

func (r *PGCatalogRepository) ListCrew(ctx context.Context) ([]domain.Crew, error) {
	rows, err := r.db.Query(ctx, `
SELECT c.id, c.first_name, c.last_name,
       COALESCE(array_agg(fc.flight_id ORDER BY fc.flight_id) FILTER (WHERE fc.flight_id IS NOT NULL), '{}')
FROM crew c
LEFT JOIN flight_crew fc ON fc.crew_id = c.id
GROUP BY c.id
ORDER BY c.first_name, c.last_name, c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crew := make([]domain.Crew, 0)
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.FlightIDs); err != nil {
			return nil, err
		}
		crew = append(crew, c)
	}
	return crew, rows.Err()
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
