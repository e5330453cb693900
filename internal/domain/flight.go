package domain

import "time"

type Flight struct {
	ID            int64
	Route         Route
	Airplane      Airplane
	DepartureTime time.Time
	ArrivalTime   time.Time
	Crew          []Crew
	TicketsSold   int
	// TicketsAvailable is filled by the service from Airplane.Capacity and TicketsSold.
	TicketsAvailable int
	TakenSeats       []Seat
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Seat struct {
	Row  int
	Seat int
}

// FlightInput carries the writable fields of a flight.
type FlightInput struct {
	RouteID       int64
	AirplaneID    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	CrewIDs       []int64
}

// FlightFilter narrows and orders a flight listing. Zero values mean no bound.
type FlightFilter struct {
	RouteID         int64
	DepartureAfter  time.Time
	DepartureBefore time.Time
	ArrivalAfter    time.Time
	ArrivalBefore   time.Time
	// Ordering holds field names, optionally prefixed with "-".
	Ordering []string
}

// ValidateSchedule rejects a flight that does not arrive strictly after it departs.
func ValidateSchedule(departure, arrival time.Time) error {
	if !arrival.After(departure) {
		return &ValidationError{
			Field:   "arrival_time",
			Message: "arrival time must be after departure time",
			Err:     ErrInvalidTimeRange,
		}
	}
	return nil
}

// AvailableSeats returns capacity minus sold tickets. A negative result means
// tickets were sold past the grid and is reported as a ConsistencyError.
func AvailableSeats(flightID int64, capacity, sold int) (int, error) {
	available := capacity - sold
	if available < 0 {
		return 0, &ConsistencyError{FlightID: flightID, Capacity: capacity, Sold: sold}
	}
	return available, nil
}
