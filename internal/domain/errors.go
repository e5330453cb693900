package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAirportNotFound      = errors.New("airport not found")
	ErrRouteNotFound        = errors.New("route not found")
	ErrAirplaneTypeNotFound = errors.New("airplane type not found")
	ErrAirplaneNotFound     = errors.New("airplane not found")
	ErrCrewNotFound         = errors.New("crew member not found")
	ErrFlightNotFound       = errors.New("flight not found")

	ErrOutOfRange       = errors.New("out of range")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrEmptyOrder       = errors.New("empty order")
	ErrSelfRoute        = errors.New("self route")
	ErrNegativeValue    = errors.New("negative value")
	ErrRequired         = errors.New("required")
	ErrInvalidFilter    = errors.New("invalid filter")

	ErrSeatAlreadyTaken = errors.New("seat already taken")
	ErrFlightHasTickets = errors.New("flight has sold tickets")
	ErrConsistencyFault = errors.New("consistency fault")
	ErrInvalidID        = errors.New("invalid id")
	ErrUnauthenticated  = errors.New("unauthenticated")
)

// ValidationError is client input outside its allowed domain. Field names the
// offending input as the client sent it.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SeatRangeError reports a row or seat outside the airplane grid.
type SeatRangeError struct {
	Dimension string // "row" or "seat"
	Value     int
	Max       int
}

func (e *SeatRangeError) Error() string {
	limit := "rows"
	if e.Dimension == "seat" {
		limit = "seats_in_row"
	}
	return fmt.Sprintf("%s number must be in available range: (1, %s): (1, %d)", e.Dimension, limit, e.Max)
}

func (e *SeatRangeError) Unwrap() error { return ErrOutOfRange }

// TicketError ties a failure to the position of a ticket in an order request.
type TicketError struct {
	Index int
	Err   error
}

func (e *TicketError) Error() string {
	return fmt.Sprintf("tickets[%d]: %v", e.Index, e.Err)
}

func (e *TicketError) Unwrap() error { return e.Err }

// SeatTakenError identifies a seat that is sold already or requested twice.
type SeatTakenError struct {
	Index    int
	FlightID int64
	Row      int
	Seat     int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("tickets[%d]: seat (row %d, seat %d) on flight %d is already taken", e.Index, e.Row, e.Seat, e.FlightID)
}

func (e *SeatTakenError) Unwrap() error { return ErrSeatAlreadyTaken }

// ConsistencyError reports stored data that breaks an internal rule. Clients never cause it.
type ConsistencyError struct {
	FlightID int64
	Capacity int
	Sold     int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("flight %d has %d tickets sold for capacity %d", e.FlightID, e.Sold, e.Capacity)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistencyFault }
