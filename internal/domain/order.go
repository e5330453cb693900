package domain

import "time"

type Order struct {
	ID        int64
	UserID    string
	CreatedAt time.Time
	Tickets   []Ticket
}

type Ticket struct {
	ID       int64
	Row      int
	Seat     int
	FlightID int64
	OrderID  int64
	// Flight is populated on order listings only.
	Flight *Flight
}

// TicketRequest is one requested seat of an order.
type TicketRequest struct {
	Row      int
	Seat     int
	FlightID int64
}

// DuplicateSeat returns the index of the first request that repeats an earlier
// (flight, row, seat) in the same order, or -1.
func DuplicateSeat(tickets []TicketRequest) int {
	seen := make(map[TicketRequest]struct{}, len(tickets))
	for i, t := range tickets {
		if _, ok := seen[t]; ok {
			return i
		}
		seen[t] = struct{}{}
	}
	return -1
}
