package api

import (
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

type airportResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

// routeResponse names the airports; routeDetailResponse nests them.
type routeResponse struct {
	ID          int64  `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Distance    int    `json:"distance"`
}

type routeDetailResponse struct {
	ID          int64           `json:"id"`
	Source      airportResponse `json:"source"`
	Destination airportResponse `json:"destination"`
	Distance    int             `json:"distance"`
}

type airplaneTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type airplaneResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	SeatsInRow   int    `json:"seats_in_row"`
	AirplaneType int64  `json:"airplane_type"`
	Capacity     int    `json:"capacity"`
}

type crewResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type crewListResponse struct {
	crewResponse
	Flights []int64 `json:"flights"`
}

type flightListResponse struct {
	ID               int64     `json:"id"`
	Route            string    `json:"route"`
	Airplane         string    `json:"airplane"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	AirplaneCapacity int       `json:"airplane_capacity"`
	TicketsAvailable int       `json:"tickets_available"`
}

type seatResponse struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type flightDetailResponse struct {
	ID               int64            `json:"id"`
	Route            routeResponse    `json:"route"`
	Airplane         airplaneResponse `json:"airplane"`
	DepartureTime    time.Time        `json:"departure_time"`
	ArrivalTime      time.Time        `json:"arrival_time"`
	Crew             []crewResponse   `json:"crew"`
	TakenPlaces      []seatResponse   `json:"taken_places"`
	TicketsAvailable int              `json:"tickets_available"`
}

type ticketResponse struct {
	ID     int64 `json:"id"`
	Row    int   `json:"row"`
	Seat   int   `json:"seat"`
	Flight int64 `json:"flight"`
}

type ticketListResponse struct {
	ID     int64              `json:"id"`
	Row    int                `json:"row"`
	Seat   int                `json:"seat"`
	Flight flightListResponse `json:"flight"`
}

type orderResponse struct {
	ID        int64            `json:"id"`
	Tickets   []ticketResponse `json:"tickets"`
	CreatedAt time.Time        `json:"created_at"`
}

type orderListResponse struct {
	ID        int64                `json:"id"`
	Tickets   []ticketListResponse `json:"tickets"`
	CreatedAt time.Time            `json:"created_at"`
}

func toAirport(a domain.Airport) airportResponse {
	return airportResponse{ID: a.ID, Name: a.Name, ClosestBigCity: a.ClosestBigCity}
}

func toRoute(r domain.Route) routeResponse {
	return routeResponse{ID: r.ID, Source: r.Source.Name, Destination: r.Destination.Name, Distance: r.Distance}
}

func toRouteDetail(r domain.Route) routeDetailResponse {
	return routeDetailResponse{
		ID:          r.ID,
		Source:      toAirport(r.Source),
		Destination: toAirport(r.Destination),
		Distance:    r.Distance,
	}
}

func toAirplane(a domain.Airplane) airplaneResponse {
	return airplaneResponse{
		ID:           a.ID,
		Name:         a.Name,
		Rows:         a.Rows,
		SeatsInRow:   a.SeatsInRow,
		AirplaneType: a.Type.ID,
		Capacity:     a.Capacity(),
	}
}

func toCrew(c domain.Crew) crewResponse {
	return crewResponse{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, FullName: c.FullName()}
}

func toCrewList(c domain.Crew) crewListResponse {
	flights := c.FlightIDs
	if flights == nil {
		flights = []int64{}
	}
	return crewListResponse{crewResponse: toCrew(c), Flights: flights}
}

func toFlightList(f domain.Flight) flightListResponse {
	return flightListResponse{
		ID:               f.ID,
		Route:            f.Route.String(),
		Airplane:         f.Airplane.Name,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		AirplaneCapacity: f.Airplane.Capacity(),
		TicketsAvailable: f.TicketsAvailable,
	}
}

func toFlightDetail(f domain.Flight) flightDetailResponse {
	crew := make([]crewResponse, 0, len(f.Crew))
	for _, c := range f.Crew {
		crew = append(crew, toCrew(c))
	}
	taken := make([]seatResponse, 0, len(f.TakenSeats))
	for _, s := range f.TakenSeats {
		taken = append(taken, seatResponse{Row: s.Row, Seat: s.Seat})
	}
	return flightDetailResponse{
		ID:               f.ID,
		Route:            toRoute(f.Route),
		Airplane:         toAirplane(f.Airplane),
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		Crew:             crew,
		TakenPlaces:      taken,
		TicketsAvailable: f.TicketsAvailable,
	}
}

func toOrder(o domain.Order) orderResponse {
	tickets := make([]ticketResponse, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		tickets = append(tickets, ticketResponse{ID: t.ID, Row: t.Row, Seat: t.Seat, Flight: t.FlightID})
	}
	return orderResponse{ID: o.ID, Tickets: tickets, CreatedAt: o.CreatedAt}
}

func toOrderList(o domain.Order) orderListResponse {
	tickets := make([]ticketListResponse, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		flight := domain.Flight{ID: t.FlightID}
		if t.Flight != nil {
			flight = *t.Flight
		}
		tickets = append(tickets, ticketListResponse{ID: t.ID, Row: t.Row, Seat: t.Seat, Flight: toFlightList(flight)})
	}
	return orderListResponse{ID: o.ID, Tickets: tickets, CreatedAt: o.CreatedAt}
}
