package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type flightRequest struct {
	Route         int64     `json:"route"`
	Airplane      int64     `json:"airplane"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Crew          []int64   `json:"crew"`
}

type flightQuery struct {
	Route           int64  `form:"route" binding:"omitempty,min=1"`
	DepartureAfter  string `form:"departure_time_after"`
	DepartureBefore string `form:"departure_time_before"`
	ArrivalAfter    string `form:"arrival_time_after"`
	ArrivalBefore   string `form:"arrival_time_before"`
	Ordering        string `form:"ordering"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(public, admin *gin.RouterGroup) {
	public.GET("/flights", h.list)
	public.GET("/flights/:id", h.get)
	admin.POST("/flights", h.create)
	admin.PUT("/flights/:id", h.update)
	admin.DELETE("/flights/:id", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	var q flightQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	filter, err := q.filter()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]flightListResponse, 0, len(result))
	for _, f := range result {
		resp = append(resp, toFlightList(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightDetail(*flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	flight, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightDetail(*flight))
}

func (h *FlightHandler) update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req flightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	flight, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightDetail(*flight))
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r flightRequest) input() domain.FlightInput {
	return domain.FlightInput{
		RouteID:       r.Route,
		AirplaneID:    r.Airplane,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		CrewIDs:       r.Crew,
	}
}

func (q flightQuery) filter() (domain.FlightFilter, error) {
	filter := domain.FlightFilter{RouteID: q.Route}
	bounds := []struct {
		name  string
		value string
		dst   *time.Time
	}{
		{"departure_time_after", q.DepartureAfter, &filter.DepartureAfter},
		{"departure_time_before", q.DepartureBefore, &filter.DepartureBefore},
		{"arrival_time_after", q.ArrivalAfter, &filter.ArrivalAfter},
		{"arrival_time_before", q.ArrivalBefore, &filter.ArrivalBefore},
	}
	for _, b := range bounds {
		if b.value == "" {
			continue
		}
		t, err := parseTime(b.value)
		if err != nil {
			return domain.FlightFilter{}, &domain.ValidationError{
				Field:   b.name,
				Message: "expected RFC 3339 timestamp or YYYY-MM-DD date",
				Err:     domain.ErrInvalidFilter,
			}
		}
		*b.dst = t
	}
	for _, field := range strings.Split(q.Ordering, ",") {
		if field = strings.TrimSpace(field); field != "" {
			filter.Ordering = append(filter.Ordering, field)
		}
	}
	return filter, nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q", value)
}
