package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

var notFound = []error{
	domain.ErrAirportNotFound,
	domain.ErrRouteNotFound,
	domain.ErrAirplaneTypeNotFound,
	domain.ErrAirplaneNotFound,
	domain.ErrCrewNotFound,
	domain.ErrFlightNotFound,
}

// respondError writes err with the status its kind maps to. Failures tied to
// a request field carry that field, prefixed with the ticket position for
// order requests.
func respondError(c *gin.Context, err error) {
	var (
		seatTaken   *domain.SeatTakenError
		ticketErr   *domain.TicketError
		validation  *domain.ValidationError
		consistency *domain.ConsistencyError
	)

	switch {
	case errors.As(err, &seatTaken):
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:  err.Error(),
			Code:   "seat_already_taken",
			Fields: map[string]string{fmt.Sprintf("tickets[%d]", seatTaken.Index): "seat is already taken"},
		})
	case errors.As(err, &validation):
		field := validation.Field
		if errors.As(err, &ticketErr) {
			field = fmt.Sprintf("tickets[%d].%s", ticketErr.Index, field)
		}
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:  err.Error(),
			Code:   "validation_error",
			Fields: map[string]string{field: validation.Message},
		})
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "validation_error"})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "authentication required", Code: "unauthenticated"})
	case errors.Is(err, domain.ErrFlightHasTickets):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Code: "conflict"})
	case isNotFound(err):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Code: "not_found"})
	case errors.As(err, &consistency):
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal consistency fault", Code: "consistency_fault"})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal_error"})
	}
}

// bindError reports a malformed request body or query.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request"})
}

func isNotFound(err error) bool {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
