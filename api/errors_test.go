package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name     string
		err      error
		expected int
		code     string
	}{
		{name: "Self route", err: domain.ValidateRoute(1, 1, 10), expected: http.StatusBadRequest, code: "validation_error"},
		{name: "Invalid id", err: domain.ErrInvalidID, expected: http.StatusBadRequest, code: "validation_error"},
		{name: "Unknown ordering", err: fmt.Errorf("%w: ordering by price", domain.ErrInvalidFilter), expected: http.StatusBadRequest, code: "validation_error"},
		{name: "Route missing", err: domain.ErrRouteNotFound, expected: http.StatusNotFound, code: "not_found"},
		{name: "Flight has tickets", err: domain.ErrFlightHasTickets, expected: http.StatusConflict, code: "conflict"},
		{name: "Anonymous", err: domain.ErrUnauthenticated, expected: http.StatusUnauthorized, code: "unauthenticated"},
		{name: "Overbooked", err: &domain.ConsistencyError{FlightID: 1, Capacity: 1, Sold: 2}, expected: http.StatusInternalServerError, code: "consistency_fault"},
		{name: "Storage", err: errors.New("connection reset"), expected: http.StatusInternalServerError, code: "internal_error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			respondError(c, tc.err)

			assert.Equal(t, tc.expected, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tc.code+`"`)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}
