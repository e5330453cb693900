package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var departure = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func testFlight() domain.Flight {
	return domain.Flight{
		ID: 1,
		Route: domain.Route{
			ID:          1,
			Source:      domain.Airport{ID: 1, Name: "Boryspil"},
			Destination: domain.Airport{ID: 2, Name: "Heathrow"},
			Distance:    2100,
		},
		Airplane:         domain.Airplane{ID: 1, Name: "Mriya", Rows: 5, SeatsInRow: 4, Type: domain.AirplaneType{ID: 3}},
		DepartureTime:    departure,
		ArrivalTime:      departure.Add(3 * time.Hour),
		Crew:             []domain.Crew{{ID: 1, FirstName: "Oksana", LastName: "Koval"}},
		TicketsSold:      2,
		TicketsAvailable: 18,
		TakenSeats:       []domain.Seat{{Row: 1, Seat: 1}, {Row: 1, Seat: 2}},
	}
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/flights?route=1&departure_time_after=2024-06-01&ordering=-departure_time,route", nil)

	filter := domain.FlightFilter{
		RouteID:        1,
		DepartureAfter: departure.Truncate(24 * time.Hour),
		Ordering:       []string{"-departure_time", "route"},
	}
	mockService.On("List", c.Request.Context(), filter).Return([]domain.Flight{testFlight()}, nil)

	handler.list(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Boryspil-Heathrow", body[0]["route"])
	assert.Equal(t, "Mriya", body[0]["airplane"])
	assert.Equal(t, float64(20), body[0]["airplane_capacity"])
	assert.Equal(t, float64(18), body[0]["tickets_available"])

	mockService.AssertExpectations(t)
}

func TestFlightHandler_listInvalidQuery(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)
	gin.SetMode(gin.TestMode)

	for _, query := range []string{"route=abc", "route=-1", "arrival_time_before=tomorrow"} {
		t.Run(query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/api/flights?"+query, nil)

			handler.list(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestFlightHandler_listConsistencyFault(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/flights", nil)

	mockService.On("List", c.Request.Context(), domain.FlightFilter{}).
		Return(nil, &domain.ConsistencyError{FlightID: 1, Capacity: 4, Sold: 5})

	handler.list(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "consistency_fault")
}

func TestFlightHandler_get(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/flights/1", nil)

	flight := testFlight()
	mockService.On("GetByID", c.Request.Context(), int64(1)).Return(&flight, nil)

	handler.get(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body flightDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []seatResponse{{Row: 1, Seat: 1}, {Row: 1, Seat: 2}}, body.TakenPlaces)
	assert.Equal(t, "Boryspil", body.Route.Source)
	assert.Equal(t, 20, body.Airplane.Capacity)
	assert.Equal(t, "Oksana Koval", body.Crew[0].FullName)
	assert.Equal(t, 18, body.TicketsAvailable)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_getNotFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Request = httptest.NewRequest("GET", "/api/flights/9", nil)

	mockService.On("GetByID", c.Request.Context(), int64(9)).Return(nil, domain.ErrFlightNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/api/flights/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFlightHandler_createInvalidTimeRange(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	payload, _ := json.Marshal(map[string]interface{}{
		"route":          1,
		"airplane":       1,
		"departure_time": departure,
		"arrival_time":   departure,
		"crew":           []int64{1, 2},
	})
	c.Request = httptest.NewRequest("POST", "/api/flights", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	in := domain.FlightInput{RouteID: 1, AirplaneID: 1, DepartureTime: departure, ArrivalTime: departure, CrewIDs: []int64{1, 2}}
	mockService.On("Create", c.Request.Context(), in).Return(nil, domain.ValidateSchedule(departure, departure))

	handler.create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Code)
	assert.Contains(t, body.Fields, "arrival_time")
	mockService.AssertExpectations(t)
}

func TestFlightHandler_update(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	payload, _ := json.Marshal(map[string]interface{}{
		"route":          1,
		"airplane":       2,
		"departure_time": departure,
		"arrival_time":   departure.Add(3 * time.Hour),
	})
	c.Request = httptest.NewRequest("PUT", "/api/flights/1", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	flight := testFlight()
	in := domain.FlightInput{RouteID: 1, AirplaneID: 2, DepartureTime: departure, ArrivalTime: departure.Add(3 * time.Hour)}
	mockService.On("Update", c.Request.Context(), int64(1), in).Return(&flight, nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_delete(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name     string
		id       string
		err      error
		expected int
	}{
		{name: "Deleted", id: "1", expected: http.StatusNoContent},
		{name: "Has tickets", id: "2", err: domain.ErrFlightHasTickets, expected: http.StatusConflict},
		{name: "Missing", id: "3", err: domain.ErrFlightNotFound, expected: http.StatusNotFound},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tc.id}}
			c.Request = httptest.NewRequest("DELETE", "/api/flights/"+tc.id, nil)

			mockService.On("Delete", c.Request.Context(), int64(i+1)).Return(tc.err).Once()

			handler.delete(c)
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tc.expected, w.Code)
		})
	}
	mockService.AssertExpectations(t)
}
