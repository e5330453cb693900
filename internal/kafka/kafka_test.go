package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderEvent(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:        7,
		UserID:    "42",
		CreatedAt: created,
		Tickets: []domain.Ticket{
			{Row: 1, Seat: 1, FlightID: 3},
			{Row: 1, Seat: 2, FlightID: 3},
		},
	}

	event := NewOrderEvent(EventOrderCreated, order)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventOrderCreated, event.Type)
	assert.Equal(t, int64(7), event.OrderID)
	assert.Equal(t, "42", event.UserID)
	assert.Equal(t, []TicketPayload{{FlightID: 3, Row: 1, Seat: 1}, {FlightID: 3, Row: 1, Seat: 2}}, event.Tickets)
}

func TestOrderEventHandler(t *testing.T) {
	var got []OrderEvent
	handler := OrderEventHandler(func(_ context.Context, e OrderEvent) error {
		got = append(got, e)
		return nil
	})

	payload, err := json.Marshal(OrderEvent{Type: EventOrderCreated, OrderID: 1})
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, handler(ctx, kafka.Message{Value: payload}))
	assert.NoError(t, handler(ctx, kafka.Message{Value: []byte("not json")}))
	assert.NoError(t, handler(ctx, kafka.Message{Value: []byte(`{"order_id": 2}`)}))

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].OrderID)
}

func TestOrderEventHandler_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	handler := OrderEventHandler(func(context.Context, OrderEvent) error { return boom })

	err := handler(context.Background(), kafka.Message{Value: []byte(`{"type":"order_created"}`)})
	assert.ErrorIs(t, err, boom)
}

func TestIsClosed(t *testing.T) {
	assert.True(t, IsClosed(context.Canceled))
	assert.True(t, IsClosed(fmt.Errorf("read: %w", context.Canceled)))
	assert.False(t, IsClosed(errors.New("broker down")))
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := NewProducer(nil)
	defer p.Close()
	assert.Error(t, p.CheckConnection(context.Background()))
}

func TestProducer_PublishWithRetry(t *testing.T) {
	p := NewProducer(nil)
	defer p.Close()

	// A channel cannot be marshaled, so every attempt fails before reaching a broker.
	unencodable := make(chan int)

	t.Run("Gives up after the last attempt", func(t *testing.T) {
		err := p.PublishWithRetry(context.Background(), "orders", "1", unencodable, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed after 2 retries")
		var typeErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &typeErr)
	})

	t.Run("Non-positive count makes one attempt", func(t *testing.T) {
		err := p.PublishWithRetry(context.Background(), "orders", "1", unencodable, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed after 1 retries")
	})

	t.Run("Stops waiting when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := p.PublishWithRetry(ctx, "orders", "1", unencodable, 5)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 400*time.Millisecond)
	})
}
