package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ms-railway/internal/config"
	"ms-railway/internal/logger"
	"ms-railway/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testTopics() config.TopicConfig {
	return config.TopicConfig{
		OrderCreated:          "order.created",
		OrderPaid:             "order.paid",
		OrderCancelled:        "order.cancelled",
		OrderRefunded:         "order.refunded",
		CateringOrderCreated:  "catering.created",
		CateringOrderPaid:     "catering.paid",
		CateringOrderCanceled: "catering.canceled",
	}
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: logger.Nop()}

	require.NoError(t, p.Publish(context.Background(), "order.created", "7", []byte(`{}`)))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order.created", w.msgs[0].Topic)
	assert.Equal(t, "7", string(w.msgs[0].Key))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &Producer{writer: w, logger: logger.Nop()}

	err := p.Publish(context.Background(), "order.paid", "1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.paid")
}

func TestEventPublisher_RoutesByTransition(t *testing.T) {
	w := &fakeWriter{}
	events := NewEventPublisher(&Producer{writer: w, logger: logger.Nop()}, testTopics())
	ctx := context.Background()

	order := &models.Order{ID: 42, UserID: 3, TrainNumber: "G1", Status: models.StatusUnpaid, TotalPrice: 553,
		Items: []models.OrderItem{{SeatClass: "二等座"}}}
	require.NoError(t, events.PublishOrderEvent(ctx, order, ""))

	order.Status = models.StatusPaid
	require.NoError(t, events.PublishOrderEvent(ctx, order, models.StatusUnpaid))

	order.Status = models.StatusRefunded
	require.NoError(t, events.PublishOrderEvent(ctx, order, models.StatusPaid))

	catering := &models.CateringOrder{ID: 5, UserID: 3, TrainNumber: "G1", Status: models.StatusCancelled}
	require.NoError(t, events.PublishCateringEvent(ctx, catering, models.StatusUnpaid))

	require.Len(t, w.msgs, 4)
	assert.Equal(t, "order.created", w.msgs[0].Topic)
	assert.Equal(t, "order.paid", w.msgs[1].Topic)
	assert.Equal(t, "order.refunded", w.msgs[2].Topic)
	assert.Equal(t, "catering.canceled", w.msgs[3].Topic)

	var event models.OrderEvent
	require.NoError(t, json.Unmarshal(w.msgs[2].Value, &event))
	assert.Equal(t, int64(42), event.OrderID)
	assert.Equal(t, models.StatusRefunded, event.Status)
	assert.Equal(t, models.StatusPaid, event.PreviousStatus)
	assert.Equal(t, 1, event.Lines)
	assert.Equal(t, "ticket", event.Kind)
}

func TestEventPublisher_UnknownTransition(t *testing.T) {
	events := NewEventPublisher(NoopPublisher{}, testTopics())
	catering := &models.CateringOrder{ID: 1, Status: models.StatusRefunded}
	assert.Error(t, events.PublishCateringEvent(context.Background(), catering, models.StatusPaid))
}

func TestMissingTopics(t *testing.T) {
	have := []string{"railway.order.created", "railway.order.paid"}
	want := config.TopicConfig{OrderCreated: "railway.order.created", OrderPaid: "railway.order.paid", OrderRefunded: "railway.order.refunded"}.All()

	assert.Equal(t, []string{"railway.order.refunded"}, missingTopics(have, want))
	assert.Empty(t, missingTopics(have, []string{"railway.order.paid", ""}))
}

func TestCheckTopics_Unreachable(t *testing.T) {
	_, err := ListTopics(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = CheckTopics(ctx, []string{"127.0.0.1:1"}, []string{"railway.order.created"})
	assert.Error(t, err)
}
