package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ms-railway/internal/config"
	"ms-railway/internal/models"
)

// EventPublisher maps order lifecycle changes onto the configured topics.
type EventPublisher struct {
	publisher Publisher
	topics    config.TopicConfig
}

func NewEventPublisher(p Publisher, topics config.TopicConfig) *EventPublisher {
	return &EventPublisher{publisher: p, topics: topics}
}

func (e *EventPublisher) PublishOrderEvent(ctx context.Context, o *models.Order, previous models.OrderStatus) error {
	topic, err := e.ticketTopic(previous, o.Status)
	if err != nil {
		return err
	}
	return e.send(ctx, topic, models.NewOrderEvent(o, previous))
}

func (e *EventPublisher) PublishCateringEvent(ctx context.Context, o *models.CateringOrder, previous models.OrderStatus) error {
	topic, err := e.cateringTopic(previous, o.Status)
	if err != nil {
		return err
	}
	return e.send(ctx, topic, models.NewCateringOrderEvent(o, previous))
}

func (e *EventPublisher) ticketTopic(previous, status models.OrderStatus) (string, error) {
	if previous == "" {
		return e.topics.OrderCreated, nil
	}
	switch status {
	case models.StatusPaid:
		return e.topics.OrderPaid, nil
	case models.StatusCancelled:
		return e.topics.OrderCancelled, nil
	case models.StatusRefunded:
		return e.topics.OrderRefunded, nil
	}
	return "", fmt.Errorf("no topic for order status %s", status)
}

func (e *EventPublisher) cateringTopic(previous, status models.OrderStatus) (string, error) {
	if previous == "" {
		return e.topics.CateringOrderCreated, nil
	}
	switch status {
	case models.StatusPaid:
		return e.topics.CateringOrderPaid, nil
	case models.StatusCancelled:
		return e.topics.CateringOrderCanceled, nil
	}
	return "", fmt.Errorf("no topic for catering status %s", status)
}

func (e *EventPublisher) send(ctx context.Context, topic string, event models.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Kind, err)
	}
	return e.publisher.Publish(ctx, topic, strconv.FormatInt(event.OrderID, 10), payload)
}
