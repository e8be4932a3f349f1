package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderEvent is the payload published for every order lifecycle change.
// Catering orders use the same shape with Kind set to "catering".
type OrderEvent struct {
	EventID        string      `json:"event_id"`
	Kind           string      `json:"kind"`
	OrderID        int64       `json:"order_id"`
	UserID         int64       `json:"user_id"`
	TrainNumber    string      `json:"train_number"`
	TravelDate     string      `json:"travel_date,omitempty"`
	Status         OrderStatus `json:"status"`
	PreviousStatus OrderStatus `json:"previous_status,omitempty"`
	TotalPrice     float64     `json:"total_price"`
	Lines          int         `json:"lines"`
	OccurredAt     time.Time   `json:"occurred_at"`
}

func NewOrderEvent(o *Order, previous OrderStatus) OrderEvent {
	return OrderEvent{
		EventID:        uuid.NewString(),
		Kind:           "ticket",
		OrderID:        o.ID,
		UserID:         o.UserID,
		TrainNumber:    o.TrainNumber,
		TravelDate:     o.TravelDate,
		Status:         o.Status,
		PreviousStatus: previous,
		TotalPrice:     o.TotalPrice,
		Lines:          len(o.Items),
		OccurredAt:     time.Now().UTC(),
	}
}

func NewCateringOrderEvent(o *CateringOrder, previous OrderStatus) OrderEvent {
	return OrderEvent{
		EventID:        uuid.NewString(),
		Kind:           "catering",
		OrderID:        o.ID,
		UserID:         o.UserID,
		TrainNumber:    o.TrainNumber,
		TravelDate:     o.TravelDate,
		Status:         o.Status,
		PreviousStatus: previous,
		TotalPrice:     o.TotalPrice,
		Lines:          len(o.Items),
		OccurredAt:     time.Now().UTC(),
	}
}
