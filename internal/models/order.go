package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"ms-railway/internal/apperr"
)

type OrderStatus string

const (
	StatusUnpaid    OrderStatus = "Unpaid"
	StatusPaid      OrderStatus = "Paid"
	StatusCancelled OrderStatus = "Cancelled"
	StatusRefunded  OrderStatus = "Refunded"
)

// ParseOrderStatus matches a status filter ignoring case. Empty means no filter.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, st := range []OrderStatus{StatusUnpaid, StatusPaid, StatusCancelled, StatusRefunded} {
		if strings.EqualFold(raw, string(st)) {
			return st, nil
		}
	}
	return "", apperr.ValidationError{Field: "status", Msg: fmt.Sprintf("Unknown order status %s", raw)}
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID          int64       `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64       `bun:"user_id,notnull" json:"user_id"`
	TrainNumber string      `bun:"train_number,notnull" json:"train_number"`
	FromStation string      `bun:"from_station,notnull" json:"from_station"`
	ToStation   string      `bun:"to_station,notnull" json:"to_station"`
	TravelDate  string      `bun:"travel_date" json:"travel_date"`
	StartTime   string      `bun:"start_time" json:"start_time"`
	Status      OrderStatus `bun:"status,notnull" json:"status"`
	TotalPrice  float64     `bun:"total_price,notnull" json:"total_price"`
	CreatedAt   time.Time   `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,notnull" json:"updated_at"`

	Items []OrderItem `bun:"rel:has-many,join:id=order_id" json:"items"`
}

// OrderItem stores a copy of the passenger at booking time, not a reference.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID            int64   `bun:"id,pk,autoincrement" json:"id"`
	OrderID       int64   `bun:"order_id,notnull" json:"order_id"`
	TrainNumber   string  `bun:"train_number,notnull" json:"train_number"`
	FromStation   string  `bun:"from_station,notnull" json:"from_station"`
	ToStation     string  `bun:"to_station,notnull" json:"to_station"`
	SeatClass     string  `bun:"seat_class,notnull" json:"seat_class"`
	SeatNo        string  `bun:"seat_no" json:"seat_no"`
	PassengerName string  `bun:"passenger_name,notnull" json:"passenger_name"`
	IDType        string  `bun:"id_type,notnull" json:"id_type"`
	IDCard        string  `bun:"id_card,notnull" json:"id_card"`
	PassengerType string  `bun:"passenger_type,notnull" json:"passenger_type"`
	Price         float64 `bun:"price,notnull" json:"price"`
	SeatReleased  bool    `bun:"seat_released,notnull" json:"-"`
}
