package models

import "github.com/uptrace/bun"

type Train struct {
	bun.BaseModel `bun:"table:trains,alias:t"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	TrainNumber string `bun:"train_number,notnull" json:"train_number"`
	FromStation string `bun:"from_station,notnull" json:"from_station"`
	ToStation   string `bun:"to_station,notnull" json:"to_station"`
	StartTime   string `bun:"start_time,notnull" json:"start_time"`
	EndTime     string `bun:"end_time,notnull" json:"end_time"`
	Duration    string `bun:"duration,notnull" json:"duration"`

	Seats []TrainSeat `bun:"rel:has-many,join:id=train_id" json:"tickets"`
}

// TrainSeat is one seat class of a train with its fare and remaining inventory.
type TrainSeat struct {
	bun.BaseModel `bun:"table:train_seats,alias:ts"`

	ID        int64   `bun:"id,pk,autoincrement" json:"-"`
	TrainID   int64   `bun:"train_id,notnull" json:"-"`
	SeatClass string  `bun:"seat_class,notnull" json:"seat_class"`
	Price     float64 `bun:"price,notnull" json:"price"`
	Remaining int     `bun:"remaining,notnull" json:"remaining"`
}
