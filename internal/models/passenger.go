package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Passenger struct {
	bun.BaseModel `bun:"table:passengers,alias:p"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID        int64     `bun:"user_id,notnull" json:"user_id"`
	Name          string    `bun:"name,notnull" json:"name"`
	IDType        string    `bun:"id_type,notnull" json:"id_type"`
	IDCard        string    `bun:"id_card,notnull" json:"id_card"`
	Phone         string    `bun:"phone,notnull" json:"phone"`
	PassengerType string    `bun:"passenger_type,notnull" json:"passenger_type"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
}

type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	Receiver  string    `bun:"receiver,notnull" json:"receiver"`
	Phone     string    `bun:"phone,notnull" json:"phone"`
	Province  string    `bun:"province,notnull" json:"province"`
	City      string    `bun:"city,notnull" json:"city"`
	District  string    `bun:"district,notnull" json:"district"`
	Detail    string    `bun:"detail,notnull" json:"detail"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}
