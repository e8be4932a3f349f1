package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ItemTypeSelf  = "self"
	ItemTypeBrand = "brand"
)

type CateringBrand struct {
	bun.BaseModel `bun:"table:catering_brands,alias:cb"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Logo        string    `bun:"logo" json:"logo"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
}

type CateringItem struct {
	bun.BaseModel `bun:"table:catering_items,alias:ci"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	BrandID     int64     `bun:"brand_id,nullzero" json:"brand_id,omitempty"`
	Name        string    `bun:"name,notnull" json:"name"`
	Price       float64   `bun:"price,notnull" json:"price"`
	ItemType    string    `bun:"item_type,notnull" json:"item_type"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
}

type CateringOrder struct {
	bun.BaseModel `bun:"table:catering_orders,alias:co"`

	ID          int64       `bun:"id,pk,autoincrement" json:"id"`
	UserID      int64       `bun:"user_id,notnull" json:"user_id"`
	TrainNumber string      `bun:"train_number,notnull" json:"train_number"`
	TravelDate  string      `bun:"travel_date" json:"travel_date"`
	Status      OrderStatus `bun:"status,notnull" json:"status"`
	TotalPrice  float64     `bun:"total_price,notnull" json:"total_price"`
	CreatedAt   time.Time   `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,notnull" json:"updated_at"`

	Items []CateringOrderItem `bun:"rel:has-many,join:id=order_id" json:"items"`
}

type CateringOrderItem struct {
	bun.BaseModel `bun:"table:catering_order_items,alias:coi"`

	ID        int64   `bun:"id,pk,autoincrement" json:"id"`
	OrderID   int64   `bun:"order_id,notnull" json:"order_id"`
	ItemID    int64   `bun:"item_id,notnull" json:"item_id"`
	ItemName  string  `bun:"item_name,notnull" json:"item_name"`
	Quantity  int     `bun:"quantity,notnull" json:"quantity"`
	UnitPrice float64 `bun:"unit_price,notnull" json:"unit_price"`
}
