package db

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-railway/internal/models"
	"ms-railway/internal/utils"
)

// SoldOutError means a seat class had fewer remaining seats than requested.
type SoldOutError struct {
	TrainNumber string
	SeatClass   string
}

func (e *SoldOutError) Error() string {
	return fmt.Sprintf("no remaining %s seats on %s", e.SeatClass, e.TrainNumber)
}

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetTrainByNumber(ctx context.Context, number string) (*models.Train, error) {
	var t models.Train
	err := d.Bun.NewSelect().
		Model(&t).
		Relation("Seats", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("ts.price DESC")
		}).
		Where("t.train_number = ?", number).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateOrder reserves one seat per item, assigns seat numbers and inserts the
// order with its items in a single transaction. Nothing is written when any
// class is short.
func (d *DB) CreateOrder(ctx context.Context, trainID int64, order *models.Order) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, r := range groupBySeatClass(order.Items) {
			res, err := tx.NewUpdate().
				Model((*models.TrainSeat)(nil)).
				Set("remaining = remaining - ?", r.count).
				Where("train_id = ?", trainID).
				Where("seat_class = ?", r.seatClass).
				Where("remaining >= ?", r.count).
				Exec(ctx)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return &SoldOutError{TrainNumber: order.TrainNumber, SeatClass: r.seatClass}
			}
			if err := assignSeats(ctx, tx, order.Items, r); err != nil {
				return err
			}
		}

		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if _, err := tx.NewInsert().Model(&order.Items[i]).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *DB) GetOrder(ctx context.Context, userID, id int64) (*models.Order, error) {
	var o models.Order
	err := d.Bun.NewSelect().
		Model(&o).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("oi.id ASC")
		}).
		Where("o.id = ?", id).
		Where("o.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns the user's orders newest first. An empty status matches all.
func (d *DB) ListOrders(ctx context.Context, userID int64, status models.OrderStatus) ([]models.Order, error) {
	orders := []models.Order{}
	q := d.Bun.NewSelect().
		Model(&orders).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("oi.id ASC")
		}).
		Where("o.user_id = ?", userID)
	if status != "" {
		q = q.Where("o.status = ?", status)
	}
	err := q.OrderExpr("o.created_at DESC, o.id DESC").Scan(ctx)
	return orders, err
}

// TransitionOrder moves an order owned by userID from one status to another.
// It reports false when no row matched, leaving the caller to tell a missing
// order from one in the wrong state. With restoreSeats the order's seats go
// back to inventory in the same transaction.
func (d *DB) TransitionOrder(ctx context.Context, userID, id int64, from, to models.OrderStatus, restoreSeats bool) (bool, error) {
	var changed bool
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Order)(nil)).
			Set("status = ?", to).
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", id).
			Where("user_id = ?", userID).
			Where("status = ?", from).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		changed = true
		if !restoreSeats {
			return nil
		}
		return releaseSeats(ctx, tx, id)
	})
	return changed, err
}

// assignSeats gives each item of the reservation the lowest seat numbers not
// held by a live item on the same train and class.
func assignSeats(ctx context.Context, tx bun.Tx, items []models.OrderItem, r reservation) error {
	var held []string
	err := tx.NewSelect().
		Model((*models.OrderItem)(nil)).
		ColumnExpr("oi.seat_no").
		Where("oi.train_number = ?", r.trainNumber).
		Where("oi.seat_class = ?", r.seatClass).
		Where("oi.seat_released = ?", false).
		Where("oi.seat_no IS NOT NULL").
		Scan(ctx, &held)
	if err != nil {
		return err
	}
	taken := make(map[string]bool, len(held))
	for _, seat := range held {
		taken[seat] = true
	}

	ordinal := 0
	for i := range items {
		if items[i].TrainNumber != r.trainNumber || items[i].SeatClass != r.seatClass {
			continue
		}
		for taken[utils.SeatLabel(r.seatClass, ordinal)] {
			ordinal++
		}
		items[i].SeatNo = utils.SeatLabel(r.seatClass, ordinal)
		taken[items[i].SeatNo] = true
	}
	return nil
}

// releaseSeats returns the order's seats to inventory and frees their numbers.
func releaseSeats(ctx context.Context, tx bun.Tx, orderID int64) error {
	var items []models.OrderItem
	if err := tx.NewSelect().Model(&items).Where("oi.order_id = ?", orderID).Scan(ctx); err != nil {
		return err
	}
	_, err := tx.NewUpdate().
		Model((*models.OrderItem)(nil)).
		Set("seat_released = ?", true).
		Where("order_id = ?", orderID).
		Exec(ctx)
	if err != nil {
		return err
	}
	for _, r := range groupBySeatClass(items) {
		_, err := tx.NewUpdate().
			Model((*models.TrainSeat)(nil)).
			Set("remaining = remaining + ?", r.count).
			Where("seat_class = ?", r.seatClass).
			Where("train_id = (SELECT id FROM trains WHERE train_number = ?)", r.trainNumber).
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

type reservation struct {
	trainNumber string
	seatClass   string
	count       int
}

// groupBySeatClass keeps first-seen order so updates run in a stable sequence.
func groupBySeatClass(items []models.OrderItem) []reservation {
	var out []reservation
	index := make(map[string]int)
	for _, it := range items {
		key := it.TrainNumber + "\x00" + it.SeatClass
		if i, ok := index[key]; ok {
			out[i].count++
			continue
		}
		index[key] = len(out)
		out = append(out, reservation{trainNumber: it.TrainNumber, seatClass: it.SeatClass, count: 1})
	}
	return out
}
