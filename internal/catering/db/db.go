package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-railway/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) ListBrands(ctx context.Context) ([]models.CateringBrand, error) {
	brands := []models.CateringBrand{}
	err := d.Bun.NewSelect().Model(&brands).OrderExpr("cb.id ASC").Scan(ctx)
	return brands, err
}

func (d *DB) GetBrand(ctx context.Context, id int64) (*models.CateringBrand, error) {
	var b models.CateringBrand
	if err := d.Bun.NewSelect().Model(&b).Where("cb.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func (d *DB) CreateBrand(ctx context.Context, b *models.CateringBrand) error {
	_, err := d.Bun.NewInsert().Model(b).Exec(ctx)
	return err
}

// ListItems filters by brand and type when they are non-zero.
func (d *DB) ListItems(ctx context.Context, brandID int64, itemType string) ([]models.CateringItem, error) {
	items := []models.CateringItem{}
	q := d.Bun.NewSelect().Model(&items)
	if brandID > 0 {
		q = q.Where("ci.brand_id = ?", brandID)
	}
	if itemType != "" {
		q = q.Where("ci.item_type = ?", itemType)
	}
	err := q.OrderExpr("ci.id ASC").Scan(ctx)
	return items, err
}

func (d *DB) GetItems(ctx context.Context, ids []int64) ([]models.CateringItem, error) {
	items := []models.CateringItem{}
	if len(ids) == 0 {
		return items, nil
	}
	err := d.Bun.NewSelect().Model(&items).Where("ci.id IN (?)", bun.In(ids)).Scan(ctx)
	return items, err
}

func (d *DB) CreateItem(ctx context.Context, item *models.CateringItem) error {
	_, err := d.Bun.NewInsert().Model(item).Exec(ctx)
	return err
}

// CreateOrder inserts the order and its lines atomically.
func (d *DB) CreateOrder(ctx context.Context, order *models.CateringOrder) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
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

func (d *DB) GetOrder(ctx context.Context, userID, id int64) (*models.CateringOrder, error) {
	var o models.CateringOrder
	err := d.Bun.NewSelect().
		Model(&o).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("coi.id ASC")
		}).
		Where("co.id = ?", id).
		Where("co.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (d *DB) ListOrders(ctx context.Context, userID int64, status models.OrderStatus) ([]models.CateringOrder, error) {
	orders := []models.CateringOrder{}
	q := d.Bun.NewSelect().
		Model(&orders).
		Relation("Items", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("coi.id ASC")
		}).
		Where("co.user_id = ?", userID)
	if status != "" {
		q = q.Where("co.status = ?", status)
	}
	err := q.OrderExpr("co.created_at DESC, co.id DESC").Scan(ctx)
	return orders, err
}

// TransitionOrder is a single guarded UPDATE; false means no row matched.
func (d *DB) TransitionOrder(ctx context.Context, userID, id int64, from, to models.OrderStatus) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.CateringOrder)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
