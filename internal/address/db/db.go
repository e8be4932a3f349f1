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

func (d *DB) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	addresses := []models.Address{}
	err := d.Bun.NewSelect().
		Model(&addresses).
		Where("a.user_id = ?", userID).
		OrderExpr("a.id ASC").
		Scan(ctx)
	return addresses, err
}

func (d *DB) CreateAddress(ctx context.Context, a *models.Address) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := d.Bun.NewInsert().Model(a).Exec(ctx)
	return err
}

func (d *DB) DeleteAddress(ctx context.Context, userID, id int64) (int64, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.Address)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
