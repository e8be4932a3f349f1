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

func (d *DB) ListPassengers(ctx context.Context, userID int64) ([]models.Passenger, error) {
	passengers := []models.Passenger{}
	err := d.Bun.NewSelect().
		Model(&passengers).
		Where("p.user_id = ?", userID).
		OrderExpr("p.id ASC").
		Scan(ctx)
	return passengers, err
}

func (d *DB) GetPassenger(ctx context.Context, userID, id int64) (*models.Passenger, error) {
	var p models.Passenger
	err := d.Bun.NewSelect().
		Model(&p).
		Where("p.id = ?", id).
		Where("p.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *DB) CreatePassenger(ctx context.Context, p *models.Passenger) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := d.Bun.NewInsert().Model(p).Exec(ctx)
	return err
}

// DeletePassenger removes at most one owned row and reports how many were removed.
func (d *DB) DeletePassenger(ctx context.Context, userID, id int64) (int64, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.Passenger)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
