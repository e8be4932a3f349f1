package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"ms-railway/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateUser inserts the user and fills in its generated id.
func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := d.Bun.NewInsert().Model(user).Exec(ctx)
	return err
}

func (d *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("u.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByAccount matches a username or a phone number. Usernames win over phones.
func (d *DB) FindByAccount(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("u.username = ? OR u.phone = ?", account, account).
		OrderExpr("CASE WHEN u.username = ? THEN 0 ELSE 1 END, u.id ASC", account).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Taken reports which of the unique identity fields are already registered.
func (d *DB) Taken(ctx context.Context, username, idCard string) (usernameTaken, idCardTaken bool, err error) {
	usernameTaken, err = d.Bun.NewSelect().
		Model((*models.User)(nil)).
		Where("u.username = ?", username).
		Exists(ctx)
	if err != nil {
		return false, false, err
	}
	idCardTaken, err = d.Bun.NewSelect().
		Model((*models.User)(nil)).
		Where("u.id_card = ?", idCard).
		Exists(ctx)
	return usernameTaken, idCardTaken, err
}

func (d *DB) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hash).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
