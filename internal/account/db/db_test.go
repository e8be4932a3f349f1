package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-railway/internal/account/db"
	"ms-railway/internal/apperr"
	"ms-railway/internal/database/dbtest"
	"ms-railway/internal/models"
)

func newUser(username, idCard, phone string) *models.User {
	return &models.User{
		Username:     username,
		PasswordHash: "hash",
		IDType:       "身份证",
		IDCard:       idCard,
		RealName:     "Zhang",
		Phone:        phone,
		UserType:     "成人",
	}
}

func TestCreateAndFindUser(t *testing.T) {
	store := &db.DB{Bun: dbtest.New(t)}
	ctx := context.Background()

	u := newUser("u1", "110101199001011234", "13800000000")
	require.NoError(t, store.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	byName, err := store.FindByAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byPhone, err := store.FindByAccount(ctx, "13800000000")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	_, err = store.FindByAccount(ctx, "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateUser_UniqueConstraints(t *testing.T) {
	store := &db.DB{Bun: dbtest.New(t)}
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newUser("u1", "110101199001011234", "13800000000")))

	err := store.CreateUser(ctx, newUser("u1", "110101199001019999", "13900000000"))
	require.Error(t, err)
	assert.True(t, apperr.IsUniqueViolation(err))

	err = store.CreateUser(ctx, newUser("u2", "110101199001011234", "13900000000"))
	assert.True(t, apperr.IsUniqueViolation(err))

	usernameTaken, idCardTaken, err := store.Taken(ctx, "u1", "none")
	require.NoError(t, err)
	assert.True(t, usernameTaken)
	assert.False(t, idCardTaken)
}

func TestUpdatePassword(t *testing.T) {
	store := &db.DB{Bun: dbtest.New(t)}
	ctx := context.Background()

	u := newUser("u1", "110101199001011234", "13800000000")
	require.NoError(t, store.CreateUser(ctx, u))

	require.NoError(t, store.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err := store.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, store.UpdatePassword(ctx, 999, "x"), sql.ErrNoRows)
}
