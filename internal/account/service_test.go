package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-railway/internal/account"
	"ms-railway/internal/account/db"
	"ms-railway/internal/apperr"
	"ms-railway/internal/auth"
	"ms-railway/internal/config"
	"ms-railway/internal/database/dbtest"
	"ms-railway/internal/logger"
)

func newService(t *testing.T, requireVerified bool) (*account.Service, *db.DB) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	store := &db.DB{Bun: dbtest.New(t)}
	cfg := config.AuthConfig{
		BcryptCost:              4,
		RecoveryCode:            "123456",
		RecoveryTTL:             10 * time.Minute,
		RecoveryRequireVerified: requireVerified,
	}
	svc := account.NewService(store, auth.NewRedisRecoveryCache(client, cfg.RecoveryTTL),
		auth.NewTokenManager("secret", time.Hour), cfg, logger.Nop())
	return svc, store
}

func validInput() account.RegisterInput {
	return account.RegisterInput{
		Username: "u1",
		Password: "p1",
		IDCard:   "110101199001011234",
		RealName: "Zhang",
		Phone:    "13800000000",
	}
}

func TestRegister(t *testing.T) {
	svc, store := newService(t, true)
	ctx := context.Background()

	user, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.Username)
	assert.Equal(t, "成人", user.UserType)

	stored, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "p1", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "p1"))

	dup := validInput()
	dup.IDCard = "110101199001019999"
	_, err = svc.Register(ctx, dup)
	assert.True(t, apperr.IsConflict(err))

	sameCard := validInput()
	sameCard.Username = "u2"
	_, err = svc.Register(ctx, sameCard)
	assert.True(t, apperr.IsConflict(err))
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newService(t, true)

	for _, mutate := range []func(*account.RegisterInput){
		func(in *account.RegisterInput) { in.Username = "" },
		func(in *account.RegisterInput) { in.Password = "" },
		func(in *account.RegisterInput) { in.IDCard = "" },
		func(in *account.RegisterInput) { in.RealName = "" },
		func(in *account.RegisterInput) { in.Phone = "" },
		func(in *account.RegisterInput) { in.Username = "   " },
		func(in *account.RegisterInput) { in.RealName = "\t" },
		func(in *account.RegisterInput) { in.IDCard = " " },
	} {
		in := validInput()
		mutate(&in)
		_, err := svc.Register(context.Background(), in)
		assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()
	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	res, err := svc.Login(ctx, account.LoginInput{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "u1", res.User.Username)
	assert.Equal(t, "1101**********1234", res.User.IDCard)

	res, err = svc.Login(ctx, account.LoginInput{Username: "13800000000", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.Username)

	_, wrongPassword := svc.Login(ctx, account.LoginInput{Username: "u1", Password: "nope"})
	_, unknownUser := svc.Login(ctx, account.LoginInput{Username: "ghost", Password: "p1"})
	assert.True(t, apperr.IsAuth(wrongPassword))
	assert.True(t, apperr.IsAuth(unknownUser))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestRecoveryFlow_RequiresVerifiedTicket(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()
	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.CheckUser(ctx, "ghost")
	assert.True(t, apperr.IsNotFound(err))

	token, err := svc.CheckUser(ctx, "u1")
	require.NoError(t, err)

	assert.True(t, apperr.IsValidation(svc.ResetPassword(ctx, "u1", "p2", "")))
	assert.True(t, apperr.IsValidation(svc.ResetPassword(ctx, "u1", "p2", token)), "unverified ticket")

	assert.True(t, apperr.IsValidation(svc.VerifyCode(ctx, "000000", token)))
	require.NoError(t, svc.VerifyCode(ctx, "123456", token))
	require.NoError(t, svc.ResetPassword(ctx, "u1", "p2", token))

	_, err = svc.Login(ctx, account.LoginInput{Username: "u1", Password: "p2"})
	assert.NoError(t, err)

	assert.True(t, apperr.IsValidation(svc.ResetPassword(ctx, "u1", "p3", token)), "ticket is single use")
}

func TestRecoveryFlow_TicketBoundToAccount(t *testing.T) {
	svc, _ := newService(t, true)
	ctx := context.Background()
	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	other := validInput()
	other.Username, other.IDCard, other.Phone = "u2", "110101199001015678", "13900000000"
	_, err = svc.Register(ctx, other)
	require.NoError(t, err)

	token, err := svc.CheckUser(ctx, "u2")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyCode(ctx, "123456", token))

	assert.True(t, apperr.IsValidation(svc.ResetPassword(ctx, "u1", "hijack", token)))
}

func TestRecoveryFlow_Unbound(t *testing.T) {
	svc, _ := newService(t, false)
	ctx := context.Background()
	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.VerifyCode(ctx, "123456", ""))
	require.NoError(t, svc.ResetPassword(ctx, "u1", "p2", ""))
	assert.True(t, apperr.IsNotFound(svc.ResetPassword(ctx, "ghost", "p2", "")))

	_, err = svc.Login(ctx, account.LoginInput{Username: "u1", Password: "p2"})
	assert.NoError(t, err)
}
