package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// BookingLock serializes order creation per user so a double submit cannot
// race itself. Seat inventory correctness does not depend on it.
type BookingLock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewBookingLock(client *redis.Client, ttl time.Duration) *BookingLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &BookingLock{Client: client, TTL: ttl}
}

func LockKey(userID int64) string {
	return fmt.Sprintf("booking_lock:%d", userID)
}

// Acquire returns a token when the lock was taken, or "" when another
// booking for the same user holds it.
func (l *BookingLock) Acquire(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	ok, err := l.Client.SetNX(ctx, LockKey(userID), token, l.TTL).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// Release is a no-op when the lock expired or was taken over by another token.
func (l *BookingLock) Release(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return nil
	}
	return releaseScript.Run(ctx, l.Client, []string{LockKey(userID)}, token).Err()
}

// Held reports whether any booking currently holds the user's lock.
func (l *BookingLock) Held(ctx context.Context, userID int64) (bool, error) {
	_, err := l.Client.Get(ctx, LockKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
