package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const recoveryKeyPrefix = "recovery:"

var ErrRecoveryTicketNotFound = errors.New("recovery ticket not found or expired")

// RecoveryTicket binds the steps of the password recovery flow to one account.
type RecoveryTicket struct {
	UserID    int64     `json:"user_id"`
	Account   string    `json:"account"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisRecoveryCache keeps recovery tickets in Redis until they expire or are consumed.
type RedisRecoveryCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRecoveryCache(client *redis.Client, ttl time.Duration) *RedisRecoveryCache {
	return &RedisRecoveryCache{Client: client, TTL: ttl}
}

func (c *RedisRecoveryCache) Create(ctx context.Context, userID int64, account string) (string, error) {
	token := uuid.NewString()
	ticket := RecoveryTicket{UserID: userID, Account: account, CreatedAt: time.Now().UTC()}

	data, err := json.Marshal(ticket)
	if err != nil {
		return "", err
	}
	if err := c.Client.Set(ctx, recoveryKeyPrefix+token, data, c.TTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store recovery ticket: %w", err)
	}
	return token, nil
}

func (c *RedisRecoveryCache) Get(ctx context.Context, token string) (*RecoveryTicket, error) {
	raw, err := c.Client.Get(ctx, recoveryKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, ErrRecoveryTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recovery ticket: %w", err)
	}

	var ticket RecoveryTicket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recovery ticket: %w", err)
	}
	return &ticket, nil
}

// MarkVerified flags the ticket without extending its lifetime.
func (c *RedisRecoveryCache) MarkVerified(ctx context.Context, token string) error {
	ticket, err := c.Get(ctx, token)
	if err != nil {
		return err
	}
	ticket.Verified = true

	ttl, err := c.Client.TTL(ctx, recoveryKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("failed to read recovery ticket ttl: %w", err)
	}
	if ttl <= 0 {
		ttl = c.TTL
	}

	data, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, recoveryKeyPrefix+token, data, ttl).Err()
}

func (c *RedisRecoveryCache) Consume(ctx context.Context, token string) error {
	return c.Client.Del(ctx, recoveryKeyPrefix+token).Err()
}
