package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis starts an in-memory redis and a client bound to it.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	return client, mr
}

func cleanupTestRedis(client *redis.Client, mr *miniredis.Miniredis) {
	if client != nil {
		client.Close()
	}
	if mr != nil {
		mr.Close()
	}
}

func TestBookingLock_AcquireRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	ctx := context.Background()
	l := NewBookingLock(client, time.Minute)

	token, err := l.Acquire(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, mr.Exists("booking_lock:7"))

	second, err := l.Acquire(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, second, "a held lock must not be handed out twice")

	other, err := l.Acquire(ctx, 8)
	require.NoError(t, err)
	assert.NotEmpty(t, other, "locks are per user")

	require.NoError(t, l.Release(ctx, 7, token))
	held, err := l.Held(ctx, 7)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestBookingLock_ReleaseIgnoresForeignToken(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	ctx := context.Background()
	l := NewBookingLock(client, time.Minute)

	token, err := l.Acquire(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, l.Release(ctx, 1, "not-the-owner"))
	held, err := l.Held(ctx, 1)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, l.Release(ctx, 1, token))
	assert.False(t, mr.Exists("booking_lock:1"))
}

func TestBookingLock_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	ctx := context.Background()
	l := NewBookingLock(client, 5*time.Second)

	_, err := l.Acquire(ctx, 3)
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)

	token, err := l.Acquire(ctx, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestBookingLock_ConcurrentAcquire(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	ctx := context.Background()
	l := NewBookingLock(client, time.Minute)

	var wg sync.WaitGroup
	var winners int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := l.Acquire(ctx, 42)
			if err == nil && token != "" {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}
