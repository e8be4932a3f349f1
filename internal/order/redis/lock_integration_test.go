package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestBookingLock_RedisIntegration runs the lock against a real redis server.
func TestBookingLock_RedisIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping redis integration test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	defer client.Close()

	lock := NewBookingLock(client, time.Second)

	token, err := lock.Acquire(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	second, err := lock.Acquire(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, second, "a held lock must not be granted twice")

	require.NoError(t, lock.Release(ctx, 42, "not-the-owner"))
	held, err := lock.Held(ctx, 42)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, lock.Release(ctx, 42, token))
	held, err = lock.Held(ctx, 42)
	require.NoError(t, err)
	assert.False(t, held)

	token, err = lock.Acquire(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	time.Sleep(1500 * time.Millisecond)
	held, err = lock.Held(ctx, 42)
	require.NoError(t, err)
	assert.False(t, held, "lock should expire after its ttl")
}
