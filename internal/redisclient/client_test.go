package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNames(t *testing.T) {
	assert.Equal(t, "idempotency:orders:abc", idempotencyKey("orders:abc"))
	assert.Equal(t, "lock:orders:abc", lockName("orders:abc"))
}

func TestNewClientUnreachable(t *testing.T) {
	_, err := NewClient("127.0.0.1:1", "", 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

// Set REDIS_TEST_ADDR to run against a live server
func TestIdempotencyAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Integration test - requires redis")
	}

	client, err := NewClient(addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	key := "orders:" + uuid.NewString()

	_, found, err := client.GetIdempotencyKey(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, client.SetIdempotencyKey(ctx, key, int64(42), time.Minute))
	value, found, err := client.GetIdempotencyKey(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "42", value)

	acquired, err := client.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = client.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, client.ReleaseLock(ctx, key))
	acquired, err = client.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, client.ReleaseLock(ctx, key))
}
