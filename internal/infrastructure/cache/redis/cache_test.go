// Package redis_test provides unit tests for the Redis cache backend.
package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/agent-service/internal/core/cache"
	rediscache "github.com/voicedesk/agent-service/internal/infrastructure/cache/redis"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, cache.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewClient(rediscache.Config{
		Host:     mr.Host(),
		Port:     mr.Port(),
		Password: "",
		DB:       0,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestNewClient_Success(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := rediscache.NewClient(rediscache.Config{
		Host: mr.Host(),
		Port: mr.Port(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, client)

	client.Close()
}

func TestCache_SetAndGet(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	err := client.Set(ctx, "tts:Hello", []byte(`{"audioUrl":"https://a/1"}`), 1*time.Minute)
	assert.NoError(t, err)

	result, err := client.Get(ctx, "tts:Hello")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"audioUrl":"https://a/1"}`), result)
}

func TestCache_GetNotFound(t *testing.T) {
	_, client := setupMiniredis(t)

	result, err := client.Get(context.Background(), "missing")

	// Get returns nil without error when the key does not exist
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCache_Delete(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key", []byte("value"), 1*time.Minute))

	deleted, err := client.Delete(ctx, "key")
	assert.NoError(t, err)
	assert.True(t, deleted)

	result, err := client.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCache_TTLExpiry(t *testing.T) {
	mr, client := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key", []byte("value"), 1*time.Second))

	mr.FastForward(2 * time.Second)

	result, err := client.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCache_Ping(t *testing.T) {
	_, client := setupMiniredis(t)

	assert.NoError(t, client.Ping(context.Background()))
}
