package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestLoad_Success(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set("erp-sales-history", `[{"id":"sale-1"}]`))

	data, err := store.Load(context.Background(), "erp-sales-history")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"sale-1"}]`, string(data))
}

func TestLoad_NotFound(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := store.Load(context.Background(), "missing-key")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_OverwritesWholeDocument(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "erp-service-orders", []byte(`[{"id":"so-1"}]`)))
	require.NoError(t, store.Save(ctx, "erp-service-orders", []byte(`[{"id":"so-1"},{"id":"so-2"}]`)))

	stored, err := mr.Get("erp-service-orders")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"so-1"},{"id":"so-2"}]`, stored)
}

func TestSave_NoExpiry(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, store.Save(context.Background(), "erp-sales-history", []byte(`[]`)))

	// documents are durable state, never cache entries
	assert.Equal(t, time.Duration(0), mr.TTL("erp-sales-history"))
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	doc := []byte(`[{"id":"sale-173","total":475.5}]`)
	require.NoError(t, store.Save(ctx, "erp-sales-history", doc))

	loaded, err := store.Load(ctx, "erp-sales-history")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}
