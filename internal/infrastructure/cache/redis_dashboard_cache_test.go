package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

func getRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisDashboardCache_RoundTripEInvalidacion(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	c := NewRedisDashboardCache(client, time.Minute).WithKey("stock-ledger:test:" + t.Name())
	require.NoError(t, c.Invalidate(ctx))

	_, gen, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	in := &dto.DashboardResponse{
		LowStockCount: 1,
		TotalItems:    2,
		TotalValue:    decimal.RequireFromString("610010.50"),
		StockByCategory: map[string]dto.CategoryStockDTO{
			"Acero": {TotalItems: 1, TotalStock: 20, TotalValue: decimal.NewFromInt(250010)},
		},
	}
	require.NoError(t, c.Set(ctx, gen, in))

	out, _, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, in.TotalValue.Equal(out.TotalValue))
	assert.Equal(t, int64(20), out.StockByCategory["Acero"].TotalStock)

	ttl, err := client.TTL(ctx, "stock-ledger:test:"+t.Name()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx))
	_, _, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDashboardCache_SetConGeneracionViejaSeDescarta(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	key := "stock-ledger:test:" + t.Name()
	c := NewRedisDashboardCache(client, time.Minute).WithKey(key)
	t.Cleanup(func() { _ = client.Del(ctx, key, key+":gen").Err() })

	_, before, _, err := c.Get(ctx)
	require.NoError(t, err)

	// Un commit invalida mientras el lector todavía calcula.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, before, &dto.DashboardResponse{TotalItems: 1}))

	_, after, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "el snapshot anterior a la invalidación no queda en caché")
	assert.Equal(t, before+1, after)

	require.NoError(t, c.Set(ctx, after, &dto.DashboardResponse{TotalItems: 2}))
	out, _, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, out.TotalItems)
}

func TestRedisDashboardCache_EntradaCorruptaEsMiss(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	key := "stock-ledger:test:" + t.Name()
	c := NewRedisDashboardCache(client, time.Minute).WithKey(key)
	require.NoError(t, client.Set(ctx, key, "{no-json", time.Minute).Err())
	t.Cleanup(func() { _ = c.Invalidate(ctx) })

	_, _, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
