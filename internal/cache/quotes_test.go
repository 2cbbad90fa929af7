package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// setupRedis starts a Redis container and returns a cache bound to it
func setupRedis(t *testing.T) *QuoteCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	c := NewQuoteCache(endpoint, "", 0, "")
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Ping(ctx))
	return c
}

func TestQuoteCache(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 9, 15, 0, 0, time.UTC)

	t.Run("missing quote is not found", func(t *testing.T) {
		_, err := c.GetQuote(ctx, "RELIANCE")
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("stores and reads quotes", func(t *testing.T) {
		err := c.PricesUpdated(ctx, []models.PriceQuote{
			{Symbol: "TCS", Price: decimal.RequireFromString("3232.00"), UpdatedAt: at},
			{Symbol: "RELIANCE", Price: decimal.RequireFromString("2525.00"), UpdatedAt: at},
		})
		require.NoError(t, err)

		q, err := c.GetQuote(ctx, "reliance")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("2525.00").Equal(q.Price))
		assert.True(t, at.Equal(q.UpdatedAt))

		all, err := c.AllQuotes(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "RELIANCE", all[0].Symbol)
		assert.Equal(t, "TCS", all[1].Symbol)
	})

	t.Run("newer quotes overwrite older ones", func(t *testing.T) {
		err := c.PricesUpdated(ctx, []models.PriceQuote{
			{Symbol: "TCS", Price: decimal.RequireFromString("3300.10"), UpdatedAt: at.Add(time.Minute)},
		})
		require.NoError(t, err)

		q, err := c.GetQuote(ctx, "TCS")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("3300.10").Equal(q.Price))
	})

	t.Run("empty refresh is a no-op", func(t *testing.T) {
		require.NoError(t, c.PricesUpdated(ctx, nil))
	})
}

func TestQuoteCacheUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewQuoteCacheWithClient(client, "test:quotes")
	defer c.Close()

	ctx := context.Background()
	assert.Error(t, c.Ping(ctx))

	_, err := c.AllQuotes(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrNotFound))
}
