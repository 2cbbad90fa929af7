// Package cache keeps the latest price quotes in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/trogers1052/paisabuddy/internal/models"
)

// DefaultKey is the Redis hash holding one field per symbol
const DefaultKey = "paisabuddy:quotes"

// QuoteCache stores the latest quote of every stock in a Redis hash
type QuoteCache struct {
	client *redis.Client
	key    string
}

// NewQuoteCache creates a QuoteCache connected to addr
func NewQuoteCache(addr, password string, db int, key string) *QuoteCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewQuoteCacheWithClient(client, key)
}

// NewQuoteCacheWithClient wraps an existing client
func NewQuoteCacheWithClient(client *redis.Client, key string) *QuoteCache {
	if key == "" {
		key = DefaultKey
	}
	return &QuoteCache{client: client, key: key}
}

// Ping checks the Redis connection
func (c *QuoteCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *QuoteCache) Close() error {
	return c.client.Close()
}

// PricesUpdated writes the refreshed quotes in a single pipeline
func (c *QuoteCache) PricesUpdated(ctx context.Context, quotes []models.PriceQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(quotes))
	for _, q := range quotes {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("failed to marshal quote: %w", err)
		}
		fields[strings.ToUpper(q.Symbol)] = data
	}

	if err := c.client.HSet(ctx, c.key, fields).Err(); err != nil {
		return fmt.Errorf("failed to cache quotes: %w", err)
	}
	return nil
}

// GetQuote returns the cached quote of symbol
func (c *QuoteCache) GetQuote(ctx context.Context, symbol string) (*models.PriceQuote, error) {
	data, err := c.client.HGet(ctx, c.key, strings.ToUpper(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("quote %w: %s", models.ErrNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	var q models.PriceQuote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
	}
	return &q, nil
}

// AllQuotes returns every cached quote ordered by symbol
func (c *QuoteCache) AllQuotes(ctx context.Context) ([]models.PriceQuote, error) {
	values, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}

	quotes := make([]models.PriceQuote, 0, len(values))
	for _, v := range values {
		var q models.PriceQuote
		if err := json.Unmarshal([]byte(v), &q); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Symbol < quotes[j].Symbol })
	return quotes, nil
}
