package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/bankview/internal/platform/account"
	"github.com/kislikjeka/bankview/pkg/logger"
)

const (
	// DefaultTTL is the default TTL for cached account details
	DefaultTTL = 10 * time.Minute

	// KeyPrefix is the prefix for details cache keys
	KeyPrefix = "account:details:"
)

// DetailsCache is a Redis-backed cache for account details enrichment. It is
// best-effort: callers treat any failure as a miss.
type DetailsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewDetailsCache creates a new details cache with the default TTL
func NewDetailsCache(client *redis.Client, log *logger.Logger) *DetailsCache {
	return NewDetailsCacheWithTTL(client, DefaultTTL, log)
}

// NewDetailsCacheWithTTL creates a new details cache with a custom TTL
func NewDetailsCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *DetailsCache {
	return &DetailsCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "details-cache"),
	}
}

// cachedDetails wraps the payload with fetch metadata
type cachedDetails struct {
	Details   account.Details `json:"details"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Get retrieves cached details for an account
func (c *DetailsCache) Get(ctx context.Context, id string) (*account.Details, bool, error) {
	key := KeyPrefix + id

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "account_id", id)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "account_id", id, "error", err)
		return nil, false, fmt.Errorf("failed to get cached details: %w", err)
	}

	var cached cachedDetails
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		c.logger.Error("cache error", "operation", "decode", "account_id", id, "error", err)
		return nil, false, fmt.Errorf("failed to decode cached details: %w", err)
	}

	c.logger.Debug("cache hit", "account_id", id, "fetched_at", cached.FetchedAt)
	return &cached.Details, true, nil
}

// Set stores details for an account with the configured TTL
func (c *DetailsCache) Set(ctx context.Context, id string, details *account.Details) error {
	key := KeyPrefix + id

	payload, err := json.Marshal(cachedDetails{
		Details:   *details,
		FetchedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode details: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "account_id", id, "error", err)
		return fmt.Errorf("failed to cache details: %w", err)
	}

	return nil
}

// Invalidate drops the cached details for an account
func (c *DetailsCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, KeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to invalidate details: %w", err)
	}
	return nil
}
