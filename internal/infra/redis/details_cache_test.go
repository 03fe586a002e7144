package redis_test

import (
	"context"
	"io"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/bankview/internal/infra/redis"
	"github.com/kislikjeka/bankview/internal/platform/account"
	"github.com/kislikjeka/bankview/pkg/logger"
)

// setupTestCache creates a details cache backed by a local Redis
func setupTestCache(t *testing.T, ttl time.Duration) *redis.DetailsCache {
	// Use a test Redis database (DB 15 for tests)
	client := goredis.NewClient(&goredis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use separate DB for tests
	})

	// Verify Redis is available
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Skipping test: Redis not available")
	}

	// Clear test database
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test database: %v", err)
	}

	log := logger.New("development", io.Discard)
	return redis.NewDetailsCacheWithTTL(client, ttl, log)
}

func testDetails() *account.Details {
	return &account.Details{
		ProductName:   "Everyday Checking",
		OpenedDate:    "2020-01-15T00:00:00Z",
		Branch:        "Downtown",
		Beneficiaries: []string{"Alex Doe"},
	}
}

func TestDetailsCache_SetAndGet(t *testing.T) {
	c := setupTestCache(t, redis.DefaultTTL)
	ctx := context.Background()

	t.Run("Set_and_Get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "acc-1", testDetails()))

		got, found, err := c.Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, testDetails(), got)
	})

	t.Run("Get_Missing_Is_A_Miss_Not_An_Error", func(t *testing.T) {
		got, found, err := c.Get(ctx, "nonexistent-account")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("Keys_Are_Isolated_Per_Account", func(t *testing.T) {
		other := testDetails()
		other.ProductName = "Premium Savings"
		require.NoError(t, c.Set(ctx, "acc-2", other))

		got, found, err := c.Get(ctx, "acc-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Everyday Checking", got.ProductName)
	})
}

func TestDetailsCache_Invalidate(t *testing.T) {
	c := setupTestCache(t, redis.DefaultTTL)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "acc-1", testDetails()))
	require.NoError(t, c.Invalidate(ctx, "acc-1"))

	_, found, err := c.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDetailsCache_TTLExpiry(t *testing.T) {
	c := setupTestCache(t, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "acc-1", testDetails()))

	_, found, err := c.Get(ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, found)

	time.Sleep(200 * time.Millisecond)

	_, found, err = c.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.False(t, found, "entry must expire after the TTL")
}
