package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestCache creates a miniredis server and a RedisCache on top of it
func setupTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client, ttl), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)
	ctx := context.Background()
	key := Key("The tenant shall pay rent.", "gemini/gemini-1.5-flash")

	require.NoError(t, c.Set(ctx, key, &Entry{Summary: "You must pay rent.", UsedModel: true, Outcome: "accepted", Chunks: 1}))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "You must pay rent.", got.Summary)
	assert.True(t, got.UsedModel)
	assert.Equal(t, "accepted", got.Outcome)
	assert.Equal(t, 1, got.Chunks)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)

	_, err := c.Get(context.Background(), Key("unknown", "none"))

	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_Expires(t *testing.T) {
	c, mr := setupTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", &Entry{Summary: "s"}))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_DefaultTTL(t *testing.T) {
	c, mr := setupTestCache(t, 0)
	require.NoError(t, c.Set(context.Background(), "k", &Entry{Summary: "s"}))

	assert.Equal(t, DefaultTTL, mr.TTL(summaryPrefix+"k"))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := setupTestCache(t, time.Hour)
	require.NoError(t, mr.Set(summaryPrefix+"bad", "{not json"))

	_, err := c.Get(context.Background(), "bad")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestKey(t *testing.T) {
	a := Key("same text", "gemini/gemini-1.5-flash")

	assert.Len(t, a, 64)
	assert.Equal(t, a, Key("same text", "gemini/gemini-1.5-flash"))
	assert.NotEqual(t, a, Key("same text", "none"))
	assert.NotEqual(t, a, Key("other text", "gemini/gemini-1.5-flash"))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
