// Package cache stores finished summaries so identical documents are not
// summarized twice.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const (
	summaryPrefix = "clario:summary:"

	// DefaultTTL applies when a cache is created with a non-positive TTL.
	DefaultTTL = 24 * time.Hour
)

// ErrMiss is returned by Get when no entry exists for the key.
var ErrMiss = errors.New("cache miss")

// Entry is a cached summary.
type Entry struct {
	Summary   string    `json:"summary"`
	UsedModel bool      `json:"used_model"`
	Outcome   string    `json:"outcome"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryCache is implemented by RedisCache.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
}

// Key fingerprints text for the given generator. The generator name is part
// of the key, so a summary produced with a model is never served by a process
// running another backend or none at all.
func Key(text, generator string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(generator))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// RedisCache implements SummaryCache on Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SummaryCache = (*RedisCache)(nil)

// NewRedisCache creates a Redis-backed summary cache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Get retrieves a summary by key
func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := c.client.Get(ctx, summaryPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return &entry, nil
}

// Set stores a summary under key for the cache TTL
func (c *RedisCache) Set(ctx context.Context, key string, entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.client.Set(ctx, summaryPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}
