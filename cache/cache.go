package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/go-contact/contact"
	"github.com/vortex-fintech/go-contact/hash"
)

const (
	DefaultTTL       = 10 * time.Minute
	DefaultKeyPrefix = "contact:extract:v1:"
)

// ErrCorruptEntry is returned when a cached value cannot be decoded.
var ErrCorruptEntry = errors.New("cache: corrupt entry")

// Interface is the subset of the Redis API the cache needs.
type Interface interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisCache stores extraction results as JSON under a hash of the input.
// Raw text never reaches Redis.
type RedisCache struct {
	client Interface
	ttl    time.Duration
	prefix string
	scope  string
	secret []byte
}

type Option func(*RedisCache)

// WithTTL sets the entry lifetime; non-positive values keep DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(c *RedisCache) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithScope separates entries produced by differently configured extractors.
func WithScope(scope string) Option {
	return func(c *RedisCache) { c.scope = scope }
}

// WithSecret keys entry names with HMAC-SHA256, so holders of the Redis
// data cannot confirm a guessed input.
func WithSecret(secret []byte) Option {
	return func(c *RedisCache) { c.secret = append([]byte(nil), secret...) }
}

func New(client Interface, opts ...Option) *RedisCache {
	c := &RedisCache{client: client, ttl: DefaultTTL, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(text string) string {
	return c.prefix + hash.HMACStrings(c.secret, c.scope, text)
}

// Get returns the cached record for text. A miss is (Record{}, false, nil).
func (c *RedisCache) Get(ctx context.Context, text string) (contact.Record, bool, error) {
	raw, err := c.client.Get(ctx, c.key(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return contact.Record{}, false, nil
	}
	if err != nil {
		return contact.Record{}, false, fmt.Errorf("cache: get: %w", err)
	}

	var rec contact.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return contact.Record{}, false, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	return rec, true, nil
}

func (c *RedisCache) Set(ctx context.Context, text string, rec contact.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(text), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, text string) error {
	if err := c.client.Del(ctx, c.key(text)).Err(); err != nil {
		return fmt.Errorf("cache: delete: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
