package rolestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/accesskit/pkg/authz"
	"github.com/dmitrymomot/accesskit/pkg/cache"
)

const (
	defaultProjectionTTL       = time.Minute
	defaultProjectionCacheSize = 1024
	defaultRedisKeyPrefix      = "authz:user:"
	redisScanBatchSize         = 100
)

// CachedProjections wraps a ProjectionSource with an in-process TTL-LRU
// cache. Entries expire after the configured TTL, so permission changes
// propagate within that window even without explicit invalidation.
//
// Returned projections are private copies; callers may not observe each
// other's mutations through the cache.
type CachedProjections struct {
	source ProjectionSource
	cache  *cache.LRUCache[string, *authz.User]
	ttl    time.Duration
}

// CacheOption configures CachedProjections.
type CacheOption func(*CachedProjections)

// WithCacheSize sets the maximum number of cached projections.
func WithCacheSize(size int) CacheOption {
	return func(c *CachedProjections) {
		if size > 0 {
			c.cache = cache.NewLRUCache[string, *authz.User](size)
		}
	}
}

// WithCacheTTL sets how long a projection stays valid in the cache.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *CachedProjections) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCachedProjections wraps source with an in-process projection cache.
func NewCachedProjections(source ProjectionSource, opts ...CacheOption) *CachedProjections {
	c := &CachedProjections{
		source: source,
		cache:  cache.NewLRUCache[string, *authz.User](defaultProjectionCacheSize),
		ttl:    defaultProjectionTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserProjection returns the cached projection or loads it from the
// source. Lookup failures are never cached.
func (c *CachedProjections) UserProjection(ctx context.Context, userID string) (*authz.User, error) {
	if user, ok := c.cache.Get(userID); ok {
		return cloneUser(user), nil
	}

	user, err := c.source.UserProjection(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.cache.PutTTL(userID, cloneUser(user), c.ttl)
	return user, nil
}

// Invalidate drops the cached projection for one user.
func (c *CachedProjections) Invalidate(userID string) {
	c.cache.Remove(userID)
}

// InvalidateAll drops every cached projection. Call it after role
// mutations, or wire it through WithMutationHook.
func (c *CachedProjections) InvalidateAll() {
	c.cache.Clear()
}

// RedisProjections wraps a ProjectionSource with a Redis-backed cache so
// multiple processes share one projection view. Cache faults degrade to
// the source: a broken Redis slows requests down but never fails them.
type RedisProjections struct {
	source    ProjectionSource
	client    redis.UniversalClient
	ttl       time.Duration
	keyPrefix string
	log       *slog.Logger
}

// RedisOption configures RedisProjections.
type RedisOption func(*RedisProjections)

// WithRedisTTL sets the expiry on cached projection keys.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *RedisProjections) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithRedisKeyPrefix sets the key namespace. Keys are prefix + user id.
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(r *RedisProjections) {
		if prefix != "" {
			r.keyPrefix = prefix
		}
	}
}

// WithRedisLogger sets the logger for cache fault reporting.
func WithRedisLogger(log *slog.Logger) RedisOption {
	return func(r *RedisProjections) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRedisProjections wraps source with a shared Redis projection cache.
func NewRedisProjections(source ProjectionSource, client redis.UniversalClient, opts ...RedisOption) *RedisProjections {
	r := &RedisProjections{
		source:    source,
		client:    client,
		ttl:       defaultProjectionTTL,
		keyPrefix: defaultRedisKeyPrefix,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UserProjection returns the cached projection or loads it from the
// source and stores it best-effort.
func (r *RedisProjections) UserProjection(ctx context.Context, userID string) (*authz.User, error) {
	key := r.key(userID)

	payload, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user authz.User
		if uerr := json.Unmarshal(payload, &user); uerr == nil {
			return &user, nil
		}
		r.log.WarnContext(ctx, "dropping undecodable cached projection", slog.String("key", key))
		r.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		r.log.WarnContext(ctx, "projection cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	user, err := r.source.UserProjection(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, merr := json.Marshal(user); merr == nil {
		if serr := r.client.Set(ctx, key, payload, r.ttl).Err(); serr != nil {
			r.log.WarnContext(ctx, "projection cache write failed", slog.String("key", key), slog.Any("error", serr))
		}
	}
	return user, nil
}

// Invalidate drops the cached projection for one user.
func (r *RedisProjections) Invalidate(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("rolestore: invalidate projection %s: %w", userID, err)
	}
	return nil
}

// InvalidateAll drops every cached projection under the key prefix using
// SCAN, so it does not block Redis on large keyspaces.
func (r *RedisProjections) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.keyPrefix+"*", redisScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("rolestore: scan projection keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("rolestore: delete projection keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *RedisProjections) key(userID string) string {
	return r.keyPrefix + userID
}
