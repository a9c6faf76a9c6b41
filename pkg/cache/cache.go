// Package cache is a small JSON key/value cache with TTLs. Redis backs it in
// deployments; an in-process map stands in when redis is unreachable and in
// tests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// ErrMiss is returned by GetRaw when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the raw byte-level contract implemented by each driver.
type Store interface {
	GetRaw(ctx context.Context, key string) ([]byte, error)
	SetRaw(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Incr adds one to key and returns the new value. The TTL is applied
	// only when the key is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Get loads key into dest. It reports a hit only when the value decodes.
func Get(ctx context.Context, s Store, key string, dest interface{}) bool {
	raw, err := s.GetRaw(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logger.WithCtx(ctx).Warn("cache get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.Inc()
		return false
	}
	metrics.CacheHits.Inc()
	return true
}

// Set stores value as JSON under key.
func Set(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.SetRaw(ctx, key, data, ttl)
}

// Remember returns the cached value for key, or calls fn, caches its result
// and returns it. Errors from fn are returned and nothing is cached.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if Get(ctx, s, key, &cached) {
		return cached, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	if err := Set(ctx, s, key, v, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache set failed", "key", key, "error", err)
	}
	return v, nil
}
