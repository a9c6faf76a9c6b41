package cache

import (
	"context"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Connect returns the redis driver, or the memory driver with a warning when
// redis cannot be reached.
func Connect(ctx context.Context) Store {
	rs, err := NewRedis(ctx)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "error", err)
		return NewMemory()
	}
	return rs
}
