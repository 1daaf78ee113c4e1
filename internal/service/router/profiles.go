package router

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/sandevgo/recall/internal/core"
)

const profileTTL = time.Hour

// CachedPlatform memoizes user lookups. Busy channels resolve the same few
// authors over and over, and profile APIs are rate limited.
type CachedPlatform struct {
	core.Platform
	cache *ristretto.Cache
}

func NewCachedPlatform(p core.Platform, size int64) (*CachedPlatform, error) {
	if size <= 0 {
		size = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
		// entries are counted, not sized
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile cache: %w", err)
	}
	return &CachedPlatform{Platform: p, cache: cache}, nil
}

func (c *CachedPlatform) ResolveUser(ctx context.Context, userID string) (core.UserProfile, error) {
	if v, ok := c.cache.Get(userID); ok {
		return v.(core.UserProfile), nil
	}
	profile, err := c.Platform.ResolveUser(ctx, userID)
	if err != nil {
		return core.UserProfile{}, err
	}
	c.cache.SetWithTTL(userID, profile, 1, profileTTL)
	return profile, nil
}

func (c *CachedPlatform) Close() {
	c.cache.Close()
}
