package handlers

import (
	"context"
	"log"
	"time"

	"realestate/internal/cache"
	"realestate/internal/media"
	"realestate/internal/store"
)

// Deps groups the collaborators handlers share.
type Deps struct {
	Stores        store.Stores
	Cache         cache.Cache
	CacheTTL      time.Duration
	Media         media.Storage
	Limits        ListLimits
	FeaturedLimit int64
}

// invalidate drops cached responses derived from property data.
func (d Deps) invalidate(ctx context.Context) {
	for _, prefix := range []string{cache.PrefixFeatured, cache.KeyUserStats} {
		if err := d.Cache.DeletePrefix(ctx, prefix); err != nil {
			log.Printf("[CACHE] [ERROR] invalidate %s failed: %v", prefix, err)
		}
	}
}
