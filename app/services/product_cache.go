package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
)

// productsGenerationKey counts catalog writes. The POS listing is cached
// under a key that embeds the current count, so a listing read before a
// write can only ever be stored under a key nobody reads any more.
const productsGenerationKey = "products:generation"

// productsKey returns the listing key for the current generation.
func productsKey(ctx context.Context, store cache.Store) string {
	var gen int64
	store.Get(ctx, productsGenerationKey, &gen)
	return fmt.Sprintf("products:all:%d", gen)
}

// forgetProducts retires the cached listing after any catalog write. A cache
// failure is logged and otherwise ignored; the entry expires on its own.
func forgetProducts(ctx context.Context, store cache.Store) {
	if store == nil {
		return
	}
	if _, err := store.Incr(ctx, productsGenerationKey); err != nil {
		logger.WithCtx(ctx).Warn("cache: invalidate product listing", "error", err)
	}
}
