package yahoo

import (
	"context"
	"time"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/logger"
)

// Cache is the slice of pkg/redis the client needs. Accepting the interface
// keeps tests off a live Redis.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Series older than this are not worth serving even as a fallback.
const cacheTTL = 72 * time.Hour

// cacheStore is a nil-safe wrapper: every method is a no-op without a cache,
// and cache failures are logged, never surfaced.
type cacheStore struct {
	cache  Cache
	logger *logger.Logger
}

func newCacheStore(cache Cache, log *logger.Logger) *cacheStore {
	return &cacheStore{cache: cache, logger: log}
}

func (s *cacheStore) get(ctx context.Context, symbol string) (contracts.PriceSeries, bool) {
	if s.cache == nil {
		return nil, false
	}
	var series contracts.PriceSeries
	hit, err := s.cache.Get(ctx, symbol, &series)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Price cache read failed")
		return nil, false
	}
	return series, hit && len(series) > 0
}

func (s *cacheStore) put(ctx context.Context, symbol string, series contracts.PriceSeries) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, symbol, series, cacheTTL); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Price cache write failed")
	}
}
