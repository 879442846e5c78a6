package data

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadscout/leadscout-backend/internal/market/biz"
	"github.com/leadscout/leadscout-backend/internal/market/types"
	"github.com/leadscout/leadscout-backend/internal/pkg/logger"
	"github.com/leadscout/leadscout-backend/internal/pkg/redis"
)

const defaultResearchTTL = 2 * time.Hour

// ResearchCacheRepo persists completed market research records in
// Redis so repeated (keyword, location) lookups skip the pipeline.
type ResearchCacheRepo struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
}

// NewResearchCacheRepo creates a Redis-backed research cache.
// A zero ttl falls back to two hours.
func NewResearchCacheRepo(client *redis.Client, prefix string, ttl time.Duration, log *logger.Logger) *ResearchCacheRepo {
	if prefix == "" {
		prefix = "leadscout:research"
	}
	if ttl <= 0 {
		ttl = defaultResearchTTL
	}
	return &ResearchCacheRepo{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey normalizes keyword and location so "Plumber Denver" and
// "plumber denver" share an entry.
func (r *ResearchCacheRepo) cacheKey(keyword, location string) string {
	k := strings.ToLower(strings.TrimSpace(keyword))
	l := strings.ToLower(strings.TrimSpace(location))
	return r.prefix + ":" + k + ":" + l
}

// Get returns the cached record or biz.ErrCacheMiss.
func (r *ResearchCacheRepo) Get(ctx context.Context, keyword, location string) (*types.LiveMarketData, error) {
	key := r.cacheKey(keyword, location)

	var record types.LiveMarketData
	err := r.client.GetJSON(ctx, key, &record)
	if redis.IsNotFound(err) {
		return nil, biz.ErrCacheMiss
	}
	if err != nil {
		r.log.Warn("research cache read failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	return &record, nil
}

// Set stores a completed record with the configured TTL.
func (r *ResearchCacheRepo) Set(ctx context.Context, keyword, location string, record *types.LiveMarketData) error {
	key := r.cacheKey(keyword, location)

	if err := r.client.SetJSON(ctx, key, record, r.ttl); err != nil {
		r.log.Warn("research cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}
