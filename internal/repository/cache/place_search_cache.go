package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	"github.com/itinerary-microservice/internal/pkg/metrics"
	"go.uber.org/zap"
)

const placesCacheName = "places"

// placeSearchCache - кеширующая обёртка над провайдером поиска мест.
// Ошибки провайдера не кешируются, сбой кеша не мешает запросу.
type placeSearchCache struct {
	next    repository.PlaceSearchRepository
	cache   repository.CacheRepository
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewPlaceSearchCache оборачивает next кешем с заданным TTL
func NewPlaceSearchCache(
	next repository.PlaceSearchRepository,
	cache repository.CacheRepository,
	ttl time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) repository.PlaceSearchRepository {
	return &placeSearchCache{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

func (c *placeSearchCache) SearchNearby(ctx context.Context, query domain.NearbyQuery) ([]domain.PlaceCandidate, error) {
	key := NearbyCacheKey(query)
	return c.cached(ctx, key, func() ([]domain.PlaceCandidate, error) {
		return c.next.SearchNearby(ctx, query)
	})
}

func (c *placeSearchCache) SearchText(ctx context.Context, query domain.TextQuery) ([]domain.PlaceCandidate, error) {
	key := TextCacheKey(query)
	return c.cached(ctx, key, func() ([]domain.PlaceCandidate, error) {
		return c.next.SearchText(ctx, query)
	})
}

func (c *placeSearchCache) cached(ctx context.Context, key string, load func() ([]domain.PlaceCandidate, error)) ([]domain.PlaceCandidate, error) {
	data, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("Failed to get places from cache", zap.String("key", key), zap.Error(err))
	case data != nil:
		var places []domain.PlaceCandidate
		if err := json.Unmarshal(data, &places); err == nil {
			c.metrics.ObserveCache(placesCacheName, true)
			return places, nil
		}
		c.logger.Warn("Corrupted places cache entry", zap.String("key", key))
	}
	c.metrics.ObserveCache(placesCacheName, false)

	places, err := load()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(places); err == nil {
		if err := c.cache.Set(ctx, key, encoded, c.ttl); err != nil {
			c.logger.Warn("Failed to cache places", zap.String("key", key), zap.Error(err))
		}
	}
	return places, nil
}

// NearbyCacheKey - places:nearby:<lat>:<lng>:<radius>:<types>:<max>:<rank>
func NearbyCacheKey(q domain.NearbyQuery) string {
	return fmt.Sprintf("places:nearby:%.5f:%.5f:%.0f:%s:%d:%s",
		q.Center.Lat, q.Center.Lng, q.RadiusMeters, joinTypes(q.IncludedTypes), q.MaxResults, q.RankPreference)
}

// TextCacheKey - places:text:<query>:<lat>:<lng>:<radius>:<max>
func TextCacheKey(q domain.TextQuery) string {
	return fmt.Sprintf("places:text:%s:%.5f:%.5f:%.0f:%d",
		strings.ToLower(strings.TrimSpace(q.Query)), q.Center.Lat, q.Center.Lng, q.RadiusMeters, q.MaxResults)
}

func joinTypes(types []string) string {
	if len(types) == 0 {
		return "all"
	}
	sorted := append([]string(nil), types...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
