package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// memoryRepository - кеш в памяти процесса (CACHE_DRIVER=memory)
type memoryRepository struct {
	store  *gocache.Cache
	logger *zap.Logger
}

// NewMemoryRepository - defaultTTL применяется, когда ttl в Set равен нулю
func NewMemoryRepository(defaultTTL, cleanupInterval time.Duration, logger *zap.Logger) repository.CacheRepository {
	return &memoryRepository{
		store:  gocache.New(defaultTTL, cleanupInterval),
		logger: logger,
	}
}

func (r *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	val, found := r.store.Get(key)
	if !found {
		return nil, nil
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("cache get error: unexpected value type %T", val)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return data, nil
}

func (r *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	// копия: вызывающий может переиспользовать срез
	stored := make([]byte, len(value))
	copy(stored, value)
	r.store.Set(key, stored, ttl)
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, key string) error {
	r.store.Delete(key)
	return nil
}

func (r *memoryRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, found := r.store.Get(key)
	return found, nil
}

func (r *memoryRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	data, err := r.Get(ctx, statsKey)
	if err != nil || data == nil {
		return nil, err
	}
	return decodeStats(data)
}

func (r *memoryRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return r.Set(ctx, statsKey, data, ttl)
}
