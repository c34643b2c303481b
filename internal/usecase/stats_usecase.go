package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

const defaultRecentLimit = 20

// StatsUseCase обрабатывает бизнес-логику для статистики поисков
type StatsUseCase struct {
	historyRepo repository.HistoryRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	statsTTL    time.Duration
}

// NewStatsUseCase создает новый экземпляр StatsUseCase
func NewStatsUseCase(
	historyRepo repository.HistoryRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	statsTTL time.Duration,
) *StatsUseCase {
	return &StatsUseCase{
		historyRepo: historyRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		statsTTL:    statsTTL,
	}
}

// GetStatistics возвращает статистику, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	// 1. Проверяем кеш
	cached, err := uc.cacheRepo.GetStats(ctx)
	if err == nil && cached != nil {
		uc.logger.Debug("Statistics fetched from cache")
		return cached, nil
	}

	if err != nil {
		uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
	}

	// 2. Агрегируем историю
	uc.logger.Debug("Aggregating statistics from search history")
	stats, err := uc.historyRepo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("get statistics from history: %w", err)
	}

	// 3. Кешируем
	if err := uc.cacheRepo.SetStats(ctx, stats, uc.statsTTL); err != nil {
		uc.logger.Warn("Failed to cache stats", zap.Error(err))
		// Не возвращаем ошибку, т.к. данные уже получены
	} else {
		uc.logger.Debug("Statistics cached successfully")
	}

	return stats, nil
}

// RefreshStatistics принудительно пересчитывает статистику
func (uc *StatsUseCase) RefreshStatistics(ctx context.Context) (*domain.Statistics, error) {
	uc.logger.Info("Refreshing statistics")

	stats, err := uc.historyRepo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh statistics: %w", err)
	}

	if err := uc.cacheRepo.SetStats(ctx, stats, uc.statsTTL); err != nil {
		uc.logger.Warn("Failed to cache refreshed stats", zap.Error(err))
	}

	uc.logger.Info("Statistics refreshed successfully",
		zap.Int("total_searches", stats.TotalSearches))
	return stats, nil
}

// RecentSearches - последние поиски, новые первыми
func (uc *StatsUseCase) RecentSearches(ctx context.Context, limit int) ([]*domain.SearchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultRecentLimit
	}

	records, err := uc.historyRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}
	return records, nil
}
