package handler

import (
	"context"

	"github.com/itinerary-microservice/internal/domain"
)

// ItinerarySearcher - пайплайн построения маршрута (usecase.ItineraryUseCase)
type ItinerarySearcher interface {
	Search(ctx context.Context, form domain.ItineraryFormData) (*domain.ItineraryResult, error)
}

// PlacesSearcher - сбор мест без генерации
type PlacesSearcher interface {
	SearchPlaces(ctx context.Context, region domain.Region) (domain.GroupedPlaces, error)
}

// StreamPublisher - публикация запросов на асинхронную генерацию
type StreamPublisher interface {
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// StatsProvider - статистика по истории поисков (usecase.StatsUseCase)
type StatsProvider interface {
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
	RecentSearches(ctx context.Context, limit int) ([]*domain.SearchRecord, error)
}

// HealthChecker - зависимость, состояние которой показывает /health
type HealthChecker interface {
	Health(ctx context.Context) error
}
