package repository

import (
	"context"

	"github.com/itinerary-microservice/internal/domain"
)

// HistoryRepository - журнал запусков пайплайна
type HistoryRepository interface {
	// Save сохраняет запись о поиске
	Save(ctx context.Context, record *domain.SearchRecord) error

	// ListRecent возвращает последние записи, новые первыми
	ListRecent(ctx context.Context, limit int) ([]*domain.SearchRecord, error)

	// GetStatistics агрегирует историю поисков
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
