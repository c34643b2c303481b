package repository

import (
	"context"

	"github.com/itinerary-microservice/internal/domain"
)

// PlaceSearchRepository - внешний провайдер поиска мест (Google Places API v1)
type PlaceSearchRepository interface {
	// SearchNearby ищет места в окружности, опционально по списку типов
	SearchNearby(ctx context.Context, query domain.NearbyQuery) ([]domain.PlaceCandidate, error)

	// SearchText - текстовый поиск со смещением к окружности
	SearchText(ctx context.Context, query domain.TextQuery) ([]domain.PlaceCandidate, error)
}
