package usecase

import (
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/pkg/geo"
)

// FilterToRegion оставляет кандидатов, лежащих внутри самой области (а не
// окружности запроса). Кандидаты без координат отбрасываются.
func FilterToRegion(region domain.Region, places []domain.PlaceCandidate) ([]domain.PlaceCandidate, error) {
	if err := geo.ValidateRegion(region); err != nil {
		return nil, err
	}

	result := make([]domain.PlaceCandidate, 0, len(places))
	for _, place := range places {
		if !place.HasLocation() {
			continue
		}
		inside, err := geo.PointInRegion(*place.Location, region)
		if err != nil {
			return nil, err
		}
		if inside {
			result = append(result, place)
		}
	}
	return result, nil
}
