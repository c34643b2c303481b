package dto

import (
	"github.com/google/uuid"
	"github.com/itinerary-microservice/internal/domain"
)

// PlacesSearchResponse - места без дубликатов по категориям
type PlacesSearchResponse struct {
	Total  int                                     `json:"total"`
	Counts map[domain.CategoryBucket]int           `json:"counts"`
	Places map[domain.CategoryBucket][]PlaceOutput `json:"places"`
}

// PlaceOutput - место в ответе API
type PlaceOutput struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Location    *domain.LatLng `json:"location,omitempty"`
	Rating      *float64       `json:"rating,omitempty"`
	ReviewCount *int           `json:"review_count,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Types       []string       `json:"types,omitempty"`
}

// AsyncItineraryResponse - запрос принят в очередь генерации
type AsyncItineraryResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	Stream    string    `json:"stream"`
}

// ActivitiesResponse - каталог категорий активностей
type ActivitiesResponse struct {
	Categories []domain.ActivityCategory `json:"categories"`
}

// HealthResponse - состояние зависимостей сервиса
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewPlacesSearchResponse(grouped domain.GroupedPlaces) *PlacesSearchResponse {
	resp := &PlacesSearchResponse{
		Total:  grouped.Total(),
		Counts: grouped.Counts(),
		Places: make(map[domain.CategoryBucket][]PlaceOutput, len(domain.BucketOrder())),
	}
	for _, bucket := range domain.BucketOrder() {
		list := make([]PlaceOutput, 0, len(grouped[bucket]))
		for _, p := range grouped[bucket] {
			list = append(list, PlaceOutput{
				ID:          p.ID,
				Name:        p.Name,
				Location:    p.Location,
				Rating:      p.Rating,
				ReviewCount: p.ReviewCount,
				Address:     p.Address,
				Types:       p.Types,
			})
		}
		resp.Places[bucket] = list
	}
	return resp
}
