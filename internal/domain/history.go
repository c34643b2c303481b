package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchRecord - запись истории одного запуска пайплайна
type SearchRecord struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	RegionType   RegionType   `json:"region_type" db:"region_type"`
	CenterLat    float64      `json:"center_lat" db:"center_lat"`
	CenterLng    float64      `json:"center_lng" db:"center_lng"`
	RadiusMeters float64      `json:"radius_meters" db:"radius_meters"`
	TripType     TripType     `json:"trip_type" db:"trip_type"`
	Activities   []string     `json:"activities" db:"activities"`
	PlaceCount   int          `json:"place_count" db:"place_count"`
	ItemCount    int          `json:"item_count" db:"item_count"`
	Status       ResultStatus `json:"status" db:"status"`
	Provider     string       `json:"provider" db:"provider"`
	DurationMs   int64        `json:"duration_ms" db:"duration_ms"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Statistics - агрегированная статистика по истории поисков
type Statistics struct {
	TotalSearches int                  `json:"total_searches"`
	ByStatus      map[ResultStatus]int `json:"by_status"`
	ByRegionType  map[RegionType]int   `json:"by_region_type"`
	ByTripType    map[TripType]int     `json:"by_trip_type"`
	AvgPlaces     float64              `json:"avg_places"`
	AvgItems      float64              `json:"avg_items"`
	AvgDurationMs float64              `json:"avg_duration_ms"`
	LastSearchAt  *time.Time           `json:"last_search_at,omitempty"`
	LastUpdated   time.Time            `json:"last_updated"`
}
