package domain

// PlaceCandidate - нормализованная запись о месте от провайдера поиска.
// Формируется один раз на границе провайдера, дальше только читается.
type PlaceCandidate struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Location        *LatLng  `json:"location,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     *int     `json:"review_count,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Types           []string `json:"types,omitempty"`
	PhotoCount      int      `json:"photo_count"`
	HasOpeningHours bool     `json:"has_opening_hours"`
}

func (p PlaceCandidate) HasLocation() bool {
	return p.Location != nil
}

type CategoryBucket string

const (
	BucketDining      CategoryBucket = "dining"
	BucketAttractions CategoryBucket = "attractions"
	BucketOutdoor     CategoryBucket = "outdoor"
	BucketShopping    CategoryBucket = "shopping"
	BucketOther       CategoryBucket = "other"
)

// BucketOrder - фиксированный порядок категорий в промпте и ответах API
func BucketOrder() []CategoryBucket {
	return []CategoryBucket{BucketDining, BucketAttractions, BucketOutdoor, BucketShopping, BucketOther}
}

// GroupedPlaces - места без дубликатов, разложенные по категориям
type GroupedPlaces map[CategoryBucket][]PlaceCandidate

// Total - общее количество мест во всех категориях
func (g GroupedPlaces) Total() int {
	total := 0
	for _, places := range g {
		total += len(places)
	}
	return total
}

// Counts - количество мест по каждой категории (все категории присутствуют)
func (g GroupedPlaces) Counts() map[CategoryBucket]int {
	counts := make(map[CategoryBucket]int, len(BucketOrder()))
	for _, b := range BucketOrder() {
		counts[b] = len(g[b])
	}
	return counts
}

const RankPopularity = "POPULARITY"

// NearbyQuery - запрос поиска мест в окружности
type NearbyQuery struct {
	Center         LatLng
	RadiusMeters   float64
	IncludedTypes  []string
	MaxResults     int
	RankPreference string
}

// TextQuery - текстовый поиск со смещением к окружности
type TextQuery struct {
	Query        string
	Center       LatLng
	RadiusMeters float64
	MaxResults   int
}
