package domain

// LatLng - географическая точка в градусах
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid проверяет диапазоны [-90,90] / [-180,180]
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

type RegionType string

const (
	RegionCircle  RegionType = "circle"
	RegionPolygon RegionType = "polygon"
)

// Region - нарисованная пользователем область: круг или многоугольник.
// Для circle используются Center и RadiusMeters, для polygon - Vertices.
type Region struct {
	Type         RegionType `json:"type"`
	Center       LatLng     `json:"center"`
	RadiusMeters float64    `json:"radius_meters,omitempty"`
	Vertices     []LatLng   `json:"vertices,omitempty"`
}

// Circle - окружность поиска (центр + радиус в метрах)
type Circle struct {
	Center       LatLng  `json:"center"`
	RadiusMeters float64 `json:"radius_meters"`
}

func NewCircleRegion(center LatLng, radiusMeters float64) Region {
	return Region{
		Type:         RegionCircle,
		Center:       center,
		RadiusMeters: radiusMeters,
	}
}

// NewPolygonRegion копирует вершины, чтобы регион не зависел от слайса вызывающего
func NewPolygonRegion(vertices []LatLng) Region {
	cp := make([]LatLng, len(vertices))
	copy(cp, vertices)
	return Region{
		Type:     RegionPolygon,
		Vertices: cp,
	}
}
