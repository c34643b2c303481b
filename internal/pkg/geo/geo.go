package geo

import (
	"math"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/pkg/errors"
)

const (
	// EarthRadiusMeters - средний радиус Земли для haversine
	EarthRadiusMeters = 6371000.0

	// boundingInflation - запас радиуса описанной окружности многоугольника
	boundingInflation = 1.1

	// edgeEpsilon - допуск при проверке попадания точки на ребро (в градусах^2)
	edgeEpsilon = 1e-12
)

// DistanceMeters - расстояние по большому кругу (haversine) в метрах
func DistanceMeters(a, b domain.LatLng) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180.0
	dLng := (b.Lng - a.Lng) * math.Pi / 180.0

	lat1Rad := a.Lat * math.Pi / 180.0
	lat2Rad := b.Lat * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// BoundingCircle - окружность, покрывающая многоугольник.
// Центр - середина bbox (не центроид), радиус - максимум до вершины x1.1.
func BoundingCircle(vertices []domain.LatLng) (domain.Circle, error) {
	if err := validateVertices(vertices); err != nil {
		return domain.Circle{}, err
	}

	minLat, maxLat := vertices[0].Lat, vertices[0].Lat
	minLng, maxLng := vertices[0].Lng, vertices[0].Lng
	for _, v := range vertices[1:] {
		minLat = math.Min(minLat, v.Lat)
		maxLat = math.Max(maxLat, v.Lat)
		minLng = math.Min(minLng, v.Lng)
		maxLng = math.Max(maxLng, v.Lng)
	}

	center := domain.LatLng{
		Lat: (minLat + maxLat) / 2,
		Lng: (minLng + maxLng) / 2,
	}

	maxDistance := 0.0
	for _, v := range vertices {
		maxDistance = math.Max(maxDistance, DistanceMeters(center, v))
	}

	return domain.Circle{
		Center:       center,
		RadiusMeters: maxDistance * boundingInflation,
	}, nil
}

// PointInPolygon - ray casting по правилу чёт-нечет.
// Точки на ребре или в вершине считаются внутренними; это проверяется
// отдельно до ray casting, поэтому результат не зависит от порядка вершин.
func PointInPolygon(p domain.LatLng, vertices []domain.LatLng) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if onSegment(p, vertices[j], vertices[i]) {
			return true
		}
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Lat > p.Lat) != (vj.Lat > p.Lat) {
			x := (vj.Lng-vi.Lng)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lng
			if p.Lng < x {
				inside = !inside
			}
		}
	}
	return inside
}

// PointInRegion - круг: distance(center, p) <= radius; многоугольник: PointInPolygon
func PointInRegion(p domain.LatLng, region domain.Region) (bool, error) {
	if err := ValidateRegion(region); err != nil {
		return false, err
	}

	if region.Type == domain.RegionCircle {
		return DistanceMeters(region.Center, p) <= region.RadiusMeters, nil
	}
	return PointInPolygon(p, region.Vertices), nil
}

// CoveringCircle - окружность для запроса к провайдеру: сам круг или BoundingCircle многоугольника
func CoveringCircle(region domain.Region) (domain.Circle, error) {
	if err := ValidateRegion(region); err != nil {
		return domain.Circle{}, err
	}

	if region.Type == domain.RegionCircle {
		return domain.Circle{Center: region.Center, RadiusMeters: region.RadiusMeters}, nil
	}
	return BoundingCircle(region.Vertices)
}

// ValidateRegion возвращает ErrInvalidGeometry для вырожденной геометрии
func ValidateRegion(region domain.Region) error {
	switch region.Type {
	case domain.RegionCircle:
		if !region.Center.Valid() {
			return errors.ErrInvalidGeometry.WithDetails(map[string]interface{}{
				"reason": "center coordinates out of range",
			})
		}
		if !(region.RadiusMeters > 0) || math.IsInf(region.RadiusMeters, 0) {
			return errors.ErrInvalidGeometry.WithDetails(map[string]interface{}{
				"reason":        "radius must be positive",
				"radius_meters": region.RadiusMeters,
			})
		}
		return nil
	case domain.RegionPolygon:
		return validateVertices(region.Vertices)
	default:
		return errors.ErrInvalidGeometry.WithDetails(map[string]interface{}{
			"reason": "unknown region type",
			"type":   string(region.Type),
		})
	}
}

func validateVertices(vertices []domain.LatLng) error {
	if len(vertices) < 3 {
		return errors.ErrInvalidGeometry.WithDetails(map[string]interface{}{
			"reason":   "polygon needs at least 3 vertices",
			"vertices": len(vertices),
		})
	}
	for i, v := range vertices {
		if !v.Valid() {
			return errors.ErrInvalidGeometry.WithDetails(map[string]interface{}{
				"reason": "vertex coordinates out of range",
				"index":  i,
			})
		}
	}
	return nil
}

// onSegment - p лежит на отрезке ab (коллинеарность + попадание в bbox отрезка)
func onSegment(p, a, b domain.LatLng) bool {
	cross := (b.Lng-a.Lng)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lng-a.Lng)
	if math.Abs(cross) > edgeEpsilon {
		return false
	}
	return p.Lng >= math.Min(a.Lng, b.Lng) && p.Lng <= math.Max(a.Lng, b.Lng) &&
		p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat)
}
