package dto

import (
	"github.com/itinerary-microservice/internal/domain"
)

// LatLngInput - координаты точки
type LatLngInput struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// RegionInput - область поиска: circle (center + radius_meters) или polygon (vertices)
type RegionInput struct {
	Type         string        `json:"type" validate:"required,oneof=circle polygon"`
	Center       *LatLngInput  `json:"center" validate:"required_if=Type circle,omitempty"`
	RadiusMeters float64       `json:"radius_meters" validate:"required_if=Type circle,omitempty,gt=0"`
	Vertices     []LatLngInput `json:"vertices" validate:"required_if=Type polygon,omitempty,min=3,max=500,dive"`
}

// TimeRangeInput - время в 24-часовом формате "HH:MM"
type TimeRangeInput struct {
	Start string `json:"start" validate:"required,clocktime"`
	End   string `json:"end" validate:"required,clocktime"`
}

// PreferencesInput - предпочтения из профиля пользователя
type PreferencesInput struct {
	TravelStyle string `json:"travel_style" validate:"max=200"`
	Interests   string `json:"interests" validate:"max=500"`
	Pace        string `json:"pace" validate:"max=100"`
}

// ItineraryRequest - запрос на построение маршрута
type ItineraryRequest struct {
	Region         RegionInput       `json:"region" validate:"required"`
	TimeRange      TimeRangeInput    `json:"time_range" validate:"required"`
	TripType       string            `json:"trip_type" validate:"required,oneof=custom surprise"`
	SurpriseType   string            `json:"surprise_type" validate:"omitempty,oneof=popular niche mainstream"`
	Activities     []string          `json:"activities" validate:"omitempty,max=50,dive,min=1,max=100"`
	CustomActivity string            `json:"custom_activity" validate:"max=500"`
	Preferences    *PreferencesInput `json:"preferences" validate:"omitempty"`
}

// PlacesSearchRequest - запрос на сбор мест без генерации маршрута
type PlacesSearchRequest struct {
	Region RegionInput `json:"region" validate:"required"`
}

// ToDomain переводит область в доменный тип
func (r RegionInput) ToDomain() domain.Region {
	if r.Type == string(domain.RegionPolygon) {
		vertices := make([]domain.LatLng, len(r.Vertices))
		for i, v := range r.Vertices {
			vertices[i] = domain.LatLng{Lat: v.Lat, Lng: v.Lng}
		}
		return domain.NewPolygonRegion(vertices)
	}

	var center domain.LatLng
	if r.Center != nil {
		center = domain.LatLng{Lat: r.Center.Lat, Lng: r.Center.Lng}
	}
	return domain.NewCircleRegion(center, r.RadiusMeters)
}

// ToFormData - запрос уже провалидирован: время в формате clocktime
func (r ItineraryRequest) ToFormData() (domain.ItineraryFormData, error) {
	start, err := domain.ParseClockTime(r.TimeRange.Start)
	if err != nil {
		return domain.ItineraryFormData{}, err
	}
	end, err := domain.ParseClockTime(r.TimeRange.End)
	if err != nil {
		return domain.ItineraryFormData{}, err
	}

	form := domain.ItineraryFormData{
		Region:         r.Region.ToDomain(),
		TimeRange:      domain.TimeRange{Start: start, End: end},
		TripType:       domain.TripType(r.TripType),
		Activities:     r.Activities,
		CustomActivity: r.CustomActivity,
	}

	if form.TripType == domain.TripSurprise {
		st, err := domain.ParseSurpriseType(r.SurpriseType)
		if err != nil {
			return domain.ItineraryFormData{}, err
		}
		form.SurpriseType = st
	}

	if r.Preferences != nil {
		form.Preferences = &domain.UserPreferences{
			TravelStyle: r.Preferences.TravelStyle,
			Interests:   r.Preferences.Interests,
			Pace:        r.Preferences.Pace,
		}
	}

	return form, nil
}
