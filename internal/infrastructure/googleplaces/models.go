package googleplaces

import (
	"encoding/json"
	"strings"

	"github.com/itinerary-microservice/internal/domain"
)

// fieldMask - поля, которые запрашиваются у Places API
const fieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
	"places.rating,places.userRatingCount,places.types,places.photos,places.regularOpeningHours"

const unnamedPlace = "Unnamed Place"

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type area struct {
	Circle circle `json:"circle"`
}

type searchNearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes,omitempty"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction area     `json:"locationRestriction"`
	RankPreference      string   `json:"rankPreference,omitempty"`
}

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	LocationBias   area   `json:"locationBias"`
	MaxResultCount int    `json:"maxResultCount"`
}

type localizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type photo struct {
	Name string `json:"name"`
}

type place struct {
	ID                  string          `json:"id"`
	DisplayName         *localizedText  `json:"displayName"`
	FormattedAddress    string          `json:"formattedAddress"`
	Location            *latLng         `json:"location"`
	Rating              *float64        `json:"rating"`
	UserRatingCount     *int            `json:"userRatingCount"`
	Types               []string        `json:"types"`
	Photos              []photo         `json:"photos"`
	RegularOpeningHours json.RawMessage `json:"regularOpeningHours"`
}

type searchResponse struct {
	Places []place `json:"places"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// toCandidate - единственная точка нормализации ответа провайдера
func (p place) toCandidate() domain.PlaceCandidate {
	candidate := domain.PlaceCandidate{
		ID:          p.ID,
		Name:        unnamedPlace,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
		Types:       p.Types,
		PhotoCount:  len(p.Photos),
	}

	if p.DisplayName != nil && strings.TrimSpace(p.DisplayName.Text) != "" {
		candidate.Name = strings.TrimSpace(p.DisplayName.Text)
	}
	if p.Location != nil {
		candidate.Location = &domain.LatLng{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	if addr := strings.TrimSpace(p.FormattedAddress); addr != "" {
		candidate.Address = &addr
	}
	if len(p.RegularOpeningHours) > 0 && string(p.RegularOpeningHours) != "null" {
		candidate.HasOpeningHours = true
	}

	return candidate
}

func toCandidates(places []place) []domain.PlaceCandidate {
	result := make([]domain.PlaceCandidate, 0, len(places))
	for _, p := range places {
		result = append(result, p.toCandidate())
	}
	return result
}
