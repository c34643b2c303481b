package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClockTime - время суток в 24-часовом формате; 12-часовой вид только при выводе
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime разбирает "H:MM" / "HH:MM" (24 часа)
func ParseClockTime(s string) (ClockTime, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	ct := ClockTime{Hour: hour, Minute: minute}
	if !ct.Valid() {
		return ClockTime{}, fmt.Errorf("clock time %q out of range", s)
	}
	return ct, nil
}

func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// Minutes - минуты от полуночи
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Format12h - "2:30 PM"; 0 часов -> 12 AM, 12 часов -> 12 PM
func (c ClockTime) Format12h() string {
	suffix := "AM"
	if c.Hour >= 12 {
		suffix = "PM"
	}
	hour := c.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute, suffix)
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(text []byte) error {
	ct, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

type TimeRange struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

type TripType string

const (
	TripCustom   TripType = "custom"
	TripSurprise TripType = "surprise"
)

type SurpriseType string

const (
	SurprisePopular SurpriseType = "popular"
	SurpriseNiche   SurpriseType = "niche"
)

// ParseSurpriseType - "mainstream" считается синонимом popular, пустая строка -> popular
func ParseSurpriseType(s string) (SurpriseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "popular", "mainstream":
		return SurprisePopular, nil
	case "niche":
		return SurpriseNiche, nil
	default:
		return "", fmt.Errorf("unknown surprise type %q", s)
	}
}

// UserPreferences - предпочтения из профиля пользователя (необязательные)
type UserPreferences struct {
	TravelStyle string `json:"travel_style,omitempty"`
	Interests   string `json:"interests,omitempty"`
	Pace        string `json:"pace,omitempty"`
}

// ItineraryFormData - входные данные пользователя для построения маршрута
type ItineraryFormData struct {
	Region         Region           `json:"region"`
	TimeRange      TimeRange        `json:"time_range"`
	TripType       TripType         `json:"trip_type"`
	SurpriseType   SurpriseType     `json:"surprise_type,omitempty"`
	Activities     []string         `json:"activities,omitempty"`
	CustomActivity string           `json:"custom_activity,omitempty"`
	Preferences    *UserPreferences `json:"preferences,omitempty"`
}

// ItineraryItem - одна остановка маршрута, извлечённая из ответа генерации
type ItineraryItem struct {
	Time         ClockTime `json:"time"`
	DisplayTime  string    `json:"display_time"`
	TimeUnparsed bool      `json:"time_unparsed,omitempty"`
	Location     string    `json:"location"`
	PlaceName    string    `json:"place_name"`
	MapsURL      string    `json:"maps_url"`
	Description  string    `json:"description"`
	Rating       *float64  `json:"rating,omitempty"`
	ReviewCount  *int      `json:"review_count,omitempty"`
}

// ParsedItinerary - результат разбора текста генерации; Raw сохраняется всегда
type ParsedItinerary struct {
	Title string          `json:"title,omitempty"`
	Raw   string          `json:"raw"`
	Items []ItineraryItem `json:"items"`
}

type ResultStatus string

const (
	StatusOK       ResultStatus = "ok"
	StatusRawOnly  ResultStatus = "raw_only"
	StatusNoPlaces ResultStatus = "no_places"
	StatusFailed   ResultStatus = "failed"
)

const (
	NoPlacesMessage         = "I couldn't find any interesting places in the selected area. Please try selecting a different area or expanding your current selection."
	GenerationFailedMessage = "Sorry, we could not generate an itinerary at this time. Please try again later."
	RawOnlyMessage          = "The itinerary could not be split into individual stops; showing the generated text instead."
)

// ItineraryResult - ответ search(region, formData)
type ItineraryResult struct {
	ID         uuid.UUID       `json:"id"`
	Status     ResultStatus    `json:"status"`
	Title      string          `json:"title,omitempty"`
	Raw        string          `json:"raw"`
	Items      []ItineraryItem `json:"items"`
	Message    string          `json:"message,omitempty"`
	PlaceCount int             `json:"place_count"`
	Cached     bool            `json:"cached"`
	Duration   time.Duration   `json:"-"`
}
