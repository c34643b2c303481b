package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamItineraryGenerate = "stream:itinerary:generate"
	StreamItineraryDone     = "stream:itinerary:done"
)

// ItineraryGenerateEvent - входящее событие на асинхронную генерацию маршрута
type ItineraryGenerateEvent struct {
	RequestID   uuid.UUID         `json:"request_id"`
	FormData    ItineraryFormData `json:"form_data"`
	RequestedAt time.Time         `json:"requested_at"`
	Attempt     int               `json:"attempt,omitempty"`
}

// Validate проверяет обязательные поля события до запуска пайплайна
func (e *ItineraryGenerateEvent) Validate() error {
	if e.RequestID == uuid.Nil {
		return fmt.Errorf("request_id is required")
	}
	switch e.FormData.Region.Type {
	case RegionCircle, RegionPolygon:
	default:
		return fmt.Errorf("unknown region type %q", e.FormData.Region.Type)
	}
	switch e.FormData.TripType {
	case TripCustom, TripSurprise:
	default:
		return fmt.Errorf("unknown trip type %q", e.FormData.TripType)
	}
	return nil
}

// ItineraryDoneEvent - результат генерации для stream:itinerary:done
type ItineraryDoneEvent struct {
	RequestID   uuid.UUID        `json:"request_id"`
	Result      *ItineraryResult `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	CompletedAt time.Time        `json:"completed_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
