package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItineraryGenerateEvent_Validate(t *testing.T) {
	valid := ItineraryGenerateEvent{
		RequestID: uuid.New(),
		FormData: ItineraryFormData{
			Region:   NewCircleRegion(LatLng{Lat: 38.9, Lng: -77.03}, 2000),
			TripType: TripSurprise,
		},
	}

	tests := []struct {
		name    string
		mutate  func(e *ItineraryGenerateEvent)
		wantErr string
	}{
		{
			name:   "valid event",
			mutate: func(e *ItineraryGenerateEvent) {},
		},
		{
			name:    "missing request id",
			mutate:  func(e *ItineraryGenerateEvent) { e.RequestID = uuid.Nil },
			wantErr: "request_id",
		},
		{
			name:    "unknown region type",
			mutate:  func(e *ItineraryGenerateEvent) { e.FormData.Region.Type = "square" },
			wantErr: "region type",
		},
		{
			name:    "unknown trip type",
			mutate:  func(e *ItineraryGenerateEvent) { e.FormData.TripType = "cruise" },
			wantErr: "trip type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestItineraryGenerateEvent_JSONCarriesClockTimes(t *testing.T) {
	event := ItineraryGenerateEvent{
		RequestID: uuid.New(),
		FormData: ItineraryFormData{
			Region:    NewCircleRegion(LatLng{Lat: 1, Lng: 2}, 500),
			TimeRange: TimeRange{Start: ClockTime{Hour: 9}, End: ClockTime{Hour: 17, Minute: 30}},
			TripType:  TripCustom,
		},
		RequestedAt: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start":"09:00"`)
	assert.Contains(t, string(data), `"end":"17:30"`)

	var decoded ItineraryGenerateEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.FormData.TimeRange, decoded.FormData.TimeRange)
}
