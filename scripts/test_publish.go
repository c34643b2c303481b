//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/redis/go-redis/v9"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	lat := flag.Float64("lat", 40.7580, "center latitude")
	lng := flag.Float64("lng", -73.9855, "center longitude")
	radius := flag.Float64("radius", 1500, "radius in meters")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Тестовое событие (Times Square, surprise/popular)
	event := domain.ItineraryGenerateEvent{
		RequestID: uuid.New(),
		FormData: domain.ItineraryFormData{
			Region: domain.NewCircleRegion(domain.LatLng{Lat: *lat, Lng: *lng}, *radius),
			TimeRange: domain.TimeRange{
				Start: domain.ClockTime{Hour: 10},
				End:   domain.ClockTime{Hour: 18},
			},
			TripType:     domain.TripSurprise,
			SurpriseType: domain.SurprisePopular,
		},
		RequestedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamItineraryGenerate,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamItineraryGenerate)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("   Center: %.6f, %.6f (r=%.0fm)\n", *lat, *lng, *radius)

	fmt.Printf("\nWaiting for response in %s...\n", domain.StreamItineraryDone)

	timeout := time.After(90 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{domain.StreamItineraryDone, "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var done domain.ItineraryDoneEvent
					if err := json.Unmarshal([]byte(dataStr), &done); err != nil {
						continue
					}
					if done.RequestID != event.RequestID {
						continue
					}

					fmt.Printf("\nResponse received\n")
					pretty, _ := json.MarshalIndent(done, "", "  ")
					fmt.Printf("%s\n", pretty)
					return
				}
			}
		}
	}
}
