package googleplaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/itinerary-microservice/internal/config"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	"github.com/itinerary-microservice/internal/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	searchNearbyPath = "/places:searchNearby"
	searchTextPath   = "/places:searchText"

	// maxBodyDump - сколько байт тела ошибки попадает в лог
	maxBodyDump = 2048
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option - дополнительная настройка клиента
type Option func(*client)

// WithHTTPClient подменяет http.Client (используется в тестах)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// NewClient создает клиент Google Places API (v1)
func NewClient(cfg *config.PlacesConfig, logger *zap.Logger, opts ...Option) repository.PlaceSearchRepository {
	limit := rate.Inf
	if cfg.RateLimitPerSecond > 0 {
		limit = rate.Limit(cfg.RateLimitPerSecond)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	c := &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchNearby - places:searchNearby с locationRestriction по окружности
func (c *client) SearchNearby(ctx context.Context, query domain.NearbyQuery) ([]domain.PlaceCandidate, error) {
	body := searchNearbyRequest{
		IncludedTypes:  query.IncludedTypes,
		MaxResultCount: query.MaxResults,
		LocationRestriction: area{Circle: circle{
			Center: latLng{Latitude: query.Center.Lat, Longitude: query.Center.Lng},
			Radius: query.RadiusMeters,
		}},
		RankPreference: query.RankPreference,
	}

	var resp searchResponse
	if err := c.post(ctx, searchNearbyPath, body, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("Places nearby search successful",
		zap.Int("included_types", len(query.IncludedTypes)),
		zap.Float64("radius", query.RadiusMeters),
		zap.Int("places", len(resp.Places)))

	return toCandidates(resp.Places), nil
}

// SearchText - places:searchText с locationBias по окружности
func (c *client) SearchText(ctx context.Context, query domain.TextQuery) ([]domain.PlaceCandidate, error) {
	if strings.TrimSpace(query.Query) == "" {
		return nil, fmt.Errorf("text query cannot be empty")
	}

	body := searchTextRequest{
		TextQuery: query.Query,
		LocationBias: area{Circle: circle{
			Center: latLng{Latitude: query.Center.Lat, Longitude: query.Center.Lng},
			Radius: query.RadiusMeters,
		}},
		MaxResultCount: query.MaxResults,
	}

	var resp searchResponse
	if err := c.post(ctx, searchTextPath, body, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("Places text search successful",
		zap.String("query", query.Query),
		zap.Int("places", len(resp.Places)))

	return toCandidates(resp.Places), nil
}

func (c *client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyDump))
		c.logger.Error("Places API returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))

		message := string(body)
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		return errors.ErrPlacesProvider.
			WithDetails(map[string]interface{}{"status_code": resp.StatusCode, "path": path}).
			Wrap(fmt.Errorf("places API error: status %d: %s", resp.StatusCode, message))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
