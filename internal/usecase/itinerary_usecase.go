package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/domain/repository"
	"github.com/itinerary-microservice/internal/pkg/errors"
	"github.com/itinerary-microservice/internal/pkg/geo"
	"github.com/itinerary-microservice/internal/pkg/metrics"
	"go.uber.org/zap"
)

const (
	itineraryCachePrefix = "itinerary:prompt:"
	historySaveTimeout   = 3 * time.Second
)

// ItineraryUseCase - пайплайн: PlaceProvider -> RegionFilter -> Deduplicator ->
// PromptBuilder -> генерация -> ItineraryParser
type ItineraryUseCase struct {
	provider     *PlaceProvider
	dedup        *Deduplicator
	prompts      *PromptBuilder
	generator    repository.GenerationRepository
	cacheRepo    repository.CacheRepository
	historyRepo  repository.HistoryRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
	itineraryTTL time.Duration
}

// NewItineraryUseCase создает новый экземпляр ItineraryUseCase.
// cacheRepo и historyRepo могут быть nil.
func NewItineraryUseCase(
	provider *PlaceProvider,
	dedup *Deduplicator,
	prompts *PromptBuilder,
	generator repository.GenerationRepository,
	cacheRepo repository.CacheRepository,
	historyRepo repository.HistoryRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	itineraryTTL time.Duration,
) *ItineraryUseCase {
	return &ItineraryUseCase{
		provider:     provider,
		dedup:        dedup,
		prompts:      prompts,
		generator:    generator,
		cacheRepo:    cacheRepo,
		historyRepo:  historyRepo,
		metrics:      m,
		logger:       logger,
		itineraryTTL: itineraryTTL,
	}
}

// Search строит маршрут для области и предпочтений пользователя.
//
// Отсутствие мест и неразобранный ответ генерации - не ошибки, а статусы
// no_places и raw_only. При сбое генерации возвращается результат со статусом
// failed вместе с ErrGenerationBackend.
func (uc *ItineraryUseCase) Search(ctx context.Context, form domain.ItineraryFormData) (*domain.ItineraryResult, error) {
	start := time.Now()

	form, err := normalizeForm(form)
	if err != nil {
		return nil, err
	}

	grouped, err := uc.collectPlaces(ctx, form.Region)
	if err != nil {
		return nil, err
	}

	result := &domain.ItineraryResult{
		ID:         uuid.New(),
		PlaceCount: grouped.Total(),
		Items:      []domain.ItineraryItem{},
	}

	// 1. Нет мест - генерацию не вызываем
	if grouped.Total() == 0 {
		uc.logger.Info("No places found in region",
			zap.String("region_type", string(form.Region.Type)))
		result.Status = domain.StatusNoPlaces
		result.Raw = domain.NoPlacesMessage
		result.Message = domain.NoPlacesMessage
		uc.finish(ctx, form, result, start)
		return result, nil
	}

	// 2. Промпт и генерация (с кешем по хэшу промпта)
	prompt := uc.prompts.BuildPrompt(grouped, form)
	text, cached, err := uc.generate(ctx, prompt)
	if err != nil {
		uc.logger.Error("Itinerary generation failed",
			zap.String("provider", uc.generator.Name()),
			zap.Int("places", grouped.Total()),
			zap.Error(err))
		result.Status = domain.StatusFailed
		result.Raw = domain.GenerationFailedMessage
		result.Message = domain.GenerationFailedMessage
		uc.finish(ctx, form, result, start)
		return result, errors.ErrGenerationBackend.Wrap(err)
	}

	// 3. Разбор ответа
	parsed := ParseItinerary(text)
	result.Title = parsed.Title
	result.Raw = parsed.Raw
	result.Items = parsed.Items
	result.Cached = cached
	if len(parsed.Items) == 0 {
		result.Status = domain.StatusRawOnly
		result.Message = domain.RawOnlyMessage
	} else {
		result.Status = domain.StatusOK
	}

	uc.finish(ctx, form, result, start)
	return result, nil
}

// SearchPlaces - только сбор мест: PlaceProvider -> RegionFilter -> Deduplicator
func (uc *ItineraryUseCase) SearchPlaces(ctx context.Context, region domain.Region) (domain.GroupedPlaces, error) {
	if err := geo.ValidateRegion(region); err != nil {
		return nil, err
	}
	return uc.collectPlaces(ctx, region)
}

func (uc *ItineraryUseCase) collectPlaces(ctx context.Context, region domain.Region) (domain.GroupedPlaces, error) {
	candidates, err := uc.provider.Fetch(ctx, region)
	if err != nil {
		return nil, err
	}

	inside, err := FilterToRegion(region, candidates)
	if err != nil {
		return nil, err
	}

	grouped := uc.dedup.Deduplicate(inside)

	uc.logger.Debug("Places collected",
		zap.Int("candidates", len(candidates)),
		zap.Int("inside_region", len(inside)),
		zap.Int("unique", grouped.Total()))

	return grouped, nil
}

func (uc *ItineraryUseCase) generate(ctx context.Context, prompt string) (string, bool, error) {
	key := PromptCacheKey(prompt)

	if uc.cacheRepo != nil {
		data, err := uc.cacheRepo.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("Failed to get itinerary from cache", zap.Error(err))
		} else if data != nil {
			uc.metrics.ObserveCache("itinerary", true)
			uc.logger.Debug("Itinerary served from cache", zap.String("key", key))
			return string(data), true, nil
		}
		uc.metrics.ObserveCache("itinerary", false)
	}

	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		uc.metrics.ObserveGeneration(uc.generator.Name(), metrics.OutcomeError)
		return "", false, err
	}
	uc.metrics.ObserveGeneration(uc.generator.Name(), metrics.OutcomeSuccess)

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.Set(ctx, key, []byte(text), uc.itineraryTTL); err != nil {
			uc.logger.Warn("Failed to cache itinerary", zap.Error(err))
		}
	}

	return text, false, nil
}

// finish - метрики и запись в историю; ошибка истории не влияет на результат
func (uc *ItineraryUseCase) finish(ctx context.Context, form domain.ItineraryFormData, result *domain.ItineraryResult, start time.Time) {
	result.Duration = time.Since(start)
	uc.metrics.ObserveSearch(string(result.Status), result.Duration, result.PlaceCount)

	uc.logger.Info("Itinerary search completed",
		zap.String("id", result.ID.String()),
		zap.String("status", string(result.Status)),
		zap.Int("places", result.PlaceCount),
		zap.Int("items", len(result.Items)),
		zap.Bool("cached", result.Cached),
		zap.Duration("duration", result.Duration))

	if uc.historyRepo == nil {
		return
	}

	center := form.Region.Center
	radius := form.Region.RadiusMeters
	if circle, err := geo.CoveringCircle(form.Region); err == nil {
		center = circle.Center
		radius = circle.RadiusMeters
	}

	record := &domain.SearchRecord{
		ID:           result.ID,
		RegionType:   form.Region.Type,
		CenterLat:    center.Lat,
		CenterLng:    center.Lng,
		RadiusMeters: radius,
		TripType:     form.TripType,
		Activities:   canonicalActivities(form.Activities),
		PlaceCount:   result.PlaceCount,
		ItemCount:    len(result.Items),
		Status:       result.Status,
		Provider:     uc.generator.Name(),
		DurationMs:   result.Duration.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}

	// запрос мог быть отменён, история всё равно пишется
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historySaveTimeout)
	defer cancel()

	if err := uc.historyRepo.Save(saveCtx, record); err != nil {
		uc.logger.Warn("Failed to save search history",
			zap.String("id", result.ID.String()),
			zap.Error(err))
	}
}

// PromptCacheKey - ключ кеша генерации; промпт детерминирован, поэтому хэш однозначен
func PromptCacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return itineraryCachePrefix + hex.EncodeToString(sum[:])
}

func normalizeForm(form domain.ItineraryFormData) (domain.ItineraryFormData, error) {
	if err := geo.ValidateRegion(form.Region); err != nil {
		return form, err
	}

	if !form.TimeRange.Start.Valid() || !form.TimeRange.End.Valid() {
		return form, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"time_range": "invalid clock time",
		})
	}

	switch form.TripType {
	case domain.TripCustom:
	case domain.TripSurprise:
		st, err := domain.ParseSurpriseType(string(form.SurpriseType))
		if err != nil {
			return form, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"surprise_type": err.Error(),
			})
		}
		form.SurpriseType = st
	default:
		return form, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"trip_type": fmt.Sprintf("unknown trip type %q", form.TripType),
		})
	}

	return form, nil
}
