package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itinerary-microservice/internal/domain"
	apperrors "github.com/itinerary-microservice/internal/pkg/errors"
	"github.com/itinerary-microservice/internal/pkg/metrics"
	"github.com/itinerary-microservice/internal/usecase"
)

type pipelineMocks struct {
	places    *MockPlaceSearchRepository
	generator *MockGenerationRepository
	cache     *MockCacheRepository
	history   *MockHistoryRepository
	metrics   *metrics.Metrics
}

func newPipeline(t *testing.T) (*usecase.ItineraryUseCase, *pipelineMocks) {
	t.Helper()
	logger := zap.NewNop()
	table := domain.DefaultCategoryTable()

	m := &pipelineMocks{
		places:    &MockPlaceSearchRepository{},
		generator: &MockGenerationRepository{},
		cache:     &MockCacheRepository{},
		history:   &MockHistoryRepository{},
		metrics:   metrics.New(),
	}

	uc := usecase.NewItineraryUseCase(
		usecase.NewPlaceProvider(m.places, table, placesConfig(), m.metrics, logger),
		usecase.NewDeduplicator(table),
		usecase.NewPromptBuilder(domain.DefaultActivityCategories()),
		m.generator,
		m.cache,
		m.history,
		m.metrics,
		logger,
		time.Hour,
	)
	return uc, m
}

// e2ePlaces - 8 мест: два дубликата по ID и одна пара похожих имён
func e2ePlaces() []domain.PlaceCandidate {
	rich := place("p5", "Central Cafe & Bakery", 40.7135, -74.0050, "cafe", "bakery", "food")
	rich.Rating = ptrFloat64(4.7)
	rich.ReviewCount = ptrInt(320)
	rich.Address = ptrString("12 Main St")
	rich.PhotoCount = 4

	return []domain.PlaceCandidate{
		place("p1", "Central Cafe", 40.7128, -74.0060, "cafe"),
		place("p1", "Central Cafe", 40.7128, -74.0060, "cafe"),
		place("p2", "City Museum", 40.7140, -74.0070, "museum"),
		place("p2", "City Museum", 40.7140, -74.0070, "museum"),
		place("p3", "Riverside Park", 40.7150, -74.0080, "park"),
		place("p4", "Main Street Shop", 40.7160, -74.0090, "clothing_store"),
		rich,
		place("p6", "Old Town Hall", 40.7170, -74.0100, "city_hall"),
	}
}

func circleForm() domain.ItineraryFormData {
	return domain.ItineraryFormData{
		Region: domain.NewCircleRegion(domain.LatLng{Lat: 40.7150, Lng: -74.0080}, 2000),
		TimeRange: domain.TimeRange{
			Start: domain.ClockTime{Hour: 9},
			End:   domain.ClockTime{Hour: 18},
		},
		TripType:     domain.TripSurprise,
		SurpriseType: domain.SurprisePopular,
	}
}

const generated = `## Your Adventure: Lower Manhattan Loop

### 3:00 PM - Riverside Park
Sunset walk.

### 9:00 AM - Central Cafe & Bakery
Breakfast.
`

func TestItineraryUseCase_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end with deduplication", func(t *testing.T) {
		uc, m := newPipeline(t)

		// все 8 мест приходят из общего запроса, категорийные пусты
		m.places.On("SearchNearby", mock.Anything, mock.MatchedBy(isGeneral)).Return(e2ePlaces(), nil)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).Return([]domain.PlaceCandidate{}, nil)

		var prompt string
		m.cache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(nil, nil)
		m.generator.On("Generate", mock.Anything, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { prompt = args.String(1) }).
			Return(generated, nil).Once()
		m.cache.On("Set", mock.Anything, mock.AnythingOfType("string"), []byte(generated), time.Hour).Return(nil)
		m.history.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.SearchRecord) bool {
			return r.Status == domain.StatusOK && r.PlaceCount == 5 && r.ItemCount == 2 && r.Provider == "mock"
		})).Return(nil)

		result, err := uc.Search(ctx, circleForm())
		require.NoError(t, err)

		assert.Equal(t, domain.StatusOK, result.Status)
		assert.Equal(t, 5, result.PlaceCount)
		assert.Equal(t, "Lower Manhattan Loop", result.Title)
		assert.False(t, result.Cached)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "9:00 AM", result.Items[0].DisplayTime)
		assert.Equal(t, "Riverside Park", result.Items[1].Location)

		assert.Contains(t, prompt, "AVAILABLE PLACES BY CATEGORY (5 total):")
		assert.Contains(t, prompt, "Central Cafe & Bakery — 4.7/5 (320 reviews) 12 Main St")
		assert.NotContains(t, prompt, "1. Central Cafe\n")

		m.generator.AssertExpectations(t)
		m.history.AssertExpectations(t)
		m.cache.AssertExpectations(t)
	})

	t.Run("no places short-circuits generation", func(t *testing.T) {
		uc, m := newPipeline(t)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).Return([]domain.PlaceCandidate{}, nil)
		m.places.On("SearchText", mock.Anything, mock.Anything).Return([]domain.PlaceCandidate{}, nil)
		m.history.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := uc.Search(ctx, circleForm())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoPlaces, result.Status)
		assert.Equal(t, domain.NoPlacesMessage, result.Raw)
		assert.Empty(t, result.Items)
		m.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("places outside region count as none", func(t *testing.T) {
		uc, m := newPipeline(t)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).
			Return([]domain.PlaceCandidate{place("far", "Far Away", 41.5, -74.0)}, nil)
		m.history.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := uc.Search(ctx, circleForm())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoPlaces, result.Status)
		m.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("generation failure", func(t *testing.T) {
		uc, m := newPipeline(t)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).Return(e2ePlaces(), nil)
		m.cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
		m.generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("503 overloaded"))
		m.history.On("Save", mock.Anything, mock.MatchedBy(func(r *domain.SearchRecord) bool {
			return r.Status == domain.StatusFailed
		})).Return(nil)

		result, err := uc.Search(ctx, circleForm())
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrGenerationBackend)
		require.NotNil(t, result)
		assert.Equal(t, domain.StatusFailed, result.Status)
		assert.Equal(t, domain.GenerationFailedMessage, result.Message)
		m.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.history.AssertExpectations(t)
	})

	t.Run("unstructured generation is raw only", func(t *testing.T) {
		uc, m := newPipeline(t)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).Return(e2ePlaces(), nil)
		m.cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
		m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		m.generator.On("Generate", mock.Anything, mock.Anything).Return("Enjoy the neighbourhood at your own pace.", nil)
		m.history.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := uc.Search(ctx, circleForm())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRawOnly, result.Status)
		assert.Equal(t, "Enjoy the neighbourhood at your own pace.", result.Raw)
		assert.Equal(t, domain.RawOnlyMessage, result.Message)
		assert.Empty(t, result.Items)
	})

	t.Run("cached generation", func(t *testing.T) {
		uc, m := newPipeline(t)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).Return(e2ePlaces(), nil)
		m.cache.On("Get", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "itinerary:prompt:")
		})).Return([]byte(generated), nil)
		m.history.On("Save", mock.Anything, mock.Anything).Return(nil)

		result, err := uc.Search(ctx, circleForm())
		require.NoError(t, err)
		assert.True(t, result.Cached)
		assert.Len(t, result.Items, 2)
		m.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("cache and history failures are ignored", func(t *testing.T) {
		uc, m := newPipeline(t)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).Return(e2ePlaces(), nil)
		m.cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
		m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
		m.generator.On("Generate", mock.Anything, mock.Anything).Return(generated, nil)
		m.history.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

		result, err := uc.Search(ctx, circleForm())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOK, result.Status)
	})

	t.Run("invalid geometry fails fast", func(t *testing.T) {
		uc, m := newPipeline(t)
		form := circleForm()
		form.Region = domain.NewPolygonRegion([]domain.LatLng{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}})

		result, err := uc.Search(ctx, form)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.ErrInvalidGeometry)
		m.places.AssertNotCalled(t, "SearchNearby", mock.Anything, mock.Anything)
		m.history.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown trip type", func(t *testing.T) {
		uc, _ := newPipeline(t)
		form := circleForm()
		form.TripType = "weekend"

		_, err := uc.Search(ctx, form)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("mainstream surprise type is popular", func(t *testing.T) {
		uc, m := newPipeline(t)
		m.places.On("SearchNearby", mock.Anything, mock.Anything).Return(e2ePlaces(), nil)
		m.cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
		m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		m.generator.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Surprise (popular attractions)")
		})).Return(generated, nil)
		m.history.On("Save", mock.Anything, mock.Anything).Return(nil)

		form := circleForm()
		form.SurpriseType = "mainstream"
		_, err := uc.Search(ctx, form)
		require.NoError(t, err)
		m.generator.AssertExpectations(t)
	})
}

func TestItineraryUseCase_NilOptionalRepos(t *testing.T) {
	logger := zap.NewNop()
	table := domain.DefaultCategoryTable()
	places := &MockPlaceSearchRepository{}
	generator := &MockGenerationRepository{}

	places.On("SearchNearby", mock.Anything, mock.Anything).Return(e2ePlaces(), nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return(generated, nil)

	uc := usecase.NewItineraryUseCase(
		usecase.NewPlaceProvider(places, table, placesConfig(), nil, logger),
		usecase.NewDeduplicator(table),
		usecase.NewPromptBuilder(nil),
		generator, nil, nil, nil, logger, time.Hour,
	)

	result, err := uc.Search(context.Background(), circleForm())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, result.Status)
}

func TestItineraryUseCase_SearchPlaces(t *testing.T) {
	uc, m := newPipeline(t)
	m.places.On("SearchNearby", mock.Anything, mock.Anything).Return(e2ePlaces(), nil)

	grouped, err := uc.SearchPlaces(context.Background(), circleForm().Region)
	require.NoError(t, err)
	assert.Equal(t, 5, grouped.Total())
	m.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestPromptCacheKey(t *testing.T) {
	a := usecase.PromptCacheKey("prompt one")
	b := usecase.PromptCacheKey("prompt one")
	c := usecase.PromptCacheKey("prompt two")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "itinerary:prompt:"))
	assert.Len(t, a, len("itinerary:prompt:")+64)
}
