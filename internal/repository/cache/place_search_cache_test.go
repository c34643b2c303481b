package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/pkg/metrics"
	"github.com/itinerary-microservice/internal/repository/cache"
)

type mockPlaceSearch struct {
	mock.Mock
}

func (m *mockPlaceSearch) SearchNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.PlaceCandidate, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlaceCandidate), args.Error(1)
}

func (m *mockPlaceSearch) SearchText(ctx context.Context, q domain.TextQuery) ([]domain.PlaceCandidate, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlaceCandidate), args.Error(1)
}

func nearbyQuery() domain.NearbyQuery {
	return domain.NearbyQuery{
		Center:         domain.LatLng{Lat: 40.7128, Lng: -74.006},
		RadiusMeters:   1500,
		IncludedTypes:  []string{"restaurant", "cafe"},
		MaxResults:     20,
		RankPreference: domain.RankPopularity,
	}
}

func TestPlaceSearchCache_SearchNearby(t *testing.T) {
	ctx := context.Background()
	next := &mockPlaceSearch{}
	m := metrics.New()
	store := cache.NewMemoryRepository(time.Minute, time.Minute, zap.NewNop())
	repo := cache.NewPlaceSearchCache(next, store, time.Minute, m, zap.NewNop())

	rating := 4.4
	places := []domain.PlaceCandidate{{
		ID:       "p1",
		Name:     "Central Cafe",
		Location: &domain.LatLng{Lat: 40.7128, Lng: -74.006},
		Rating:   &rating,
		Types:    []string{"cafe"},
	}}
	next.On("SearchNearby", ctx, nearbyQuery()).Return(places, nil).Once()

	first, err := repo.SearchNearby(ctx, nearbyQuery())
	require.NoError(t, err)
	second, err := repo.SearchNearby(ctx, nearbyQuery())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.NotNil(t, second[0].Rating)
	assert.Equal(t, 4.4, *second[0].Rating)
	next.AssertNumberOfCalls(t, "SearchNearby", 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("places", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("places", "miss")))
}

func TestPlaceSearchCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := &mockPlaceSearch{}
	store := cache.NewMemoryRepository(time.Minute, time.Minute, zap.NewNop())
	repo := cache.NewPlaceSearchCache(next, store, time.Minute, nil, zap.NewNop())

	next.On("SearchNearby", ctx, nearbyQuery()).Return(nil, errors.New("quota exceeded")).Once()
	next.On("SearchNearby", ctx, nearbyQuery()).Return([]domain.PlaceCandidate{}, nil).Once()

	_, err := repo.SearchNearby(ctx, nearbyQuery())
	require.Error(t, err)

	result, err := repo.SearchNearby(ctx, nearbyQuery())
	require.NoError(t, err)
	assert.Empty(t, result)
	next.AssertNumberOfCalls(t, "SearchNearby", 2)
}

func TestPlaceSearchCache_SearchText(t *testing.T) {
	ctx := context.Background()
	next := &mockPlaceSearch{}
	store := cache.NewMemoryRepository(time.Minute, time.Minute, zap.NewNop())
	repo := cache.NewPlaceSearchCache(next, store, time.Minute, nil, zap.NewNop())

	query := domain.TextQuery{Query: "parks", Center: domain.LatLng{Lat: 1, Lng: 2}, RadiusMeters: 500, MaxResults: 10}
	next.On("SearchText", ctx, query).Return([]domain.PlaceCandidate{{Name: "Green Park"}}, nil).Once()

	for i := 0; i < 3; i++ {
		result, err := repo.SearchText(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, "Green Park", result[0].Name)
	}
	next.AssertNumberOfCalls(t, "SearchText", 1)
}

func TestCacheKeys(t *testing.T) {
	q := nearbyQuery()
	reordered := q
	reordered.IncludedTypes = []string{"cafe", "restaurant"}

	assert.Equal(t, cache.NearbyCacheKey(q), cache.NearbyCacheKey(reordered))
	assert.Equal(t, "places:nearby:40.71280:-74.00600:1500:cafe,restaurant:20:POPULARITY", cache.NearbyCacheKey(q))

	general := q
	general.IncludedTypes = nil
	assert.Contains(t, cache.NearbyCacheKey(general), ":all:")

	assert.Equal(t, cache.TextCacheKey(domain.TextQuery{Query: " Parks "}), cache.TextCacheKey(domain.TextQuery{Query: "parks"}))
}
