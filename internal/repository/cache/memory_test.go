package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/repository/cache"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := cache.NewMemoryRepository(time.Minute, time.Minute, zap.NewNop())

	t.Run("miss returns nil without error", func(t *testing.T) {
		data, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("set and get", func(t *testing.T) {
		value := []byte("hello")
		require.NoError(t, repo.Set(ctx, "key", value, time.Minute))
		value[0] = 'j'

		data, err := repo.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)

		exists, err := repo.Exists(ctx, "key")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "gone", []byte("x"), 0))
		require.NoError(t, repo.Delete(ctx, "gone"))

		exists, err := repo.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("expiration", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "short", []byte("x"), 20*time.Millisecond))
		time.Sleep(40 * time.Millisecond)

		data, err := repo.Get(ctx, "short")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("stats roundtrip", func(t *testing.T) {
		stats, err := repo.GetStats(ctx)
		require.NoError(t, err)
		assert.Nil(t, stats)

		require.NoError(t, repo.SetStats(ctx, &domain.Statistics{
			TotalSearches: 4,
			ByStatus:      map[domain.ResultStatus]int{domain.StatusOK: 4},
		}, time.Minute))

		stats, err = repo.GetStats(ctx)
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, 4, stats.TotalSearches)
		assert.Equal(t, 4, stats.ByStatus[domain.StatusOK])
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.Get(cancelled, "key")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
