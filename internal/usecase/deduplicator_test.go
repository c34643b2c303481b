package usecase_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/usecase"
)

func names(places []domain.PlaceCandidate) []string {
	result := make([]string, 0, len(places))
	for _, p := range places {
		result = append(result, p.Name)
	}
	return result
}

func TestDedupeByIdentity(t *testing.T) {
	places := []domain.PlaceCandidate{
		place("p1", "First", 1, 1),
		place("p1", "First copy", 2, 2),
		place("", "No id", 3, 3),
		place("", "No id same coords", 3, 3),
		place("p2", "Second", 3, 3),
	}

	result := usecase.DedupeByIdentity(places)
	assert.Equal(t, []string{"First", "No id", "Second"}, names(result))
}

func TestDedupeByCoordinates(t *testing.T) {
	places := []domain.PlaceCandidate{
		place("a", "A", 40.712801, -74.006001),
		place("b", "B", 40.712804, -74.006004), // совпадает после округления
		place("c", "C", 40.71290, -74.00600),
		{ID: "d", Name: "No location"},
		{ID: "e", Name: "No location either"},
	}

	result := usecase.DedupeByCoordinates(places)
	assert.Equal(t, []string{"A", "C", "No location", "No location either"}, names(result))
}

func TestDedupeByName(t *testing.T) {
	t.Run("richer record wins even if accepted later", func(t *testing.T) {
		poor := place("1", "Central Cafe", 1, 1)
		rich := place("2", "Central Cafe & Bakery", 2, 2, "cafe", "bakery")
		rich.Rating = ptrFloat64(4.6)
		rich.Address = ptrString("1 Main St")

		result := usecase.DedupeByName([]domain.PlaceCandidate{poor, place("3", "Harbor", 3, 3), rich})
		assert.Equal(t, []string{"Central Cafe & Bakery", "Harbor"}, names(result))
	})

	t.Run("tie keeps the earlier one", func(t *testing.T) {
		result := usecase.DedupeByName([]domain.PlaceCandidate{
			place("1", "The Museum", 1, 1),
			place("2", "the museum!", 2, 2),
		})
		assert.Equal(t, []string{"The Museum"}, names(result))
	})

	t.Run("short names pass through", func(t *testing.T) {
		result := usecase.DedupeByName([]domain.PlaceCandidate{
			place("1", "Bar", 1, 1),
			place("2", "Bar", 2, 2),
			place("3", "Barcelona Tapas", 3, 3),
		})
		assert.Len(t, result, 3)
	})

	t.Run("unrelated names are kept", func(t *testing.T) {
		result := usecase.DedupeByName([]domain.PlaceCandidate{
			place("1", "Riverside Park", 1, 1),
			place("2", "City Library", 2, 2),
		})
		assert.Len(t, result, 2)
	})

	t.Run("winner replaces every matching loser", func(t *testing.T) {
		rich := place("3", "Grand Central Market Hall", 3, 3, "market", "food", "store")
		rich.Rating = ptrFloat64(4.8)

		result := usecase.DedupeByName([]domain.PlaceCandidate{
			place("1", "Central Market", 1, 1),
			place("2", "Market Hall", 2, 2),
			rich,
		})
		assert.Equal(t, []string{"Grand Central Market Hall"}, names(result))
	})
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "central cafe bakery", usecase.NormalizeName("  Central Cafe & Bakery "))
	assert.Equal(t, "café münchen", usecase.NormalizeName("Café  München!"))
	assert.Equal(t, "joes diner", usecase.NormalizeName("Joe's   Diner"))
	assert.Equal(t, "", usecase.NormalizeName("!!!"))
}

func TestInformationScore(t *testing.T) {
	assert.Equal(t, 0.0, usecase.InformationScore(domain.PlaceCandidate{Name: "Empty"}))

	full := domain.PlaceCandidate{
		Name:            "Full",
		Rating:          ptrFloat64(4.2),
		ReviewCount:     ptrInt(250),
		Address:         ptrString("1 Main St"),
		PhotoCount:      3,
		HasOpeningHours: true,
		Types:           []string{"a", "b", "c", "d"},
	}
	// 2 + 2.5 + 1 + 3 + 1 + 3
	assert.InDelta(t, 12.5, usecase.InformationScore(full), 1e-9)

	manyReviews := domain.PlaceCandidate{ReviewCount: ptrInt(10000)}
	assert.InDelta(t, 5.0, usecase.InformationScore(manyReviews), 1e-9)
}

func TestDeduplicator_Deduplicate(t *testing.T) {
	dedup := usecase.NewDeduplicator(domain.DefaultCategoryTable())

	rich := place("p5", "Central Cafe & Bakery", 40.7135, -74.0050, "cafe", "bakery", "food")
	rich.Rating = ptrFloat64(4.7)
	rich.ReviewCount = ptrInt(320)
	rich.Address = ptrString("12 Main St")
	rich.PhotoCount = 4

	places := []domain.PlaceCandidate{
		place("p1", "Central Cafe", 40.7128, -74.0060, "cafe"),
		place("p1", "Central Cafe", 40.7128, -74.0060, "cafe"),
		place("p2", "City Museum", 40.7140, -74.0070, "museum"),
		place("p2", "City Museum", 40.7140, -74.0070, "museum"),
		place("p3", "Riverside Park", 40.7150, -74.0080, "park"),
		place("p4", "Main Street Shop", 40.7160, -74.0090, "clothing_store"),
		rich,
		place("p6", "Old Town Hall", 40.7170, -74.0100, "city_hall"),
	}

	grouped := dedup.Deduplicate(places)
	require.Equal(t, 5, grouped.Total())

	assert.Equal(t, []string{"Central Cafe & Bakery"}, names(grouped[domain.BucketDining]))
	assert.Equal(t, []string{"City Museum"}, names(grouped[domain.BucketAttractions]))
	assert.Equal(t, []string{"Riverside Park"}, names(grouped[domain.BucketOutdoor]))
	assert.Equal(t, []string{"Main Street Shop"}, names(grouped[domain.BucketShopping]))
	assert.Equal(t, []string{"Old Town Hall"}, names(grouped[domain.BucketOther]))
}

func TestDeduplicator_EmptyInput(t *testing.T) {
	dedup := usecase.NewDeduplicator(domain.DefaultCategoryTable())
	grouped := dedup.Deduplicate(nil)

	assert.Equal(t, 0, grouped.Total())
	for _, b := range domain.BucketOrder() {
		assert.NotNil(t, grouped[b])
	}
}

func flatten(grouped domain.GroupedPlaces) []domain.PlaceCandidate {
	var result []domain.PlaceCandidate
	for _, b := range domain.BucketOrder() {
		result = append(result, grouped[b]...)
	}
	return result
}

func sortedKeys(places []domain.PlaceCandidate) []string {
	keys := make([]string, 0, len(places))
	for _, p := range places {
		keys = append(keys, p.ID+"|"+p.Name)
	}
	sort.Strings(keys)
	return keys
}

func TestDeduplicator_Idempotent(t *testing.T) {
	dedup := usecase.NewDeduplicator(domain.DefaultCategoryTable())
	rng := rand.New(rand.NewSource(42))

	// маленькие пулы, чтобы совпадения id, координат и имён случались часто
	namePool := []string{"Central Cafe", "Central Cafe & Bakery", "Cafe", "City Museum", "The City Museum", "Park", "Riverside Park", "Mall", "Harbor Grill"}
	typePool := []string{"cafe", "museum", "park", "shopping_mall", "restaurant", "lodging"}

	for run := 0; run < 200; run++ {
		n := rng.Intn(25)
		places := make([]domain.PlaceCandidate, 0, n)
		for i := 0; i < n; i++ {
			id := ""
			if rng.Intn(3) > 0 {
				id = fmt.Sprintf("p%d", rng.Intn(10))
			}
			p := place(id, namePool[rng.Intn(len(namePool))],
				40.71+float64(rng.Intn(4))*0.0001, -74.0+float64(rng.Intn(4))*0.0001,
				typePool[rng.Intn(len(typePool))])
			if rng.Intn(2) == 0 {
				p.Rating = ptrFloat64(float64(rng.Intn(5)) + 0.5)
			}
			if rng.Intn(4) == 0 {
				p.Location = nil
			}
			places = append(places, p)
		}

		once := flatten(dedup.Deduplicate(places))
		twice := flatten(dedup.Deduplicate(once))

		require.Equal(t, sortedKeys(once), sortedKeys(twice), "run %d", run)
	}
}

func TestDeduplicator_IdempotentOnFixture(t *testing.T) {
	dedup := usecase.NewDeduplicator(domain.DefaultCategoryTable())
	places := []domain.PlaceCandidate{
		place("p1", "Central Cafe", 40.7128, -74.006, "cafe"),
		place("p2", "Central Cafe & Bakery", 40.7129, -74.006, "bakery"),
		place("p1", "Central Cafe duplicate id", 40.7, -74.0, "cafe"),
		place("p3", "City Museum", 40.714, -74.007, "museum"),
		place("p4", "Museum at same spot", 40.714, -74.007, "museum"),
	}

	once := dedup.Deduplicate(places)
	twice := dedup.Deduplicate(flatten(once))

	assert.Equal(t, once.Total(), twice.Total())
	assert.Equal(t, sortedKeys(flatten(once)), sortedKeys(flatten(twice)))
}
