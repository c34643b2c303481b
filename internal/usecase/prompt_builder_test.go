package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itinerary-microservice/internal/domain"
	"github.com/itinerary-microservice/internal/usecase"
)

func sampleGrouped() domain.GroupedPlaces {
	cafe := place("p1", "Central Cafe", 40.7128, -74.006, "cafe")
	cafe.Rating = ptrFloat64(4.5)
	cafe.ReviewCount = ptrInt(320)
	cafe.Address = ptrString("1 Main St")

	museum := place("p2", "City Museum", 40.714, -74.007, "museum")
	museum.Rating = ptrFloat64(4)

	return domain.GroupedPlaces{
		domain.BucketDining:      {cafe},
		domain.BucketAttractions: {museum},
		domain.BucketOutdoor:     {place("p3", "Riverside Park", 40.715, -74.008, "park")},
		domain.BucketShopping:    {},
		domain.BucketOther:       {},
	}
}

func sampleForm(trip domain.TripType) domain.ItineraryFormData {
	return domain.ItineraryFormData{
		Region: domain.NewCircleRegion(domain.LatLng{Lat: 40.7128, Lng: -74.006}, 1500),
		TimeRange: domain.TimeRange{
			Start: domain.ClockTime{Hour: 9, Minute: 0},
			End:   domain.ClockTime{Hour: 17, Minute: 30},
		},
		TripType: trip,
	}
}

func TestPromptBuilder_Deterministic(t *testing.T) {
	builder := usecase.NewPromptBuilder(domain.DefaultActivityCategories())
	form := sampleForm(domain.TripCustom)
	form.Activities = []string{"Hiking", "Museums", "Coffee"}

	first := builder.BuildPrompt(sampleGrouped(), form)
	second := builder.BuildPrompt(sampleGrouped(), form)
	assert.Equal(t, first, second)

	// activities - множество, порядок не влияет на промпт
	reordered := form
	reordered.Activities = []string{"Coffee", "Hiking", "Museums", "Coffee"}
	assert.Equal(t, first, builder.BuildPrompt(sampleGrouped(), reordered))
}

func TestPromptBuilder_Sections(t *testing.T) {
	builder := usecase.NewPromptBuilder(domain.DefaultActivityCategories())
	prompt := builder.BuildPrompt(sampleGrouped(), sampleForm(domain.TripSurprise))

	assert.True(t, strings.HasPrefix(prompt, "You are a local travel guide"))
	assert.Contains(t, prompt, "AVAILABLE PLACES BY CATEGORY (3 total):")
	assert.Contains(t, prompt, "DINING OPTIONS (1):\n1. Central Cafe — 4.5/5 (320 reviews) 1 Main St\n")
	assert.Contains(t, prompt, "ATTRACTIONS (1):\n1. City Museum — 4/5\n")
	assert.Contains(t, prompt, "OUTDOOR & RECREATION (1):\n1. Riverside Park\n")
	assert.Contains(t, prompt, "SHOPPING (0):")
	assert.Contains(t, prompt, "OTHER PLACES (0):")
	assert.Contains(t, prompt, "- Time available: 9:00 AM to 5:30 PM")
	assert.Contains(t, prompt, "### [Time] - [Place Name]")
	assert.Contains(t, prompt, "Do not add a summary")

	// фиксированный порядок секций
	order := []string{"DINING OPTIONS", "ATTRACTIONS (", "OUTDOOR & RECREATION", "SHOPPING (", "OTHER PLACES", "USER PREFERENCES", "CREATE AN ITINERARY"}
	last := -1
	for _, section := range order {
		idx := strings.Index(prompt, section)
		assert.Greater(t, idx, last, section)
		last = idx
	}
}

func TestPromptBuilder_TripTypes(t *testing.T) {
	builder := usecase.NewPromptBuilder(domain.DefaultActivityCategories())

	popular := sampleForm(domain.TripSurprise)
	popular.SurpriseType = domain.SurprisePopular
	popularPrompt := builder.BuildPrompt(sampleGrouped(), popular)
	assert.Contains(t, popularPrompt, "Surprise (popular attractions)")
	assert.NotContains(t, popularPrompt, "ACTIVITY CATEGORIES")

	niche := sampleForm(domain.TripSurprise)
	niche.SurpriseType = domain.SurpriseNiche
	nichePrompt := builder.BuildPrompt(sampleGrouped(), niche)
	assert.Contains(t, nichePrompt, "Surprise (off the beaten path)")
	assert.NotEqual(t, popularPrompt, nichePrompt)

	custom := sampleForm(domain.TripCustom)
	custom.Activities = []string{"Museums", "Coffee"}
	custom.CustomActivity = "somewhere with live jazz"
	customPrompt := builder.BuildPrompt(sampleGrouped(), custom)
	assert.Contains(t, customPrompt, "- Trip type: Custom")
	assert.Contains(t, customPrompt, "- Selected activities: Coffee, Museums")
	assert.Contains(t, customPrompt, `- User's custom request: "somewhere with live jazz"`)
	assert.Contains(t, customPrompt, "ACTIVITY CATEGORIES:\n- Outdoor Recreation:")
}

func TestPromptBuilder_Preferences(t *testing.T) {
	builder := usecase.NewPromptBuilder(nil)

	form := sampleForm(domain.TripSurprise)
	assert.NotContains(t, builder.BuildPrompt(sampleGrouped(), form), "Travel style")

	form.Preferences = &domain.UserPreferences{TravelStyle: "Adventurous"}
	prompt := builder.BuildPrompt(sampleGrouped(), form)
	assert.Contains(t, prompt, "- Travel style: Adventurous")
	assert.Contains(t, prompt, "- Interests: Not specified")
	assert.Contains(t, prompt, "- Pace: Not specified")
}

func TestPromptBuilder_EmptyPlaces(t *testing.T) {
	builder := usecase.NewPromptBuilder(domain.DefaultActivityCategories())
	prompt := builder.BuildPrompt(domain.GroupedPlaces{}, sampleForm(domain.TripSurprise))

	assert.Contains(t, prompt, "AVAILABLE PLACES BY CATEGORY (0 total):")
	assert.Contains(t, prompt, "DINING OPTIONS (0):")
	assert.Contains(t, prompt, "FORMAT THE ITINERARY LIKE THIS:")
}
