package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/itinerary-microservice/internal/domain"
)

const notSpecified = "Not specified"

var bucketTitles = map[domain.CategoryBucket]string{
	domain.BucketDining:      "DINING OPTIONS",
	domain.BucketAttractions: "ATTRACTIONS",
	domain.BucketOutdoor:     "OUTDOOR & RECREATION",
	domain.BucketShopping:    "SHOPPING",
	domain.BucketOther:       "OTHER PLACES",
}

// PromptBuilder - детерминированная сборка промпта: одинаковый вход даёт идентичную строку
type PromptBuilder struct {
	categories []domain.ActivityCategory
}

func NewPromptBuilder(categories []domain.ActivityCategory) *PromptBuilder {
	cp := make([]domain.ActivityCategory, len(categories))
	copy(cp, categories)
	return &PromptBuilder{categories: cp}
}

func (b *PromptBuilder) BuildPrompt(places domain.GroupedPlaces, form domain.ItineraryFormData) string {
	var sb strings.Builder

	sb.WriteString("You are a local travel guide with deep knowledge about interesting places. ")
	sb.WriteString("Create a detailed itinerary for someone exploring an area with the following available places:\n\n")

	fmt.Fprintf(&sb, "AVAILABLE PLACES BY CATEGORY (%d total):\n", places.Total())
	for i, bucket := range domain.BucketOrder() {
		if i > 0 {
			sb.WriteString("\n")
		}
		list := places[bucket]
		fmt.Fprintf(&sb, "%s (%d):\n", bucketTitles[bucket], len(list))
		for n, place := range list {
			fmt.Fprintf(&sb, "%d. %s\n", n+1, placeLine(place))
		}
	}

	start := form.TimeRange.Start.Format12h()
	end := form.TimeRange.End.Format12h()

	sb.WriteString("\nUSER PREFERENCES:\n")
	fmt.Fprintf(&sb, "- Time available: %s to %s\n", start, end)
	writeTripType(&sb, form)
	writeProfile(&sb, form.Preferences)

	if form.TripType == domain.TripCustom && len(b.categories) > 0 {
		sb.WriteString("\nACTIVITY CATEGORIES:\n")
		for _, c := range b.categories {
			fmt.Fprintf(&sb, "- %s: %s\n", c.Name, strings.Join(c.Options, ", "))
		}
	}

	sb.WriteString("\nCREATE AN ITINERARY that:\n")
	fmt.Fprintf(&sb, "1. Fits within the time range %s to %s\n", start, end)
	sb.WriteString("2. Includes only places from the provided lists above\n")
	sb.WriteString("3. Incorporates the user's preferences and selected activities\n")
	sb.WriteString("4. Provides a logical flow with appropriate travel time between locations\n")
	sb.WriteString("5. Includes specific suggestions for activities at each location\n")
	sb.WriteString("6. For each item, include the exact name of the place as listed above\n")
	sb.WriteString("7. Format each itinerary item with a time, location name, and detailed description\n")
	sb.WriteString("8. Include meal suggestions at appropriate times\n")

	sb.WriteString("\nFORMAT THE ITINERARY LIKE THIS:\n")
	sb.WriteString("## Your Adventure: [Catchy Title]\n\n")
	sb.WriteString("### [Time] - [Place Name]\n")
	sb.WriteString("[Detailed description with specific recommendations]\n\n")
	sb.WriteString("### [Time] - [Place Name]\n")
	sb.WriteString("[Detailed description with specific recommendations]\n\n")
	sb.WriteString("...and so on.\n\n")
	sb.WriteString("Do not add a summary or closing remarks after the last itinerary item.\n")

	return sb.String()
}

// placeLine - "name — 4.5/5 (320 reviews) address"; отсутствующие поля пропускаются
func placeLine(p domain.PlaceCandidate) string {
	var details []string
	if p.Rating != nil {
		details = append(details, strconv.FormatFloat(*p.Rating, 'f', -1, 64)+"/5")
	}
	if p.ReviewCount != nil {
		details = append(details, fmt.Sprintf("(%d reviews)", *p.ReviewCount))
	}
	if p.Address != nil {
		details = append(details, *p.Address)
	}
	if len(details) == 0 {
		return p.Name
	}
	return p.Name + " — " + strings.Join(details, " ")
}

func writeTripType(sb *strings.Builder, form domain.ItineraryFormData) {
	if form.TripType == domain.TripSurprise {
		if form.SurpriseType == domain.SurpriseNiche {
			sb.WriteString("- Trip type: Surprise (off the beaten path)\n")
			sb.WriteString("- Focus on hidden gems and local favorites away from the main tourist crowds\n")
			return
		}
		sb.WriteString("- Trip type: Surprise (popular attractions)\n")
		sb.WriteString("- Focus on well-known, highly rated places that visitors should not miss\n")
		return
	}

	sb.WriteString("- Trip type: Custom\n")
	if activities := canonicalActivities(form.Activities); len(activities) > 0 {
		fmt.Fprintf(sb, "- Selected activities: %s\n", strings.Join(activities, ", "))
	}
	if custom := strings.TrimSpace(form.CustomActivity); custom != "" {
		fmt.Fprintf(sb, "- User's custom request: \"%s\"\n", custom)
	}
}

func writeProfile(sb *strings.Builder, prefs *domain.UserPreferences) {
	if prefs == nil {
		return
	}
	fmt.Fprintf(sb, "- Travel style: %s\n", orNotSpecified(prefs.TravelStyle))
	fmt.Fprintf(sb, "- Interests: %s\n", orNotSpecified(prefs.Interests))
	fmt.Fprintf(sb, "- Pace: %s\n", orNotSpecified(prefs.Pace))
}

// canonicalActivities - activities это множество: сортировка и удаление повторов
func canonicalActivities(activities []string) []string {
	set := make(map[string]struct{}, len(activities))
	result := make([]string, 0, len(activities))
	for _, a := range activities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := set[a]; ok {
			continue
		}
		set[a] = struct{}{}
		result = append(result, a)
	}
	sort.Strings(result)
	return result
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}
