package usecase

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/itinerary-microservice/internal/domain"
)

// minFuzzyNameLength - более короткие имена не участвуют в нечётком сравнении
const minFuzzyNameLength = 4

// Deduplicator удаляет дубликаты в три прохода и раскладывает места по категориям
type Deduplicator struct {
	table *domain.CategoryTable
}

func NewDeduplicator(table *domain.CategoryTable) *Deduplicator {
	return &Deduplicator{table: table}
}

// Deduplicate - identity -> координаты -> нечёткое имя, затем группировка по таблице категорий
func (d *Deduplicator) Deduplicate(places []domain.PlaceCandidate) domain.GroupedPlaces {
	unique := DedupeByName(DedupeByCoordinates(DedupeByIdentity(places)))
	return d.Group(unique)
}

// Group раскладывает места по категориям, порядок внутри категории сохраняется
func (d *Deduplicator) Group(places []domain.PlaceCandidate) domain.GroupedPlaces {
	grouped := make(domain.GroupedPlaces, len(domain.BucketOrder()))
	for _, b := range domain.BucketOrder() {
		grouped[b] = []domain.PlaceCandidate{}
	}
	for _, place := range places {
		bucket := d.table.Classify(place.Types)
		grouped[bucket] = append(grouped[bucket], place)
	}
	return grouped
}

// DedupeByIdentity - ключ ID, иначе "lat,lng"; побеждает первое вхождение
func DedupeByIdentity(places []domain.PlaceCandidate) []domain.PlaceCandidate {
	seen := make(map[string]struct{}, len(places))
	result := make([]domain.PlaceCandidate, 0, len(places))

	for _, place := range places {
		key := place.ID
		if key == "" {
			if !place.HasLocation() {
				result = append(result, place)
				continue
			}
			key = fmt.Sprintf("%v,%v", place.Location.Lat, place.Location.Lng)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, place)
	}
	return result
}

// DedupeByCoordinates - координаты, округлённые до 5 знаков (~1 м); без координат проходят как есть
func DedupeByCoordinates(places []domain.PlaceCandidate) []domain.PlaceCandidate {
	seen := make(map[string]struct{}, len(places))
	result := make([]domain.PlaceCandidate, 0, len(places))

	for _, place := range places {
		if !place.HasLocation() {
			result = append(result, place)
			continue
		}
		key := fmt.Sprintf("%.5f,%.5f", place.Location.Lat, place.Location.Lng)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, place)
	}
	return result
}

type acceptedPlace struct {
	place domain.PlaceCandidate
	name  string
	score float64
}

// DedupeByName - нечёткое совпадение имён по вхождению подстроки.
// Из пары остаётся место с большим InformationScore, при равенстве раннее.
// Новый кандидат занимает позицию первого вытесненного.
func DedupeByName(places []domain.PlaceCandidate) []domain.PlaceCandidate {
	accepted := make([]*acceptedPlace, 0, len(places))

	for _, place := range places {
		candidate := &acceptedPlace{
			place: place,
			name:  NormalizeName(place.Name),
			score: InformationScore(place),
		}
		if len([]rune(candidate.name)) < minFuzzyNameLength {
			accepted = append(accepted, candidate)
			continue
		}

		var matches []int
		wins := true
		for i, a := range accepted {
			if a == nil || len([]rune(a.name)) < minFuzzyNameLength {
				continue
			}
			if !strings.Contains(a.name, candidate.name) && !strings.Contains(candidate.name, a.name) {
				continue
			}
			matches = append(matches, i)
			if candidate.score <= a.score {
				wins = false
			}
		}

		switch {
		case len(matches) == 0:
			accepted = append(accepted, candidate)
		case wins:
			accepted[matches[0]] = candidate
			for _, i := range matches[1:] {
				accepted[i] = nil
			}
		}
	}

	result := make([]domain.PlaceCandidate, 0, len(accepted))
	for _, a := range accepted {
		if a != nil {
			result = append(result, a.place)
		}
	}
	return result
}

// NormalizeName - нижний регистр, только буквы/цифры, пробелы схлопнуты
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// InformationScore - насколько полна запись о месте:
// 2*rating + min(reviews/100, 5) + address + photos + opening hours + min(types, 3)
func InformationScore(p domain.PlaceCandidate) float64 {
	score := 0.0
	if p.Rating != nil {
		score += 2
	}
	if p.ReviewCount != nil {
		score += math.Min(float64(*p.ReviewCount)/100, 5)
	}
	if p.Address != nil {
		score++
	}
	score += float64(p.PhotoCount)
	if p.HasOpeningHours {
		score++
	}
	score += math.Min(float64(len(p.Types)), 3)
	return score
}
