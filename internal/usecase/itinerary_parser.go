package usecase

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/itinerary-microservice/internal/domain"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

// timeToken: "14:30", "9.15", "9 AM", "9:30pm"
const timeToken = `\d{1,2}[:.]\d{2}(?:[ \t]*[AP]M)?|\d{1,2}[ \t]*[AP]M`

// Правила разбора ответа генерации. Каждое правило покрыто отдельным тестом.
var (
	// titleRule - первый markdown-заголовок
	titleRule = regexp.MustCompile(`(?m)^#+[ \t]*(.+)$`)
	// adventurePrefixRule - "Your Adventure:" в заголовке
	adventurePrefixRule = regexp.MustCompile(`(?i)Your Adventure:\s*`)
	// headerRule - "### 10:00 AM - Museum" или "### [10:00 AM] - Museum"
	headerRule = regexp.MustCompile(`(?im)^[ \t]*###[ \t]*\[?(` + timeToken + `)\]?[ \t]*-[ \t]*(.+)$`)
	// plainRule - "10:00 AM - Museum" без markdown
	plainRule = regexp.MustCompile(`(?im)^[ \t]*(` + timeToken + `)[ \t]*-[ \t]*(.+)$`)
	// boldRule - "10:00 AM **Museum**" или "10:00 AM - **Museum**: text"
	boldRule = regexp.MustCompile(`(?im)^[ \t]*(` + timeToken + `)[ \t]*(?:[-–][ \t]*)?(?:\*\*|\*|__)([^*_\n]+)(?:\*\*|\*|__):?[ \t]*(.*)$`)
	// ratingRule - "4.5/5", "4 stars"
	ratingRule = regexp.MustCompile(`(?i)\b(\d(?:\.\d)?)[ \t]*(?:/[ \t]*5\b|stars?\b)`)
	// reviewRule - "1,234 reviews", "87 ratings"
	reviewRule = regexp.MustCompile(`(?i)\b(\d[\d,]*)[ \t]*(?:reviews?|ratings?)\b`)
	// emptyParensRule - скобки, оставшиеся пустыми после удаления рейтинга
	emptyParensRule = regexp.MustCompile(`\([\s,;|·-]*\)`)
	// clockRule - разбор time-token в часы/минуты
	clockRule = regexp.MustCompile(`(?i)^(\d{1,2})(?:[:.](\d{2}))?[ \t]*([AP]M)?$`)

	// timeRangeTitleRule - "10:00 - 11:00 ..." это диапазон времени в тексте, а не пункт
	timeRangeTitleRule = regexp.MustCompile(`(?i)^(?:` + timeToken + `)`)
	// sectionRule - любой markdown-заголовок, которым заканчивается описание пункта
	sectionRule = regexp.MustCompile(`(?m)^[ \t]*#`)

	bracketNameRule = regexp.MustCompile(`\[(.*?)\]`)
	quoteNameRule   = regexp.MustCompile(`"([^"]+)"`)
)

// rawBlock - совпадение одной из грамматик до нормализации
type rawBlock struct {
	time        string
	title       string
	description string
}

// ParseItinerary извлекает пункты маршрута из свободного текста. Никогда не падает:
// если ни одна грамматика не подошла, Items пуст, а Raw содержит исходный текст.
func ParseItinerary(raw string) domain.ParsedItinerary {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	result := domain.ParsedItinerary{
		Title: ExtractTitle(text),
		Raw:   raw,
		Items: []domain.ItineraryItem{},
	}

	blocks := matchHeaderBlocks(text)
	if len(blocks) == 0 {
		blocks = matchPlainBlocks(text)
	}
	if len(blocks) == 0 {
		blocks = matchBoldBlocks(text)
	}

	for _, b := range blocks {
		result.Items = append(result.Items, buildItem(b))
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Time.Minutes() < result.Items[j].Time.Minutes()
	})

	return result
}

// ExtractTitle - первый заголовок без префикса "Your Adventure:"
func ExtractTitle(text string) string {
	m := titleRule.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	title := strings.TrimSpace(strings.TrimLeft(m[1], "# "))
	return strings.TrimSpace(adventurePrefixRule.ReplaceAllString(title, ""))
}

// matchHeaderBlocks - описание пункта тянется от конца заголовка до следующего заголовка
func matchHeaderBlocks(text string) []rawBlock {
	return sliceBlocks(text, headerRule.FindAllStringSubmatchIndex(text, -1), false)
}

// matchPlainBlocks - строки, где после "time - " снова идёт время, не считаются пунктами
func matchPlainBlocks(text string) []rawBlock {
	matches := plainRule.FindAllStringSubmatchIndex(text, -1)
	kept := matches[:0]
	for _, m := range matches {
		if timeRangeTitleRule.MatchString(text[m[4]:m[5]]) {
			continue
		}
		kept = append(kept, m)
	}
	return sliceBlocks(text, kept, false)
}

func matchBoldBlocks(text string) []rawBlock {
	return sliceBlocks(text, boldRule.FindAllStringSubmatchIndex(text, -1), true)
}

// sliceBlocks режет текст по найденным строкам-заголовкам; описание заканчивается
// на следующем пункте или на любом заголовке (### Tips). inline - у правила есть
// третья группа с началом описания на той же строке
func sliceBlocks(text string, matches [][]int, inline bool) []rawBlock {
	blocks := make([]rawBlock, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if loc := sectionRule.FindStringIndex(text[m[1]:end]); loc != nil {
			end = m[1] + loc[0]
		}

		description := text[m[1]:end]
		if inline && m[6] >= 0 {
			description = text[m[6]:end]
		}

		blocks = append(blocks, rawBlock{
			time:        text[m[2]:m[3]],
			title:       text[m[4]:m[5]],
			description: description,
		})
	}
	return blocks
}

func buildItem(b rawBlock) domain.ItineraryItem {
	title := cleanTitle(b.title)
	description := strings.TrimSpace(b.description)

	item := domain.ItineraryItem{
		Description: description,
		DisplayTime: FormatTime(b.time),
	}

	if ct, ok := ParseTimeToken(b.time); ok {
		item.Time = ct
	} else {
		item.TimeUnparsed = true
	}

	searchable := title + "\n" + description
	if m := ratingRule.FindStringSubmatch(searchable); m != nil {
		if r, err := strconv.ParseFloat(m[1], 64); err == nil {
			item.Rating = &r
		}
	}
	if m := reviewRule.FindStringSubmatch(searchable); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			item.ReviewCount = &n
		}
	}

	item.Location = stripRatingTokens(title)
	item.PlaceName = ExtractPlaceName(item.Location)
	if item.PlaceName != "" {
		item.MapsURL = mapsSearchURL + url.QueryEscape(item.PlaceName)
	}

	return item
}

// cleanTitle снимает markdown-выделение вокруг названия
func cleanTitle(title string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(title), "*_"))
}

// stripRatingTokens убирает рейтинг и число отзывов из названия вместе с пустыми скобками
func stripRatingTokens(title string) string {
	title = ratingRule.ReplaceAllString(title, "")
	title = reviewRule.ReplaceAllString(title, "")
	title = emptyParensRule.ReplaceAllString(title, "")
	title = strings.Join(strings.Fields(title), " ")
	return strings.TrimRight(title, " ,;-—–|")
}

// ExtractPlaceName - [в скобках], затем "в кавычках", затем часть после " - ", иначе всё название
func ExtractPlaceName(location string) string {
	if m := bracketNameRule.FindStringSubmatch(location); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := quoteNameRule.FindStringSubmatch(location); m != nil {
		return strings.TrimSpace(m[1])
	}
	if parts := strings.Split(location, " - "); len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(location)
}

// ParseTimeToken переводит time-token в ClockTime; AM/PM учитываются, без суффикса - 24 часа
func ParseTimeToken(token string) (domain.ClockTime, bool) {
	m := clockRule.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return domain.ClockTime{}, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.ClockTime{}, false
	}
	minute := 0
	if m[2] != "" {
		if minute, err = strconv.Atoi(m[2]); err != nil {
			return domain.ClockTime{}, false
		}
	}

	switch strings.ToUpper(m[3]) {
	case "AM":
		if hour < 1 || hour > 12 {
			return domain.ClockTime{}, false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return domain.ClockTime{}, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if m[2] == "" {
			return domain.ClockTime{}, false
		}
	}

	ct := domain.ClockTime{Hour: hour, Minute: minute}
	if !ct.Valid() {
		return domain.ClockTime{}, false
	}
	return ct, true
}

// FormatTime - канонический вид "H:MM AM/PM"; нераспознанный токен возвращается как есть
func FormatTime(token string) string {
	if ct, ok := ParseTimeToken(token); ok {
		return ct.Format12h()
	}
	return strings.Join(strings.Fields(token), " ")
}
