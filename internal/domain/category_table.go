package domain

// CategoryEntry - одна строка таблицы: категория и типы провайдера, которые в неё попадают.
// QueryTypes - типы для фильтра includedTypes в запросе; пусто - берутся Types.
type CategoryEntry struct {
	Bucket     CategoryBucket
	Types      []string
	QueryTypes []string
}

// CategoryTable - упорядоченная по приоритету таблица тип -> категория.
// Место попадает в первую категорию, у которой есть хотя бы один его тип.
type CategoryTable struct {
	entries []CategoryEntry
	sets    []map[string]struct{}
}

func NewCategoryTable(entries ...CategoryEntry) *CategoryTable {
	t := &CategoryTable{
		entries: make([]CategoryEntry, len(entries)),
		sets:    make([]map[string]struct{}, len(entries)),
	}
	for i, e := range entries {
		types := make([]string, len(e.Types))
		copy(types, e.Types)
		queryTypes := types
		if len(e.QueryTypes) > 0 {
			queryTypes = make([]string, len(e.QueryTypes))
			copy(queryTypes, e.QueryTypes)
		}
		t.entries[i] = CategoryEntry{Bucket: e.Bucket, Types: types, QueryTypes: queryTypes}

		set := make(map[string]struct{}, len(types))
		for _, typ := range types {
			set[typ] = struct{}{}
		}
		t.sets[i] = set
	}
	return t
}

// DefaultCategoryTable - таблица типов Google Places, каждый вызов создаёт новый экземпляр.
// Types шире QueryTypes: в ответах встречаются типы Table B (food, store, natural_feature),
// а includedTypes принимает только Table A.
func DefaultCategoryTable() *CategoryTable {
	return NewCategoryTable(
		CategoryEntry{
			Bucket: BucketDining,
			Types: []string{
				"restaurant", "cafe", "bakery", "bar", "meal_takeaway",
				"meal_delivery", "food", "ice_cream", "ice_cream_shop", "coffee_shop",
			},
			QueryTypes: []string{
				"restaurant", "cafe", "bakery", "bar", "meal_takeaway",
				"ice_cream_shop", "coffee_shop",
			},
		},
		CategoryEntry{
			Bucket: BucketAttractions,
			Types: []string{
				"tourist_attraction", "museum", "art_gallery", "aquarium", "zoo",
				"amusement_park", "theme_park", "library", "movie_theater", "theatre",
				"performing_arts_theater", "historical_landmark", "cultural_venue",
			},
			QueryTypes: []string{
				"tourist_attraction", "museum", "art_gallery", "aquarium", "zoo",
				"amusement_park", "library", "movie_theater", "performing_arts_theater",
				"historical_landmark",
			},
		},
		CategoryEntry{
			Bucket: BucketOutdoor,
			Types: []string{
				"park", "campground", "national_park", "hiking_area", "beach",
				"natural_feature", "stadium", "sports_complex", "gym",
			},
			QueryTypes: []string{
				"park", "campground", "national_park", "hiking_area",
				"stadium", "sports_complex", "gym",
			},
		},
		CategoryEntry{
			Bucket: BucketShopping,
			Types: []string{
				"shopping_mall", "department_store", "clothing_store", "electronics_store",
				"store", "convenience_store", "supermarket", "market",
			},
			QueryTypes: []string{
				"shopping_mall", "department_store", "clothing_store", "electronics_store",
				"convenience_store", "supermarket", "market", "book_store", "gift_shop",
			},
		},
		CategoryEntry{
			Bucket: BucketOther,
			Types: []string{
				"point_of_interest", "establishment", "landmark", "university", "school",
				"transit_station", "lodging", "pharmacy", "hospital",
			},
		},
	)
}

// Classify возвращает категорию по первой подходящей строке таблицы, иначе other
func (t *CategoryTable) Classify(types []string) CategoryBucket {
	for i, set := range t.sets {
		for _, typ := range types {
			if _, ok := set[typ]; ok {
				return t.entries[i].Bucket
			}
		}
	}
	return BucketOther
}

// TypesFor - типы провайдера для категории (копия)
func (t *CategoryTable) TypesFor(bucket CategoryBucket) []string {
	for _, e := range t.entries {
		if e.Bucket == bucket {
			types := make([]string, len(e.Types))
			copy(types, e.Types)
			return types
		}
	}
	return nil
}

// QueryTypesFor - типы для includedTypes запроса по категории (копия)
func (t *CategoryTable) QueryTypesFor(bucket CategoryBucket) []string {
	for _, e := range t.entries {
		if e.Bucket == bucket {
			types := make([]string, len(e.QueryTypes))
			copy(types, e.QueryTypes)
			return types
		}
	}
	return nil
}

// Buckets - категории в порядке приоритета таблицы
func (t *CategoryTable) Buckets() []CategoryBucket {
	buckets := make([]CategoryBucket, len(t.entries))
	for i, e := range t.entries {
		buckets[i] = e.Bucket
	}
	return buckets
}
