package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryTable_Classify(t *testing.T) {
	table := DefaultCategoryTable()

	tests := []struct {
		name  string
		types []string
		want  CategoryBucket
	}{
		{"restaurant is dining", []string{"restaurant", "point_of_interest"}, BucketDining},
		{"table priority beats type order", []string{"point_of_interest", "museum"}, BucketAttractions},
		{"dining wins over shopping", []string{"store", "bakery"}, BucketDining},
		{"park is outdoor", []string{"park"}, BucketOutdoor},
		{"mall is shopping", []string{"shopping_mall"}, BucketShopping},
		{"lodging is other", []string{"lodging"}, BucketOther},
		{"unknown falls back to other", []string{"car_wash"}, BucketOther},
		{"no types is other", nil, BucketOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.types))
		})
	}
}

func TestCategoryTable_IsolatedInstances(t *testing.T) {
	a := DefaultCategoryTable()
	b := DefaultCategoryTable()

	types := a.TypesFor(BucketDining)
	types[0] = "mutated"

	assert.Equal(t, "restaurant", a.TypesFor(BucketDining)[0])
	assert.Equal(t, "restaurant", b.TypesFor(BucketDining)[0])
	assert.Nil(t, a.TypesFor("spa"))
}

func TestCategoryTable_CustomTable(t *testing.T) {
	table := NewCategoryTable(
		CategoryEntry{Bucket: BucketOutdoor, Types: []string{"cafe"}},
		CategoryEntry{Bucket: BucketDining, Types: []string{"cafe", "restaurant"}},
	)

	assert.Equal(t, BucketOutdoor, table.Classify([]string{"cafe"}))
	assert.Equal(t, BucketDining, table.Classify([]string{"restaurant"}))
	assert.Equal(t, []CategoryBucket{BucketOutdoor, BucketDining}, table.Buckets())
}

// placesTableATypes - типы Google Places (New), которые принимает includedTypes
var placesTableATypes = map[string]bool{
	"restaurant": true, "cafe": true, "bakery": true, "bar": true, "meal_takeaway": true,
	"ice_cream_shop": true, "coffee_shop": true,
	"tourist_attraction": true, "museum": true, "art_gallery": true, "aquarium": true, "zoo": true,
	"amusement_park": true, "library": true, "movie_theater": true, "performing_arts_theater": true,
	"historical_landmark": true,
	"park": true, "campground": true, "national_park": true, "hiking_area": true,
	"stadium": true, "sports_complex": true, "gym": true,
	"shopping_mall": true, "department_store": true, "clothing_store": true, "electronics_store": true,
	"convenience_store": true, "supermarket": true, "market": true, "book_store": true, "gift_shop": true,
}

func TestCategoryTable_QueryTypesAreTableA(t *testing.T) {
	table := DefaultCategoryTable()

	for _, bucket := range []CategoryBucket{BucketDining, BucketAttractions, BucketOutdoor, BucketShopping} {
		types := table.QueryTypesFor(bucket)
		assert.NotEmpty(t, types, bucket)
		for _, typ := range types {
			assert.True(t, placesTableATypes[typ], "%s sends %q", bucket, typ)
		}
	}

	// классификация по-прежнему понимает типы Table B из ответов
	assert.Equal(t, BucketDining, table.Classify([]string{"food"}))
	assert.Equal(t, BucketOutdoor, table.Classify([]string{"natural_feature"}))
	assert.Equal(t, BucketAttractions, table.Classify([]string{"theatre"}))
}

func TestCategoryTable_QueryTypesFallBackToTypes(t *testing.T) {
	table := NewCategoryTable(CategoryEntry{Bucket: BucketDining, Types: []string{"cafe"}})
	assert.Equal(t, []string{"cafe"}, table.QueryTypesFor(BucketDining))

	types := table.QueryTypesFor(BucketDining)
	types[0] = "mutated"
	assert.Equal(t, "cafe", table.QueryTypesFor(BucketDining)[0])
	assert.Nil(t, table.QueryTypesFor("spa"))
}
