package domain

// ActivityCategory - группа занятий, из которых пользователь выбирает при custom поездке
type ActivityCategory struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// DefaultActivityCategories - каталог занятий; каждый вызов возвращает новый слайс
func DefaultActivityCategories() []ActivityCategory {
	return []ActivityCategory{
		{Name: "Outdoor Recreation", Options: []string{
			"Hiking", "Walking", "Jogging", "Running", "Cycling", "Mountain biking",
			"Rock climbing", "Kayaking", "Canoeing", "Paddleboarding", "Swimming",
			"Fishing", "Bird watching", "Wildlife viewing", "Photography", "Picnicking",
			"Camping", "Stargazing", "Geocaching", "Foraging", "Gardening",
		}},
		{Name: "Exercise & Fitness", Options: []string{
			"Yoga", "Outdoor workout", "Tai Chi", "Pilates", "Meditation", "Stretching",
			"HIIT training", "CrossFit", "Boot camp", "Sports training", "Martial arts",
			"Parkour", "Dancing",
		}},
		{Name: "Social Activities", Options: []string{
			"Picnic with friends", "BBQ gathering", "Coffee with a friend", "Group hike",
			"Beach day", "Outdoor games", "Sports with friends", "Frisbee", "Volleyball",
			"Soccer", "Basketball", "Tennis", "Ultimate frisbee", "Group biking",
			"Group fitness class", "Outdoor party", "Dinner party", "Potluck", "Bonfire",
		}},
		{Name: "Relaxation", Options: []string{
			"Reading in the park", "Hammocking", "Meditation in nature", "Forest bathing",
			"Sunbathing", "Cloud watching", "Journaling outdoors", "Painting outdoors",
			"Drawing outdoors", "Nature sketching", "Outdoor nap", "Quiet contemplation",
		}},
		{Name: "Cultural & Educational", Options: []string{
			"Visit a museum", "Art gallery tour", "Historic site exploration", "Botanical garden visit",
			"Zoo visit", "Aquarium visit", "Cultural festival", "Outdoor concert", "Outdoor theater",
			"Outdoor movie", "Farmers market", "Street fair", "Guided nature tour",
			"Outdoor workshop", "Outdoor class", "Outdoor lecture",
		}},
		{Name: "Food & Dining", Options: []string{
			"Restaurant dining", "Outdoor cafe", "Food truck visit", "Farmers market shopping",
			"Cooking class", "Wine tasting", "Beer tasting", "Coffee shop visit", "Dessert shop visit",
			"Farm-to-table experience", "Ethnic cuisine exploration", "Food festival",
		}},
		{Name: "Family Activities", Options: []string{
			"Playground visit", "Amusement park", "Water park", "Mini golf", "Go-karting",
			"Laser tag", "Bowling", "Family picnic", "Family hike", "Family bike ride",
			"Children's museum", "Petting zoo", "Berry picking", "Apple picking",
			"Pumpkin patch", "Family camping", "Family beach day",
		}},
	}
}
