package models

import "time"

// DemoUser is a fixed, non-authenticatable account used to populate the
// friends and discovery views. Demo places are read-only fixtures; only
// their likes set is mutated, and only in memory.
type DemoUser struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	ProfilePhoto string  `json:"profilePhoto,omitempty"`
	Bio          string  `json:"bio,omitempty"`
	Places       []Place `json:"places"`
}

func fl(v float64) *float64 { return &v }

// DemoUsers returns a fresh copy of the fixture set, so per-session like
// toggles never leak between sessions.
func DemoUsers() []DemoUser {
	seed := time.Date(2024, time.March, 12, 9, 30, 0, 0, time.UTC)
	return []DemoUser{
		{
			ID:       "demo-emma",
			Username: "emma_reist",
			Bio:      "Always hunting for the best coffee in town",
			Places: []Place{
				{
					ID: "demo-emma-1", UserID: "demo-emma",
					Name: "Café Central", Category: CategoryCafe,
					Description: "Viennese institution, great melange",
					City:        "Vienna", Country: "Austria",
					Latitude: fl(48.2105), Longitude: fl(16.3655),
					Visited: true, Favorite: true, IsPublic: true,
					Likes:     []string{"demo-liam"},
					CreatedAt: seed,
				},
				{
					ID: "demo-emma-2", UserID: "demo-emma",
					Name: "Schönbrunn Gardens", Category: CategoryPark,
					City: "Vienna", Country: "Austria",
					Latitude: fl(48.1845), Longitude: fl(16.3122),
					Visited: true, IsPublic: true,
					CreatedAt: seed.Add(24 * time.Hour),
				},
				{
					ID: "demo-emma-3", UserID: "demo-emma",
					Name: "Naschmarkt", Category: CategoryShopping,
					Description: "Food stalls and vintage finds",
					City:        "Vienna", Country: "Austria",
					Latitude: fl(48.1987), Longitude: fl(16.3637),
					IsPublic:  true,
					CreatedAt: seed.Add(48 * time.Hour),
				},
			},
		},
		{
			ID:       "demo-liam",
			Username: "liam.walks",
			Bio:      "Slow travel, long hikes",
			Places: []Place{
				{
					ID: "demo-liam-1", UserID: "demo-liam",
					Name: "Cinque Terre Trail", Category: CategoryViewpoint,
					Description: "The stretch between Vernazza and Monterosso",
					City:        "Vernazza", Country: "Italy",
					Latitude: fl(44.1350), Longitude: fl(9.6840),
					Visited: true, Favorite: true, IsPublic: true,
					Likes:     []string{"demo-emma", "demo-sofia"},
					CreatedAt: seed.Add(72 * time.Hour),
				},
				{
					ID: "demo-liam-2", UserID: "demo-liam",
					Name: "Trattoria dal Billy", Category: CategoryRestaurant,
					City: "Manarola", Country: "Italy",
					Latitude: fl(44.1069), Longitude: fl(9.7297),
					Visited: true, IsPublic: true,
					CreatedAt: seed.Add(96 * time.Hour),
				},
			},
		},
		{
			ID:           "demo-sofia",
			Username:     "sofia_snaps",
			ProfilePhoto: "/uploads/demo-sofia.jpg",
			Bio:          "Beach days and night markets",
			Places: []Place{
				{
					ID: "demo-sofia-1", UserID: "demo-sofia",
					Name: "Bondi Beach", Category: CategoryBeach,
					City: "Sydney", Country: "Australia",
					Latitude: fl(-33.8908), Longitude: fl(151.2743),
					Visited: true, IsPublic: true,
					Likes:     []string{"demo-emma"},
					CreatedAt: seed.Add(120 * time.Hour),
				},
				{
					ID: "demo-sofia-2", UserID: "demo-sofia",
					Name: "Opera Bar", Category: CategoryNightlife,
					Description: "Harbour views after sunset",
					City:        "Sydney", Country: "Australia",
					Latitude: fl(-33.8587), Longitude: fl(151.2140),
					IsPublic:  true,
					CreatedAt: seed.Add(144 * time.Hour),
				},
				{
					ID: "demo-sofia-3", UserID: "demo-sofia",
					Name: "Queen Victoria Building", Category: CategoryShopping,
					City: "Sydney", Country: "Australia",
					IsPublic:  false,
					CreatedAt: seed.Add(168 * time.Hour),
				},
			},
		},
	}
}
