package models

import "time"

// Place is a point of interest recorded by a user. Likes holds the ids of
// users who liked the place through a friend/public view.
type Place struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"userId" bson:"user_id"`
	Name        string    `json:"name" bson:"name"`
	Category    Category  `json:"category" bson:"category"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Postcode    string    `json:"postcode,omitempty" bson:"postcode,omitempty"`
	City        string    `json:"city" bson:"city"`
	Country     string    `json:"country" bson:"country"`
	Latitude    *float64  `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Photo       string    `json:"photo,omitempty" bson:"photo,omitempty"`
	Visited     bool      `json:"visited" bson:"visited"`
	Favorite    bool      `json:"favorite" bson:"favorite"`
	IsPublic    bool      `json:"isPublic" bson:"is_public"`
	Likes       []string  `json:"likes,omitempty" bson:"likes,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// LikedBy reports whether userID is in the likes set.
func (p Place) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PlaceDraft is the input of the add flow. IsPublic defaults to true when
// omitted, matching the add form.
type PlaceDraft struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Postcode    string   `json:"postcode"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Photo       string   `json:"photo"`
	IsPublic    *bool    `json:"isPublic"`
}

// PlaceUpdate is a partial update. id, userId and createdAt are immutable
// and have no counterpart here, so they cannot be supplied.
type PlaceUpdate struct {
	Name        *string   `json:"name"`
	Category    *Category `json:"category"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	Postcode    *string   `json:"postcode"`
	City        *string   `json:"city"`
	Country     *string   `json:"country"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Photo       *string   `json:"photo"`
	Visited     *bool     `json:"visited"`
	Favorite    *bool     `json:"favorite"`
	IsPublic    *bool     `json:"isPublic"`
}
