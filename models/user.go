package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password,omitempty" json:"-"`
	ProfilePhoto string             `bson:"profile_photo,omitempty" json:"profilePhoto,omitempty"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// Key is the stable identifier used to scope persisted collections: the
// Mongo object id when the user came from the database, the email otherwise.
func (u User) Key() string {
	if !u.ID.IsZero() {
		return u.ID.Hex()
	}
	return u.Email
}

// ProfileUpdate is a partial update of the mutable profile fields.
type ProfileUpdate struct {
	Username     *string `json:"username"`
	ProfilePhoto *string `json:"profilePhoto"`
	Bio          *string `json:"bio"`
}
