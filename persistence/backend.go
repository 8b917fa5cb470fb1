// Package persistence holds the storage backends for user-scoped
// collections. Every write replaces the whole collection for a key/user
// pair; there are no partial updates and no transactions.
package persistence

import (
	"context"
	"encoding/json"
)

const (
	KeyPlaces  = "places"
	KeyFriends = "friends"
	KeyProfile = "profile"
)

// Backend stores one JSON document per (key, user) pair.
// ReadCollection returns ok=false when nothing has been written yet;
// absence is not an error.
type Backend interface {
	ReadCollection(ctx context.Context, key, userID string) (json.RawMessage, bool, error)
	WriteCollection(ctx context.Context, key, userID string, data json.RawMessage) error
}
