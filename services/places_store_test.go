package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milopalmaerts/travel-planner-app/events"
	"github.com/milopalmaerts/travel-planner-app/identity"
	"github.com/milopalmaerts/travel-planner-app/models"
	"github.com/milopalmaerts/travel-planner-app/persistence"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (r *recordingPublisher) Publish(subject string, _ any) {
	r.mu.Lock()
	r.subjects = append(r.subjects, subject)
	r.mu.Unlock()
}

func (r *recordingPublisher) seen(subject string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// failingBackend wraps Memory and fails writes on demand.
type failingBackend struct {
	*persistence.Memory
	failWrites bool
}

func (f *failingBackend) WriteCollection(ctx context.Context, key, userID string, data json.RawMessage) error {
	if f.failWrites {
		return errors.New("backend down")
	}
	return f.Memory.WriteCollection(ctx, key, userID, data)
}

func testUser(email string) models.User {
	return models.User{Email: email, Username: "tester"}
}

func newTestStore(t *testing.T) (*PlacesStore, *persistence.Memory, *recordingPublisher) {
	t.Helper()
	backend := persistence.NewMemory()
	pub := &recordingPublisher{}
	store := NewPlacesStore(backend, identity.NewMemoryProvider(), pub, zerolog.Nop())
	require.NoError(t, store.StartSession(context.Background(), testUser("a@b.com")))
	return store, backend, pub
}

func validDraft() models.PlaceDraft {
	return models.PlaceDraft{
		Name:     "Eiffel Tower",
		Category: models.CategoryViewpoint,
		City:     "Paris",
		Country:  "France",
	}
}

func TestAddPlaceDefaults(t *testing.T) {
	store, _, pub := newTestStore(t)
	ctx := context.Background()

	place, err := store.AddPlace(ctx, validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, place.ID)
	assert.False(t, place.Visited)
	assert.False(t, place.Favorite)
	assert.True(t, place.IsPublic)
	assert.False(t, place.CreatedAt.IsZero())
	assert.Equal(t, "a@b.com", place.UserID)

	places := store.Places()
	require.Len(t, places, 1)
	assert.Equal(t, place.ID, places[0].ID)
	assert.True(t, pub.seen(events.SubjectPlaceCreated))

	second, err := store.AddPlace(ctx, validDraft())
	require.NoError(t, err)
	assert.NotEqual(t, place.ID, second.ID)
	assert.Len(t, store.Places(), 2)
}

func TestAddPlaceValidation(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddPlace(ctx, models.PlaceDraft{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["category"])
	assert.True(t, fields["city"])
	assert.True(t, fields["country"])

	d := validDraft()
	d.Category = "spaceport"
	_, err = store.AddPlace(ctx, d)
	require.ErrorAs(t, err, &ve)

	lat, lon := 91.0, 2.2945
	d = validDraft()
	d.Latitude, d.Longitude = &lat, &lon
	_, err = store.AddPlace(ctx, d)
	require.ErrorAs(t, err, &ve)

	// latitude without longitude
	d = validDraft()
	d.Latitude = &lon
	d.Longitude = nil
	_, err = store.AddPlace(ctx, d)
	require.ErrorAs(t, err, &ve)

	assert.Empty(t, store.Places(), "no mutation on validation failure")
}

func TestToggleFavoriteInvolution(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	place, err := store.AddPlace(ctx, validDraft())
	require.NoError(t, err)

	p1, found, err := store.ToggleFavorite(ctx, place.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, p1.Favorite)

	p2, found, err := store.ToggleFavorite(ctx, place.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, p2.Favorite)
}

func TestAddToggleVisitedDeleteScenario(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	place, err := store.AddPlace(ctx, validDraft())
	require.NoError(t, err)
	assert.False(t, place.Visited)

	p, found, err := store.ToggleVisited(ctx, place.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, p.Visited)

	stats := store.CountPlaces()
	assert.Equal(t, PlaceStats{Places: 1, Visited: 1, Countries: 1}, stats)

	found, err = store.DeletePlace(ctx, place.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, store.Places())
	assert.Equal(t, PlaceStats{}, store.CountPlaces())
}

func TestUpdatePlace(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	place, err := store.AddPlace(ctx, validDraft())
	require.NoError(t, err)

	desc := "Iron lattice tower on the Champ de Mars"
	updated, found, err := store.UpdatePlace(ctx, place.ID, models.PlaceUpdate{Description: &desc})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, place.ID, updated.ID)
	assert.Equal(t, place.UserID, updated.UserID)
	assert.Equal(t, place.CreatedAt, updated.CreatedAt)
	assert.Equal(t, place.Name, updated.Name, "untouched fields keep their value")

	_, found, err = store.UpdatePlace(ctx, "no-such-id", models.PlaceUpdate{Description: &desc})
	require.NoError(t, err)
	assert.False(t, found, "missing id is a lenient no-op")
}

func TestDeleteThenUpdateDoesNotResurrect(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	place, err := store.AddPlace(ctx, validDraft())
	require.NoError(t, err)

	found, err := store.DeletePlace(ctx, place.ID)
	require.NoError(t, err)
	require.True(t, found)

	name := "Zombie"
	_, found, err = store.UpdatePlace(ctx, place.ID, models.PlaceUpdate{Name: &name})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, store.Places())
}

func TestToggleLikeIdempotentPair(t *testing.T) {
	store, _, pub := newTestStore(t)
	ctx := context.Background()

	demo := store.DemoUsers()
	require.NotEmpty(t, demo)
	owner := demo[0]
	target := owner.Places[0]
	before := append([]string(nil), target.Likes...)

	liked, err := store.ToggleLikePlace(ctx, target.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, liked.LikedBy("a@b.com"))
	assert.True(t, pub.seen(events.SubjectPlaceLiked))

	unliked, err := store.ToggleLikePlace(ctx, target.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, unliked.LikedBy("a@b.com"))
	assert.ElementsMatch(t, before, unliked.Likes)
}

func TestToggleLikeOnOtherUsersCollection(t *testing.T) {
	backend := persistence.NewMemory()
	pub := &recordingPublisher{}
	ctx := context.Background()

	// The owner writes one public place.
	owner := NewPlacesStore(backend, identity.NewMemoryProvider(), pub, zerolog.Nop())
	require.NoError(t, owner.StartSession(ctx, testUser("owner@b.com")))
	place, err := owner.AddPlace(ctx, validDraft())
	require.NoError(t, err)

	liker := NewPlacesStore(backend, identity.NewMemoryProvider(), pub, zerolog.Nop())
	require.NoError(t, liker.StartSession(ctx, testUser("liker@b.com")))

	liked, err := liker.ToggleLikePlace(ctx, place.ID, "owner@b.com")
	require.NoError(t, err)
	assert.True(t, liked.LikedBy("liker@b.com"))

	// The owner sees the like after a reload.
	require.NoError(t, owner.Load(ctx))
	got, found := owner.PlaceByID(place.ID)
	require.True(t, found)
	assert.True(t, got.LikedBy("liker@b.com"))

	_, err = liker.ToggleLikePlace(ctx, "no-such-place", "owner@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddFriendIdempotent(t *testing.T) {
	store, _, pub := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddFriend(ctx, "demo-emma"))
	require.NoError(t, store.AddFriend(ctx, "demo-emma"))
	assert.Equal(t, []string{"demo-emma"}, store.Friends())
	assert.True(t, pub.seen(events.SubjectFriendAdded))

	require.NoError(t, store.AddFriend(ctx, "a@b.com"), "adding yourself is a no-op")
	assert.Equal(t, []string{"demo-emma"}, store.Friends())

	require.NoError(t, store.RemoveFriend(ctx, "demo-emma"))
	require.NoError(t, store.RemoveFriend(ctx, "demo-emma"))
	assert.Empty(t, store.Friends())
}

func TestLoginLogoutKeepsBackendData(t *testing.T) {
	backend := persistence.NewMemory()
	provider := identity.NewMemoryProvider()
	ctx := context.Background()

	_, err := provider.Register(ctx, identity.Registration{Name: "Tester", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	store := NewPlacesStore(backend, provider, nil, zerolog.Nop())
	user, err := store.Login(ctx, identity.Credentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, user.Key())

	_, err = store.AddPlace(ctx, validDraft())
	require.NoError(t, err)
	require.NoError(t, store.AddFriend(ctx, "demo-liam"))

	store.Logout()
	assert.Empty(t, store.Places())
	assert.Empty(t, store.Friends())
	_, active := store.CurrentUser()
	assert.False(t, active)

	_, err = store.Login(ctx, identity.Credentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Len(t, store.Places(), 1, "backend copy survives logout")
	assert.Equal(t, []string{"demo-liam"}, store.Friends())

	_, err = store.Login(ctx, identity.Credentials{Email: "a@b.com", Password: "wrong"})
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestGroupByCountryPartition(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	drafts := []models.PlaceDraft{
		{Name: "Eiffel Tower", Category: models.CategoryViewpoint, City: "Paris", Country: "France"},
		{Name: "Le Procope", Category: models.CategoryRestaurant, City: "Paris", Country: "France"},
		{Name: "Colosseum", Category: models.CategoryViewpoint, City: "Rome", Country: "Italy"},
	}
	for _, d := range drafts {
		_, err := store.AddPlace(ctx, d)
		require.NoError(t, err)
	}

	groups := store.GroupByCountry()
	total := 0
	seen := map[string]bool{}
	for _, places := range groups {
		for _, p := range places {
			assert.False(t, seen[p.ID], "place appears in exactly one group")
			seen[p.ID] = true
			total++
		}
	}
	assert.Equal(t, 3, total)
	assert.Len(t, groups["France"], 2)
	assert.Len(t, groups["Italy"], 1)

	viewpoints := store.FilterByCategory(models.CategoryViewpoint)
	assert.Len(t, viewpoints, 2)

	assert.Len(t, store.PlacesByLocation("France", ""), 2)
	assert.Len(t, store.PlacesByLocation("France", "Paris"), 2)
	assert.Len(t, store.PlacesByLocation("Italy", "Paris"), 0)
}

func TestPersistenceFailureKeepsMemory(t *testing.T) {
	backend := &failingBackend{Memory: persistence.NewMemory()}
	store := NewPlacesStore(backend, identity.NewMemoryProvider(), nil, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, store.StartSession(ctx, testUser("a@b.com")))

	backend.failWrites = true
	place, err := store.AddPlace(ctx, validDraft())
	require.Error(t, err)
	assert.NotEmpty(t, place.ID)
	assert.Len(t, store.Places(), 1, "optimistic change survives the failed write")

	// The next successful write reconciles the backend.
	backend.failWrites = false
	_, _, err = store.ToggleVisited(ctx, place.ID)
	require.NoError(t, err)

	raw, ok, err := backend.ReadCollection(ctx, persistence.KeyPlaces, "a@b.com")
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []models.Place
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Len(t, persisted, 1)
}

func TestDiscoveryViews(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	all := store.DemoUsers()
	require.GreaterOrEqual(t, len(all), 2)

	require.NoError(t, store.AddFriend(ctx, all[0].ID))

	profiles := store.FriendProfiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, all[0].ID, profiles[0].ID)

	discover := store.Discover()
	assert.Len(t, discover, len(all)-1)
	for _, d := range discover {
		assert.NotEqual(t, all[0].ID, d.ID)
	}

	pub := true
	d := validDraft()
	d.IsPublic = &pub
	_, err := store.AddPlace(ctx, d)
	require.NoError(t, err)

	priv := false
	d2 := validDraft()
	d2.Name = "Secret spot"
	d2.IsPublic = &priv
	_, err = store.AddPlace(ctx, d2)
	require.NoError(t, err)

	public := store.PublicPlaces()
	for _, p := range public {
		assert.True(t, p.IsPublic)
		assert.NotEqual(t, "Secret spot", p.Name)
	}
	// own public place + friend's public fixtures
	ownCount := 0
	friendCount := 0
	for _, p := range public {
		if p.UserID == "a@b.com" {
			ownCount++
		}
		if p.UserID == all[0].ID {
			friendCount++
		}
	}
	assert.Equal(t, 1, ownCount)
	assert.Greater(t, friendCount, 0)
}

func TestDemoLikesNeverPersisted(t *testing.T) {
	store, backend, _ := newTestStore(t)
	ctx := context.Background()

	demo := store.DemoUsers()
	owner := demo[0]
	_, err := store.ToggleLikePlace(ctx, owner.Places[0].ID, owner.ID)
	require.NoError(t, err)

	_, ok, err := backend.ReadCollection(ctx, persistence.KeyPlaces, owner.ID)
	require.NoError(t, err)
	assert.False(t, ok, "demo collections never reach the write path")
}
