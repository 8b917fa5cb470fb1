package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/milopalmaerts/travel-planner-app/events"
	"github.com/milopalmaerts/travel-planner-app/identity"
	"github.com/milopalmaerts/travel-planner-app/models"
	"github.com/milopalmaerts/travel-planner-app/persistence"
)

// PlacesStore is the single source of truth for one session: the current
// user's places, friend set and the demo fixtures backing the social views.
// Mutations are write-through: memory changes first so callers see the
// result immediately, then the full collection is written to the backend.
// A failed write is returned to the caller but the in-memory change stays;
// the next successful write reconciles the backend.
type PlacesStore struct {
	mu       sync.Mutex
	backend  persistence.Backend
	provider identity.Provider
	events   events.Publisher
	log      zerolog.Logger

	user    models.User
	places  []models.Place
	friends []string
	demo    []models.DemoUser
	loaded  bool
}

func NewPlacesStore(backend persistence.Backend, provider identity.Provider, pub events.Publisher, logger zerolog.Logger) *PlacesStore {
	if pub == nil {
		pub = events.Noop{}
	}
	return &PlacesStore{
		backend:  backend,
		provider: provider,
		events:   pub,
		log:      logger,
		demo:     models.DemoUsers(),
	}
}

// Login resolves the credentials through the identity provider, then loads
// the user's collections from the backend.
func (s *PlacesStore) Login(ctx context.Context, creds identity.Credentials) (models.User, error) {
	user, err := s.provider.Authenticate(ctx, creds)
	if err != nil {
		return models.User{}, err
	}
	if err := s.StartSession(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// StartSession sets the current user and loads their collections. The HTTP
// layer calls this directly once a bearer token has been verified.
func (s *PlacesStore) StartSession(ctx context.Context, user models.User) error {
	s.mu.Lock()
	s.user = user
	s.loaded = false
	s.mu.Unlock()
	return s.Load(ctx)
}

// Load populates places, friends and the profile overlay from the backend.
// Missing keys are treated as empty.
func (s *PlacesStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user.Key() == "" {
		return ErrNoSession
	}
	key := s.user.Key()

	raw, ok, err := s.backend.ReadCollection(ctx, persistence.KeyPlaces, key)
	if err != nil {
		return fmt.Errorf("load places: %w", err)
	}
	s.places = nil
	if ok {
		if err := json.Unmarshal(raw, &s.places); err != nil {
			return fmt.Errorf("decode places: %w", err)
		}
	}

	raw, ok, err = s.backend.ReadCollection(ctx, persistence.KeyFriends, key)
	if err != nil {
		return fmt.Errorf("load friends: %w", err)
	}
	s.friends = nil
	if ok {
		if err := json.Unmarshal(raw, &s.friends); err != nil {
			return fmt.Errorf("decode friends: %w", err)
		}
	}

	raw, ok, err = s.backend.ReadCollection(ctx, persistence.KeyProfile, key)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if ok {
		var p profileDoc
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}
		if p.Username != "" {
			s.user.Username = p.Username
		}
		if p.ProfilePhoto != "" {
			s.user.ProfilePhoto = p.ProfilePhoto
		}
		if p.Bio != "" {
			s.user.Bio = p.Bio
		}
	}

	s.loaded = true
	return nil
}

// Logout clears the session state. Persisted data stays untouched for the
// next login; demo fixtures reset so session-local likes do not leak.
func (s *PlacesStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = models.User{}
	s.places = nil
	s.friends = nil
	s.demo = models.DemoUsers()
	s.loaded = false
}

func (s *PlacesStore) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user.Key() != ""
}

// Places returns a copy of the current collection, newest first.
func (s *PlacesStore) Places() []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := copyPlaces(s.places)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *PlacesStore) PlaceByID(id string) (models.Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.places {
		if p.ID == id {
			return p, true
		}
	}
	return models.Place{}, false
}

// PlacesByLocation filters by country and/or city; empty values match all.
func (s *PlacesStore) PlacesByLocation(country, city string) []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Place, 0)
	for _, p := range s.places {
		if country != "" && p.Country != country {
			continue
		}
		if city != "" && p.City != city {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GroupByCountry partitions the collection: every place lands in exactly
// one country bucket.
func (s *PlacesStore) GroupByCountry() map[string][]models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string][]models.Place)
	for _, p := range s.places {
		groups[p.Country] = append(groups[p.Country], p)
	}
	return groups
}

func (s *PlacesStore) FilterByCategory(cat models.Category) []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Place, 0)
	for _, p := range s.places {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// PlaceStats summarizes the collection for profile screens.
type PlaceStats struct {
	Places    int `json:"places"`
	Visited   int `json:"visited"`
	Favorites int `json:"favorites"`
	Countries int `json:"countries"`
}

func (s *PlacesStore) CountPlaces() PlaceStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := PlaceStats{Places: len(s.places)}
	countries := make(map[string]struct{})
	for _, p := range s.places {
		if p.Visited {
			stats.Visited++
		}
		if p.Favorite {
			stats.Favorites++
		}
		countries[p.Country] = struct{}{}
	}
	stats.Countries = len(countries)
	return stats
}

// AddPlace validates the draft, assigns id and defaults, appends the place
// and writes the collection through.
func (s *PlacesStore) AddPlace(ctx context.Context, draft models.PlaceDraft) (models.Place, error) {
	if err := validateDraft(draft); err != nil {
		return models.Place{}, err
	}

	s.mu.Lock()
	if s.user.Key() == "" {
		s.mu.Unlock()
		return models.Place{}, ErrNoSession
	}

	isPublic := true
	if draft.IsPublic != nil {
		isPublic = *draft.IsPublic
	}

	place := models.Place{
		ID:          uuid.NewString(),
		UserID:      s.user.Key(),
		Name:        draft.Name,
		Category:    draft.Category,
		Description: draft.Description,
		Address:     draft.Address,
		Postcode:    draft.Postcode,
		City:        draft.City,
		Country:     draft.Country,
		Latitude:    draft.Latitude,
		Longitude:   draft.Longitude,
		Photo:       draft.Photo,
		Visited:     false,
		Favorite:    false,
		IsPublic:    isPublic,
		CreatedAt:   time.Now().UTC(),
	}
	s.places = append(s.places, place)
	err := s.persistPlacesLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return place, err
	}

	s.events.Publish(events.SubjectPlaceCreated, map[string]any{
		"userId":  place.UserID,
		"placeId": place.ID,
		"name":    place.Name,
		"country": place.Country,
	})
	return place, nil
}

// UpdatePlace merges the partial into the matching record. A missing id is
// a no-op, not an error: ok=false tells the caller nothing matched.
func (s *PlacesStore) UpdatePlace(ctx context.Context, id string, upd models.PlaceUpdate) (models.Place, bool, error) {
	if err := validateUpdate(upd); err != nil {
		return models.Place{}, false, err
	}

	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Place{}, false, nil
	}

	p := &s.places[idx]
	applyUpdate(p, upd)
	place := *p
	err := s.persistPlacesLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return place, true, err
	}

	s.events.Publish(events.SubjectPlaceUpdated, map[string]any{
		"userId":  place.UserID,
		"placeId": place.ID,
	})
	return place, true, nil
}

// DeletePlace removes the matching record; a missing id is a no-op.
func (s *PlacesStore) DeletePlace(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	userID := s.places[idx].UserID
	s.places = append(s.places[:idx], s.places[idx+1:]...)
	err := s.persistPlacesLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return true, err
	}

	s.events.Publish(events.SubjectPlaceDeleted, map[string]any{
		"userId":  userID,
		"placeId": id,
	})
	return true, nil
}

func (s *PlacesStore) ToggleVisited(ctx context.Context, id string) (models.Place, bool, error) {
	return s.toggleFlag(ctx, id, func(p *models.Place) { p.Visited = !p.Visited })
}

func (s *PlacesStore) ToggleFavorite(ctx context.Context, id string) (models.Place, bool, error) {
	return s.toggleFlag(ctx, id, func(p *models.Place) { p.Favorite = !p.Favorite })
}

func (s *PlacesStore) toggleFlag(ctx context.Context, id string, flip func(*models.Place)) (models.Place, bool, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Place{}, false, nil
	}

	flip(&s.places[idx])
	place := s.places[idx]
	err := s.persistPlacesLocked(ctx)
	s.mu.Unlock()

	return place, true, err
}

// ToggleLikePlace adds or removes the current user's id from the likes set
// of a place owned by ownerID. Demo-owned places are mutated in memory
// only; they never go through the write path. A second call by the same
// user undoes the first.
func (s *PlacesStore) ToggleLikePlace(ctx context.Context, placeID, ownerID string) (models.Place, error) {
	s.mu.Lock()
	liker := s.user.Key()
	if liker == "" {
		s.mu.Unlock()
		return models.Place{}, ErrNoSession
	}

	// Demo fixtures first.
	for di := range s.demo {
		if s.demo[di].ID != ownerID {
			continue
		}
		for pi := range s.demo[di].Places {
			if s.demo[di].Places[pi].ID != placeID {
				continue
			}
			toggleLike(&s.demo[di].Places[pi], liker)
			place := s.demo[di].Places[pi]
			s.mu.Unlock()

			s.events.Publish(events.SubjectPlaceLiked, map[string]any{
				"userId":  liker,
				"placeId": placeID,
				"ownerId": ownerID,
			})
			return place, nil
		}
		s.mu.Unlock()
		return models.Place{}, ErrNotFound
	}

	// Own collection.
	if ownerID == liker {
		idx := s.indexOfLocked(placeID)
		if idx < 0 {
			s.mu.Unlock()
			return models.Place{}, ErrNotFound
		}
		toggleLike(&s.places[idx], liker)
		place := s.places[idx]
		err := s.persistPlacesLocked(ctx)
		s.mu.Unlock()
		if err != nil {
			return place, err
		}
		s.events.Publish(events.SubjectPlaceLiked, map[string]any{
			"userId":  liker,
			"placeId": placeID,
			"ownerId": ownerID,
		})
		return place, nil
	}
	s.mu.Unlock()

	// Another real user's collection: read, toggle, write back. Last write
	// wins if the owner is active at the same time.
	raw, ok, err := s.backend.ReadCollection(ctx, persistence.KeyPlaces, ownerID)
	if err != nil {
		return models.Place{}, fmt.Errorf("load owner places: %w", err)
	}
	if !ok {
		return models.Place{}, ErrNotFound
	}
	var ownerPlaces []models.Place
	if err := json.Unmarshal(raw, &ownerPlaces); err != nil {
		return models.Place{}, fmt.Errorf("decode owner places: %w", err)
	}

	for i := range ownerPlaces {
		if ownerPlaces[i].ID != placeID {
			continue
		}
		toggleLike(&ownerPlaces[i], liker)
		place := ownerPlaces[i]

		data, err := json.Marshal(ownerPlaces)
		if err != nil {
			return models.Place{}, fmt.Errorf("encode owner places: %w", err)
		}
		if err := s.backend.WriteCollection(ctx, persistence.KeyPlaces, ownerID, data); err != nil {
			return place, fmt.Errorf("persist owner places: %w", err)
		}

		s.events.Publish(events.SubjectPlaceLiked, map[string]any{
			"userId":  liker,
			"placeId": placeID,
			"ownerId": ownerID,
		})
		return place, nil
	}
	return models.Place{}, ErrNotFound
}

// UpdateProfile merges the partial into the current user and writes the
// profile collection through.
func (s *PlacesStore) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	s.mu.Lock()
	if s.user.Key() == "" {
		s.mu.Unlock()
		return models.User{}, ErrNoSession
	}

	if upd.Username != nil {
		s.user.Username = *upd.Username
	}
	if upd.ProfilePhoto != nil {
		s.user.ProfilePhoto = *upd.ProfilePhoto
	}
	if upd.Bio != nil {
		s.user.Bio = *upd.Bio
	}
	user := s.user

	doc := profileDoc{
		Username:     user.Username,
		ProfilePhoto: user.ProfilePhoto,
		Bio:          user.Bio,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		s.mu.Unlock()
		return user, fmt.Errorf("encode profile: %w", err)
	}
	err = s.backend.WriteCollection(ctx, persistence.KeyProfile, user.Key(), data)
	s.mu.Unlock()

	if err != nil {
		return user, fmt.Errorf("persist profile: %w", err)
	}
	return user, nil
}

// Friends returns a copy of the friend id set.
func (s *PlacesStore) Friends() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.friends))
	copy(out, s.friends)
	return out
}

// AddFriend inserts id into the friend set. Idempotent; adding yourself is
// a no-op.
func (s *PlacesStore) AddFriend(ctx context.Context, id string) error {
	s.mu.Lock()
	me := s.user.Key()
	if me == "" {
		s.mu.Unlock()
		return ErrNoSession
	}
	if id == me || containsString(s.friends, id) {
		s.mu.Unlock()
		return nil
	}

	s.friends = append(s.friends, id)
	err := s.persistFriendsLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.events.Publish(events.SubjectFriendAdded, map[string]any{"userId": me, "friendId": id})
	return nil
}

// RemoveFriend removes id from the friend set; removing an absent id is a
// no-op.
func (s *PlacesStore) RemoveFriend(ctx context.Context, id string) error {
	s.mu.Lock()
	me := s.user.Key()
	if me == "" {
		s.mu.Unlock()
		return ErrNoSession
	}

	idx := -1
	for i, f := range s.friends {
		if f == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	s.friends = append(s.friends[:idx], s.friends[idx+1:]...)
	err := s.persistFriendsLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.events.Publish(events.SubjectFriendRemoved, map[string]any{"userId": me, "friendId": id})
	return nil
}

// DemoUsers returns a copy of the fixture set with the session's like
// toggles applied.
func (s *PlacesStore) DemoUsers() []models.DemoUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDemo(s.demo)
}

// FriendProfiles returns the demo users the current user has added.
func (s *PlacesStore) FriendProfiles() []models.DemoUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DemoUser, 0)
	for _, d := range s.demo {
		if containsString(s.friends, d.ID) {
			out = append(out, copyDemoUser(d))
		}
	}
	return out
}

// Discover returns the demo users not yet in the friend set.
func (s *PlacesStore) Discover() []models.DemoUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DemoUser, 0)
	for _, d := range s.demo {
		if !containsString(s.friends, d.ID) {
			out = append(out, copyDemoUser(d))
		}
	}
	return out
}

// PublicPlaces returns the current user's public places followed by the
// public places of added friends.
func (s *PlacesStore) PublicPlaces() []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Place, 0)
	for _, p := range s.places {
		if p.IsPublic {
			out = append(out, p)
		}
	}
	for _, d := range s.demo {
		if !containsString(s.friends, d.ID) {
			continue
		}
		for _, p := range d.Places {
			if p.IsPublic {
				out = append(out, p)
			}
		}
	}
	return out
}

// ----- internals -----

type profileDoc struct {
	Username     string `json:"username"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

func (s *PlacesStore) indexOfLocked(id string) int {
	for i, p := range s.places {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *PlacesStore) persistPlacesLocked(ctx context.Context) error {
	data, err := json.Marshal(s.places)
	if err != nil {
		return fmt.Errorf("encode places: %w", err)
	}
	if err := s.backend.WriteCollection(ctx, persistence.KeyPlaces, s.user.Key(), data); err != nil {
		s.log.Error().Err(err).Str("user", s.user.Key()).Msg("persist places failed; memory ahead of backend")
		return fmt.Errorf("persist places: %w", err)
	}
	return nil
}

func (s *PlacesStore) persistFriendsLocked(ctx context.Context) error {
	data, err := json.Marshal(s.friends)
	if err != nil {
		return fmt.Errorf("encode friends: %w", err)
	}
	if err := s.backend.WriteCollection(ctx, persistence.KeyFriends, s.user.Key(), data); err != nil {
		s.log.Error().Err(err).Str("user", s.user.Key()).Msg("persist friends failed; memory ahead of backend")
		return fmt.Errorf("persist friends: %w", err)
	}
	return nil
}

func validateDraft(d models.PlaceDraft) error {
	var ve ValidationError
	if d.Name == "" {
		ve.add("name", "name is required")
	}
	if d.Category == "" {
		ve.add("category", "category is required")
	} else if !d.Category.IsValid() {
		ve.add("category", "unknown category")
	}
	if d.City == "" {
		ve.add("city", "city is required")
	}
	if d.Country == "" {
		ve.add("country", "country is required")
	}
	validateGeo(&ve, d.Latitude, d.Longitude)
	return ve.orNil()
}

func validateUpdate(u models.PlaceUpdate) error {
	var ve ValidationError
	if u.Name != nil && *u.Name == "" {
		ve.add("name", "name cannot be empty")
	}
	if u.Category != nil && !u.Category.IsValid() {
		ve.add("category", "unknown category")
	}
	if u.City != nil && *u.City == "" {
		ve.add("city", "city cannot be empty")
	}
	if u.Country != nil && *u.Country == "" {
		ve.add("country", "country cannot be empty")
	}
	validateGeo(&ve, u.Latitude, u.Longitude)
	return ve.orNil()
}

func validateGeo(ve *ValidationError, lat, lon *float64) {
	if lat != nil && (*lat < -90 || *lat > 90) {
		ve.add("latitude", "latitude must be between -90 and 90")
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		ve.add("longitude", "longitude must be between -180 and 180")
	}
	if (lat == nil) != (lon == nil) {
		ve.add("longitude", "latitude and longitude must be provided together")
	}
}

func applyUpdate(p *models.Place, u models.PlaceUpdate) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.Postcode != nil {
		p.Postcode = *u.Postcode
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.Country != nil {
		p.Country = *u.Country
	}
	if u.Latitude != nil {
		p.Latitude = u.Latitude
	}
	if u.Longitude != nil {
		p.Longitude = u.Longitude
	}
	if u.Photo != nil {
		p.Photo = *u.Photo
	}
	if u.Visited != nil {
		p.Visited = *u.Visited
	}
	if u.Favorite != nil {
		p.Favorite = *u.Favorite
	}
	if u.IsPublic != nil {
		p.IsPublic = *u.IsPublic
	}
}

func toggleLike(p *models.Place, userID string) {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return
		}
	}
	p.Likes = append(p.Likes, userID)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func copyPlaces(in []models.Place) []models.Place {
	out := make([]models.Place, len(in))
	copy(out, in)
	return out
}

func copyDemoUser(d models.DemoUser) models.DemoUser {
	d.Places = copyPlaces(d.Places)
	return d
}

func copyDemo(in []models.DemoUser) []models.DemoUser {
	out := make([]models.DemoUser, 0, len(in))
	for _, d := range in {
		out = append(out, copyDemoUser(d))
	}
	return out
}
