package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/milopalmaerts/travel-planner-app/events"
	"github.com/milopalmaerts/travel-planner-app/identity"
	"github.com/milopalmaerts/travel-planner-app/models"
	"github.com/milopalmaerts/travel-planner-app/persistence"
)

// Manager hands out one PlacesStore per authenticated user. Stores are
// created on first use and dropped on logout; they are passed to handlers
// explicitly rather than looked up through a global.
type Manager struct {
	mu       sync.Mutex
	backend  persistence.Backend
	provider identity.Provider
	events   events.Publisher
	log      zerolog.Logger
	stores   map[string]*PlacesStore
}

func NewManager(backend persistence.Backend, provider identity.Provider, pub events.Publisher, logger zerolog.Logger) *Manager {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Manager{
		backend:  backend,
		provider: provider,
		events:   pub,
		log:      logger,
		stores:   make(map[string]*PlacesStore),
	}
}

func (m *Manager) Provider() identity.Provider {
	return m.provider
}

// StoreFor returns the session store for user, loading their collections
// on first use.
func (m *Manager) StoreFor(ctx context.Context, user models.User) (*PlacesStore, error) {
	key := user.Key()

	m.mu.Lock()
	store, ok := m.stores[key]
	m.mu.Unlock()
	if ok {
		return store, nil
	}

	store = NewPlacesStore(m.backend, m.provider, m.events, m.log)
	if err := store.StartSession(ctx, user); err != nil {
		return nil, err
	}

	m.mu.Lock()
	// Lost the race: keep the one already registered.
	if existing, ok := m.stores[key]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.stores[key] = store
	m.mu.Unlock()
	return store, nil
}

// EndSession drops the user's store. Persisted data survives for the next
// login.
func (m *Manager) EndSession(userKey string) {
	m.mu.Lock()
	store, ok := m.stores[userKey]
	delete(m.stores, userKey)
	m.mu.Unlock()

	if ok {
		store.Logout()
	}
}
