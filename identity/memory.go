package identity

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/milopalmaerts/travel-planner-app/models"
)

// MemoryProvider is the account store for the local mode (no Mongo
// configured) and for tests. Accounts live only as long as the process.
type MemoryProvider struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{users: make(map[string]models.User)}
}

func (p *MemoryProvider) Register(_ context.Context, reg Registration) (models.User, error) {
	if len(reg.Password) < 6 {
		return models.User{}, ErrWeakPassword
	}
	email := normalizeEmail(reg.Email)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.users[email]; ok {
		return models.User{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), 10)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  reg.Name,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
	}
	p.users[email] = user

	user.Password = ""
	return user, nil
}

func (p *MemoryProvider) Authenticate(_ context.Context, creds Credentials) (models.User, error) {
	email := normalizeEmail(creds.Email)

	p.mu.Lock()
	user, ok := p.users[email]
	p.mu.Unlock()

	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.Password = ""
	return user, nil
}
