// Package identity resolves the current user. The store only needs a
// stable id once authenticated; it never sees credentials beyond login.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/milopalmaerts/travel-planner-app/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Provider interface {
	Register(ctx context.Context, reg Registration) (models.User, error)
	Authenticate(ctx context.Context, creds Credentials) (models.User, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
