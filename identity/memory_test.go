package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderRegisterAndAuthenticate(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	_, err := p.Register(ctx, Registration{Name: "Milo", Email: "milo@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	user, err := p.Register(ctx, Registration{Name: "Milo", Email: "Milo@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "milo@example.com", user.Email, "emails are normalized")
	assert.Empty(t, user.Password, "hash never leaves the provider")
	assert.NotEmpty(t, user.Key())

	_, err = p.Register(ctx, Registration{Name: "Milo", Email: "milo@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := p.Authenticate(ctx, Credentials{Email: "milo@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = p.Authenticate(ctx, Credentials{Email: "milo@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.Authenticate(ctx, Credentials{Email: "ghost@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
