package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok, err := m.ReadCollection(ctx, KeyPlaces, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "absent key is not an error")

	doc := json.RawMessage(`[{"id":"p1"}]`)
	require.NoError(t, m.WriteCollection(ctx, KeyPlaces, "u1", doc))

	got, ok, err := m.ReadCollection(ctx, KeyPlaces, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(doc), string(got))

	// Writes replace the whole collection.
	require.NoError(t, m.WriteCollection(ctx, KeyPlaces, "u1", json.RawMessage(`[]`)))
	got, ok, err = m.ReadCollection(ctx, KeyPlaces, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(got))

	// Keys and users are isolated.
	_, ok, err = m.ReadCollection(ctx, KeyFriends, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = m.ReadCollection(ctx, KeyPlaces, "u2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBackendCopiesData(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	doc := json.RawMessage(`[{"id":"p1"}]`)
	require.NoError(t, m.WriteCollection(ctx, KeyPlaces, "u1", doc))
	doc[2] = 'X'

	got, ok, err := m.ReadCollection(ctx, KeyPlaces, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(got), "caller mutation does not leak into the store")
}
