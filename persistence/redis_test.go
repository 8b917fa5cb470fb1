package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client)
}

func TestRedisBackendRoundTrip(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()

	_, ok, err := r.ReadCollection(ctx, KeyPlaces, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	doc := json.RawMessage(`[{"id":"p1","name":"Eiffel Tower"}]`)
	require.NoError(t, r.WriteCollection(ctx, KeyPlaces, "u1", doc))

	got, ok, err := r.ReadCollection(ctx, KeyPlaces, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(doc), string(got))

	// Replacement semantics, and per-user namespacing.
	require.NoError(t, r.WriteCollection(ctx, KeyPlaces, "u1", json.RawMessage(`[]`)))
	got, _, err = r.ReadCollection(ctx, KeyPlaces, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	_, ok, err = r.ReadCollection(ctx, KeyPlaces, "u2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackendKeyScheme(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRedisWithClient(client)
	ctx := context.Background()

	require.NoError(t, r.WriteCollection(ctx, KeyFriends, "a@b.com", json.RawMessage(`["demo-emma"]`)))
	assert.True(t, srv.Exists("travel:friends:a@b.com"))
}
