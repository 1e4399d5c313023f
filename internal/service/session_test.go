package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "jti-1", uuid.New(), time.Hour))

	live, err := store.Exists(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, live)

	live, err = store.Exists(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, live, "unknown session IDs are not live")

	require.NoError(t, store.Revoke(ctx, "jti-1"))

	live, err = store.Exists(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, live)

	assert.NoError(t, store.Revoke(ctx, "jti-1"), "revoking twice is fine")
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "stale", uuid.New(), -time.Second))

	live, err := store.Exists(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, live, "expired sessions should not validate")
}
