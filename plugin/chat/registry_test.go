package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryResolveExisting(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionStore()
	registry := NewRegistry(sessions)

	id, err := registry.ResolveOrCreate(ctx, "", ProviderGemini)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, sessions.Len())

	// Repeated resolution of a known id is stable, whatever provider the
	// request names.
	for _, provider := range []ModelProvider{ProviderGemini, ProviderOpenAI} {
		resolved, err := registry.ResolveOrCreate(ctx, id, provider)
		require.NoError(t, err)
		require.Equal(t, id, resolved)
	}
	require.Equal(t, 1, sessions.Len())
}

func TestRegistryCreatesDistinctSessions(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionStore()
	registry := NewRegistry(sessions)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := registry.ResolveOrCreate(ctx, "", ProviderOpenAI)
		require.NoError(t, err)
		require.False(t, seen[id], "session id %q issued twice", id)
		seen[id] = true
	}
	require.Equal(t, 20, sessions.Len())
}

func TestRegistryUnknownIDStartsFreshSession(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionStore()
	registry := NewRegistry(sessions)

	id, err := registry.ResolveOrCreate(ctx, "no-such-session", ProviderGemini)
	require.NoError(t, err)
	require.NotEqual(t, "no-such-session", id)

	stored, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, ProviderGemini, stored.Provider)
}

func TestRegistryStorageFailure(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionStore()
	sessions.CreateErr = errors.New("connection refused")
	registry := NewRegistry(sessions)

	_, err := registry.ResolveOrCreate(ctx, "", ProviderGemini)
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.True(t, IsRetryable(err))
}
