package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Registry resolves session continuity: a recognized session id keeps its
// history, anything else starts a fresh thread.
type Registry struct {
	sessions SessionStore
}

func NewRegistry(sessions SessionStore) *Registry {
	return &Registry{sessions: sessions}
}

// ResolveOrCreate returns the id of the session this turn belongs to. A known
// id is returned unchanged, whatever provider the request names. An empty or
// unrecognized id yields a brand-new session, durably created before the turn
// proceeds so that concurrent turns against the returned id all resolve to it.
func (r *Registry) ResolveOrCreate(ctx context.Context, sessionID string, provider ModelProvider) (string, error) {
	if sessionID != "" {
		session, err := r.sessions.Get(ctx, sessionID)
		if err != nil {
			return "", fmt.Errorf("%w: get session: %v", ErrStorageUnavailable, err)
		}
		if session != nil {
			return session.ID, nil
		}
	}

	session := &Session{
		ID:        uuid.NewString(),
		Provider:  provider,
		CreatedTs: time.Now().Unix(),
	}
	if err := r.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("%w: create session: %v", ErrStorageUnavailable, err)
	}
	return session.ID, nil
}
