package store

import "context"

// ChatSession represents a durable conversation thread.
// The identifier is an opaque unique string assigned at creation and never changed.
type ChatSession struct {
	ID        string
	Provider  string
	CreatedTs int64
}

// FindChatSession is the find condition for chat sessions.
type FindChatSession struct {
	ID *string
}

// CreateChatSession creates a new chat session.
func (s *Store) CreateChatSession(ctx context.Context, create *ChatSession) (*ChatSession, error) {
	session, err := s.driver.CreateChatSession(ctx, create)
	if err != nil {
		return nil, err
	}
	s.cacheSession(ctx, session)
	return session, nil
}

// GetChatSession gets a chat session by ID. Returns nil when not found.
func (s *Store) GetChatSession(ctx context.Context, id string) (*ChatSession, error) {
	if cached := s.sessionFromCache(ctx, id); cached != nil {
		return cached, nil
	}

	list, err := s.driver.ListChatSessions(ctx, &FindChatSession{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	s.cacheSession(ctx, list[0])
	return list[0], nil
}
