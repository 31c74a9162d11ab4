package store

import "context"

// Message roles. "human" and "assistant" are the dual-homed conversational
// roles; "system" appears only in assembled prompts, never in the stores.
const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one entry of a session's append-only linear log.
// Messages are immutable once written.
type ChatMessage struct {
	ID        int32
	UID       string
	SessionID string
	Role      string
	Content   string
	CreatedTs int64
}

// FindChatMessage is the find condition for chat messages.
type FindChatMessage struct {
	SessionID *string
	// Limit bounds the result set. When OrderDesc is set the most recent
	// messages are returned first.
	Limit     *int
	OrderDesc bool
}

// CreateChatMessage appends a message to the linear history log.
func (s *Store) CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error) {
	return s.driver.CreateChatMessage(ctx, create)
}

// ListChatMessages lists chat messages.
func (s *Store) ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error) {
	return s.driver.ListChatMessages(ctx, find)
}
