// Package chat implements the retrieval-augmented conversation pipeline: per
// turn it resolves a session, assembles a bounded prompt context from recent
// history plus semantically similar past messages, invokes a model, and
// persists the turn to both the linear history log and the vector index.
package chat

import "context"

// Role tags a message within a conversation.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one conversational entry. Human and assistant messages are
// dual-homed: each lives in the linear history log and, with an embedding
// attached, in the vector index. The UID ties the two representations together.
type Message struct {
	UID       string
	SessionID string
	Role      Role
	Content   string
	CreatedTs int64
}

// Session is a durable conversation thread. The identifier is opaque, globally
// unique and immutable once assigned.
type Session struct {
	ID        string
	Provider  ModelProvider
	CreatedTs int64
}

// SessionStore persists session records.
type SessionStore interface {
	// Get returns the session with the given id, or nil when absent.
	Get(ctx context.Context, id string) (*Session, error)
	// Create durably records a new session.
	Create(ctx context.Context, session *Session) error
}

// HistoryService is the append-only linear history log of a session.
type HistoryService interface {
	// FetchRecent returns up to limit most recent messages in chronological
	// order (oldest first within the window).
	FetchRecent(ctx context.Context, sessionID string, limit int) ([]Message, error)
	// Append writes a message to the end of the session's log.
	Append(ctx context.Context, msg Message) error
}

// SearchQuery describes one role-filtered similarity search.
type SearchQuery struct {
	SessionID string
	QueryText string
	Role      Role
	K         int
	Threshold float32 // minimum cosine similarity, inclusive
}

// ScoredMessage is a transient similarity search result.
type ScoredMessage struct {
	Message
	Score float32
}

// VectorIndex stores message embeddings and answers k-nearest-neighbor
// searches filtered by role and thresholded by similarity score.
type VectorIndex interface {
	Search(ctx context.Context, query SearchQuery) ([]ScoredMessage, error)
	Insert(ctx context.Context, msg Message) error
}
