package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// ChatSession model related methods.
	CreateChatSession(ctx context.Context, create *ChatSession) (*ChatSession, error)
	ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error)

	// ChatMessage model related methods. The message log is append-only;
	// there is no update or delete.
	CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error)
	ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error)

	// MessageEmbedding model related methods.
	CreateMessageEmbedding(ctx context.Context, create *MessageEmbedding) (*MessageEmbedding, error)
	SearchMessageEmbeddings(ctx context.Context, opts *VectorSearchOptions) ([]*MessageWithScore, error)
}
