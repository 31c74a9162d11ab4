package store

import "context"

// MessageEmbedding is the vector-index entry of a dual-homed message.
// Content, role, session and timestamp are duplicated from the linear log on
// purpose: the two stores are independently owned and never joined.
type MessageEmbedding struct {
	ID         int32
	MessageUID string
	SessionID  string
	Role       string
	Content    string
	Embedding  []float32
	Model      string
	CreatedTs  int64
}

// MessageWithScore is a vector search result with its cosine similarity score.
type MessageWithScore struct {
	MessageUID string
	SessionID  string
	Role       string
	Content    string
	CreatedTs  int64
	Score      float32 // similarity score in [0,1], higher is more similar
}

// VectorSearchOptions represents the options for message vector search.
type VectorSearchOptions struct {
	SessionID string
	Role      string    // restrict results to a single role
	Vector    []float32 // query vector
	Limit     int       // number of results to return, default 5
	Threshold float32   // minimum similarity score, inclusive
}

// CreateMessageEmbedding inserts a message into the vector index.
func (s *Store) CreateMessageEmbedding(ctx context.Context, create *MessageEmbedding) (*MessageEmbedding, error) {
	return s.driver.CreateMessageEmbedding(ctx, create)
}

// SearchMessageEmbeddings performs vector similarity search over the index.
func (s *Store) SearchMessageEmbeddings(ctx context.Context, opts *VectorSearchOptions) ([]*MessageWithScore, error) {
	return s.driver.SearchMessageEmbeddings(ctx, opts)
}
