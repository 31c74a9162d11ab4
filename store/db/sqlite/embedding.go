package sqlite

import (
	"context"

	"github.com/pkg/errors"

	"github.com/miachat/miachat/store"
)

// SQLite has no pgvector equivalent. The vector index is PostgreSQL-only;
// callers treat these errors as degraded retrieval, not as turn failures.

// CreateMessageEmbedding is NOT supported for SQLite.
func (d *DB) CreateMessageEmbedding(ctx context.Context, create *store.MessageEmbedding) (*store.MessageEmbedding, error) {
	return nil, errors.New("message embedding (vector storage) requires PostgreSQL with pgvector extension")
}

// SearchMessageEmbeddings is NOT supported for SQLite.
func (d *DB) SearchMessageEmbeddings(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.MessageWithScore, error) {
	return nil, errors.New("vector search requires PostgreSQL with pgvector extension")
}
