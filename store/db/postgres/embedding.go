package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/miachat/miachat/store"
)

// CreateMessageEmbedding inserts a message into the vector index.
func (d *DB) CreateMessageEmbedding(ctx context.Context, create *store.MessageEmbedding) (*store.MessageEmbedding, error) {
	stmt := `
		INSERT INTO message_embedding (message_uid, session_id, role, content, embedding, model, created_ts)
		VALUES (` + placeholders(7) + `)
		RETURNING id
	`
	err := d.db.QueryRowContext(ctx, stmt,
		create.MessageUID,
		create.SessionID,
		create.Role,
		create.Content,
		pgvector.NewVector(create.Embedding),
		create.Model,
		create.CreatedTs,
	).Scan(&create.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create message embedding")
	}
	return create, nil
}

// SearchMessageEmbeddings performs vector similarity search using pgvector.
// The <=> operator computes cosine distance (1 - cosine_similarity), so
// ordering by distance ASC yields most similar first. The score threshold is
// inclusive: results scored exactly at the threshold are kept.
func (d *DB) SearchMessageEmbeddings(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.MessageWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT
			message_uid, session_id, role, content, created_ts,
			1 - (embedding <=> ` + placeholder(1) + `) AS score
		FROM message_embedding
		WHERE session_id = ` + placeholder(2) + `
			AND role = ` + placeholder(3) + `
			AND 1 - (embedding <=> ` + placeholder(4) + `) >= ` + placeholder(5) + `
		ORDER BY embedding <=> ` + placeholder(6) + `, created_ts DESC
		LIMIT ` + placeholder(7)

	vector := pgvector.NewVector(opts.Vector)
	rows, err := d.db.QueryContext(ctx, query,
		vector,
		opts.SessionID,
		opts.Role,
		vector,
		opts.Threshold,
		vector,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search message embeddings")
	}
	defer rows.Close()

	results := []*store.MessageWithScore{}
	for rows.Next() {
		var result store.MessageWithScore
		if err := rows.Scan(
			&result.MessageUID,
			&result.SessionID,
			&result.Role,
			&result.Content,
			&result.CreatedTs,
			&result.Score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
