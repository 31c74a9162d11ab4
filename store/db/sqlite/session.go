package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/miachat/miachat/store"
)

// CreateChatSession creates a chat session.
func (d *DB) CreateChatSession(ctx context.Context, create *store.ChatSession) (*store.ChatSession, error) {
	stmt := `
		INSERT INTO chat_session (id, provider, created_ts)
		VALUES (?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, stmt, create.ID, create.Provider, create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create chat session")
	}
	return create, nil
}

// ListChatSessions lists chat sessions.
func (d *DB) ListChatSessions(ctx context.Context, find *store.FindChatSession) ([]*store.ChatSession, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}

	query := `
		SELECT id, provider, created_ts
		FROM chat_session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chat sessions")
	}
	defer rows.Close()

	list := []*store.ChatSession{}
	for rows.Next() {
		var session store.ChatSession
		if err := rows.Scan(&session.ID, &session.Provider, &session.CreatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat session")
		}
		list = append(list, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
