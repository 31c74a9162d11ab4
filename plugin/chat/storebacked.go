package chat

import (
	"context"

	"github.com/miachat/miachat/plugin/ai"
	"github.com/miachat/miachat/store"
)

// Store-backed implementations of the pipeline collaborators.

type storeSessions struct {
	store *store.Store
}

var _ SessionStore = (*storeSessions)(nil)

func NewSessionStore(s *store.Store) SessionStore {
	return &storeSessions{store: s}
}

func (s *storeSessions) Get(ctx context.Context, id string) (*Session, error) {
	session, err := s.store.GetChatSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return &Session{
		ID:        session.ID,
		Provider:  ModelProvider(session.Provider),
		CreatedTs: session.CreatedTs,
	}, nil
}

func (s *storeSessions) Create(ctx context.Context, session *Session) error {
	_, err := s.store.CreateChatSession(ctx, &store.ChatSession{
		ID:        session.ID,
		Provider:  string(session.Provider),
		CreatedTs: session.CreatedTs,
	})
	return err
}

type storeHistory struct {
	store *store.Store
}

var _ HistoryService = (*storeHistory)(nil)

func NewHistoryService(s *store.Store) HistoryService {
	return &storeHistory{store: s}
}

func (h *storeHistory) FetchRecent(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	find := &store.FindChatMessage{
		SessionID: &sessionID,
		OrderDesc: true,
	}
	if limit > 0 {
		find.Limit = &limit
	}
	rows, err := h.store.ListChatMessages(ctx, find)
	if err != nil {
		return nil, err
	}

	// The store returns newest-first; callers want chronological order.
	messages := make([]Message, len(rows))
	for i, row := range rows {
		messages[len(rows)-1-i] = Message{
			UID:       row.UID,
			SessionID: row.SessionID,
			Role:      Role(row.Role),
			Content:   row.Content,
			CreatedTs: row.CreatedTs,
		}
	}
	return messages, nil
}

func (h *storeHistory) Append(ctx context.Context, msg Message) error {
	_, err := h.store.CreateChatMessage(ctx, &store.ChatMessage{
		UID:       msg.UID,
		SessionID: msg.SessionID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		CreatedTs: msg.CreatedTs,
	})
	return err
}

type storeIndex struct {
	store    *store.Store
	embedder ai.EmbeddingService
	model    string
}

var _ VectorIndex = (*storeIndex)(nil)

func NewVectorIndex(s *store.Store, embedder ai.EmbeddingService, model string) VectorIndex {
	return &storeIndex{store: s, embedder: embedder, model: model}
}

func (x *storeIndex) Search(ctx context.Context, query SearchQuery) ([]ScoredMessage, error) {
	vector, err := x.embedder.Embed(ctx, query.QueryText)
	if err != nil {
		return nil, err
	}
	rows, err := x.store.SearchMessageEmbeddings(ctx, &store.VectorSearchOptions{
		SessionID: query.SessionID,
		Role:      string(query.Role),
		Vector:    vector,
		Limit:     query.K,
		Threshold: query.Threshold,
	})
	if err != nil {
		return nil, err
	}

	results := make([]ScoredMessage, len(rows))
	for i, row := range rows {
		results[i] = ScoredMessage{
			Message: Message{
				UID:       row.MessageUID,
				SessionID: row.SessionID,
				Role:      Role(row.Role),
				Content:   row.Content,
				CreatedTs: row.CreatedTs,
			},
			Score: row.Score,
		}
	}
	return results, nil
}

func (x *storeIndex) Insert(ctx context.Context, msg Message) error {
	vector, err := x.embedder.Embed(ctx, msg.Content)
	if err != nil {
		return err
	}
	_, err = x.store.CreateMessageEmbedding(ctx, &store.MessageEmbedding{
		MessageUID: msg.UID,
		SessionID:  msg.SessionID,
		Role:       string(msg.Role),
		Content:    msg.Content,
		Embedding:  vector,
		Model:      x.model,
		CreatedTs:  msg.CreatedTs,
	})
	return err
}
