package chat

import (
	"context"
	"sync"

	"github.com/miachat/miachat/plugin/ai"
)

// In-memory fakes used by package tests and local wiring without a database.

// MockSessionStore keeps sessions in a map.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	GetErr    error
	CreateErr error
}

var _ SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]*Session)}
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (m *MockSessionStore) Create(ctx context.Context, session *Session) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *MockSessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MockHistory keeps per-session message logs in memory.
type MockHistory struct {
	mu   sync.Mutex
	logs map[string][]Message

	FetchErr  error
	AppendErr error
}

var _ HistoryService = (*MockHistory)(nil)

func NewMockHistory() *MockHistory {
	return &MockHistory{logs: make(map[string][]Message)}
}

func (m *MockHistory) FetchRecent(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	log := m.logs[sessionID]
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}
	out := make([]Message, len(log))
	copy(out, log)
	return out, nil
}

func (m *MockHistory) Append(ctx context.Context, msg Message) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[msg.SessionID] = append(m.logs[msg.SessionID], msg)
	return nil
}

func (m *MockHistory) Messages(sessionID string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	log := m.logs[sessionID]
	out := make([]Message, len(log))
	copy(out, log)
	return out
}

// MockVectorIndex returns canned per-role search results and records inserts.
type MockVectorIndex struct {
	mu       sync.Mutex
	results  map[Role][]ScoredMessage
	inserted []Message

	SearchErr error
	InsertErr error
}

var _ VectorIndex = (*MockVectorIndex)(nil)

func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{results: make(map[Role][]ScoredMessage)}
}

func (m *MockVectorIndex) SetResults(role Role, results []ScoredMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[role] = results
}

func (m *MockVectorIndex) Search(ctx context.Context, query SearchQuery) ([]ScoredMessage, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	results := m.results[query.Role]
	out := make([]ScoredMessage, len(results))
	copy(out, results)
	return out, nil
}

func (m *MockVectorIndex) Insert(ctx context.Context, msg Message) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, msg)
	return nil
}

func (m *MockVectorIndex) Inserted() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.inserted))
	copy(out, m.inserted)
	return out
}

// MockLLM returns a fixed reply and records every request it receives.
type MockLLM struct {
	mu       sync.Mutex
	requests [][]ai.Message

	Reply string
	Err   error
}

var _ ai.LLMService = (*MockLLM)(nil)

func (m *MockLLM) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	m.mu.Lock()
	copied := make([]ai.Message, len(messages))
	copy(copied, messages)
	m.requests = append(m.requests, copied)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockLLM) Requests() [][]ai.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]ai.Message, len(m.requests))
	copy(out, m.requests)
	return out
}
