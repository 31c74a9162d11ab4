package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miachat/miachat/plugin/ai"
)

type turnFixture struct {
	sessions *MockSessionStore
	history  *MockHistory
	index    *MockVectorIndex
	llm      *MockLLM
	orch     *Orchestrator
}

func newTurnFixture(t *testing.T) *turnFixture {
	t.Helper()
	sessions := NewMockSessionStore()
	history := NewMockHistory()
	index := NewMockVectorIndex()
	llm := &MockLLM{Reply: "你好 (nǐ hǎo) means hello."}

	orch := NewOrchestrator(OrchestratorConfig{
		Registry:      NewRegistry(sessions),
		Assembler:     NewAssembler(history, NewRetriever(index, DefaultSimilarityK, DefaultSimilarityThreshold), DefaultRecentWindowSize),
		History:       history,
		Index:         index,
		LLMs:          map[ModelProvider]ai.LLMService{ProviderGemini: llm, ProviderOpenAI: llm},
		ChatTimeout:   5 * time.Second,
		MaxConcurrent: 2,
	})
	return &turnFixture{sessions: sessions, history: history, index: index, llm: llm, orch: orch}
}

func TestProcessTurnEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)

	result, err := f.orch.ProcessTurn(ctx, TurnRequest{
		UserInput: "What does 你好 mean?",
		Provider:  ProviderGemini,
		Retrieval: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.SessionID)
	require.Equal(t, "你好 (nǐ hǎo) means hello.", result.Output)

	// Fresh session, no history, no system channel: the model sees exactly
	// one user message carrying the folded persona.
	requests := f.llm.Requests()
	require.Len(t, requests, 1)
	require.Len(t, requests[0], 1)
	require.Equal(t, "user", requests[0][0].Role)
	require.True(t, strings.HasPrefix(requests[0][0].Content, personaPrompt))
	require.True(t, strings.HasSuffix(requests[0][0].Content, "What does 你好 mean?"))

	// Both turn messages land in both stores, user first.
	log := f.history.Messages(result.SessionID)
	require.Len(t, log, 2)
	require.Equal(t, RoleHuman, log[0].Role)
	require.Equal(t, "What does 你好 mean?", log[0].Content)
	require.Equal(t, RoleAssistant, log[1].Role)
	require.LessOrEqual(t, log[0].CreatedTs, log[1].CreatedTs)

	inserted := f.index.Inserted()
	require.Len(t, inserted, 2)
	require.Equal(t, log[0].UID, inserted[0].UID)
	require.Equal(t, log[1].UID, inserted[1].UID)
}

func TestProcessTurnContinuesSession(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)

	first, err := f.orch.ProcessTurn(ctx, TurnRequest{UserInput: "q1", Provider: ProviderOpenAI})
	require.NoError(t, err)

	second, err := f.orch.ProcessTurn(ctx, TurnRequest{
		SessionID: first.SessionID,
		UserInput: "q2",
		Provider:  ProviderOpenAI,
	})
	require.NoError(t, err)
	require.Equal(t, first.SessionID, second.SessionID)

	// The second turn's context includes the first turn plus the new input,
	// behind the dedicated system message.
	requests := f.llm.Requests()
	require.Len(t, requests, 2)
	require.Len(t, requests[1], 4)
	require.Equal(t, "system", requests[1][0].Role)
	require.Equal(t, "q1", requests[1][1].Content)
	require.Equal(t, "q2", requests[1][3].Content)

	require.Len(t, f.history.Messages(first.SessionID), 4)
}

func TestProcessTurnInvalidProviderFailsBeforeIO(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)
	f.orch.llms = map[ModelProvider]ai.LLMService{ProviderGemini: f.llm}

	_, err := f.orch.ProcessTurn(ctx, TurnRequest{UserInput: "q", Provider: ProviderOpenAI})
	require.ErrorIs(t, err, ErrInvalidProvider)
	require.Equal(t, 0, f.sessions.Len())
	require.Empty(t, f.llm.Requests())
}

func TestProcessTurnModelFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)
	f.llm.Err = errors.New("rate limited")

	_, err := f.orch.ProcessTurn(ctx, TurnRequest{UserInput: "q", Provider: ProviderGemini})
	require.ErrorIs(t, err, ErrModelInvocation)
	require.True(t, IsRetryable(err))

	for id := range f.history.logs {
		require.Empty(t, f.history.Messages(id))
	}
	require.Empty(t, f.index.Inserted())
}

func TestProcessTurnEmptyReplyFails(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)
	f.llm.Reply = ""

	_, err := f.orch.ProcessTurn(ctx, TurnRequest{UserInput: "q", Provider: ProviderGemini})
	require.ErrorIs(t, err, ErrModelInvocation)
	require.Empty(t, f.index.Inserted())
}

func TestProcessTurnVectorFailureStillReplies(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)
	f.index.SearchErr = errors.New("pgvector down")
	f.index.InsertErr = errors.New("pgvector down")

	result, err := f.orch.ProcessTurn(ctx, TurnRequest{
		UserInput: "q",
		Provider:  ProviderGemini,
		Retrieval: true,
	})
	require.NoError(t, err)
	require.Equal(t, f.llm.Reply, result.Output)

	// History still carries the full turn even though the index is dark.
	require.Len(t, f.history.Messages(result.SessionID), 2)
	require.Empty(t, f.index.Inserted())
}

func TestProcessTurnHistoryFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)
	f.history.FetchErr = errors.New("db gone")

	_, err := f.orch.ProcessTurn(ctx, TurnRequest{UserInput: "q", Provider: ProviderGemini})
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.Empty(t, f.llm.Requests())
}

func TestProcessTurnEmptyInputAccepted(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)

	result, err := f.orch.ProcessTurn(ctx, TurnRequest{UserInput: "", Provider: ProviderGemini})
	require.NoError(t, err)
	require.Equal(t, f.llm.Reply, result.Output)
	require.Len(t, f.history.Messages(result.SessionID), 2)
}

func TestProcessTurnRetrievalDisabledSkipsSearch(t *testing.T) {
	ctx := context.Background()
	f := newTurnFixture(t)
	f.index.SetResults(RoleHuman, []ScoredMessage{
		scored("q1", "should never surface", RoleHuman, 0.99, 1),
	})

	_, err := f.orch.ProcessTurn(ctx, TurnRequest{
		UserInput: "q",
		Provider:  ProviderOpenAI,
		Retrieval: false,
	})
	require.NoError(t, err)

	requests := f.llm.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, personaPrompt, requests[0][0].Content)
}
