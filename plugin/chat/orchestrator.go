package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/semaphore"

	"github.com/miachat/miachat/plugin/ai"
)

// Turn lifecycle states, in order. A turn that fails before PERSISTING leaves
// no trace in either store.
const (
	stateResolvingSession  = "RESOLVING_SESSION"
	stateAssemblingContext = "ASSEMBLING_CONTEXT"
	stateInvokingModel     = "INVOKING_MODEL"
	statePersisting        = "PERSISTING"
)

// TurnRequest is one user turn. Provider must be a parsed ModelProvider;
// Retrieval disables the similarity searches when false.
type TurnRequest struct {
	SessionID string
	UserInput string
	Provider  ModelProvider
	Retrieval bool
}

// TurnResult is the reply for a completed turn. SessionID echoes the resolved
// session, which differs from the request's when a new one was created.
type TurnResult struct {
	SessionID string
	Output    string
}

// OrchestratorConfig wires the turn pipeline.
type OrchestratorConfig struct {
	Registry  *Registry
	Assembler *Assembler
	History   HistoryService
	Index     VectorIndex
	LLMs      map[ModelProvider]ai.LLMService

	// ChatTimeout bounds a single model invocation. MaxConcurrent bounds the
	// number of in-flight model calls across all turns.
	ChatTimeout   time.Duration
	MaxConcurrent int64
}

// Orchestrator drives one conversational turn through the pipeline: resolve
// session, assemble context, adapt for the provider, invoke the model, then
// persist both turn messages to the history log and the vector index.
type Orchestrator struct {
	registry  *Registry
	assembler *Assembler
	history   HistoryService
	index     VectorIndex
	llms      map[ModelProvider]ai.LLMService
	timeout   time.Duration
	sem       *semaphore.Weighted
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	timeout := cfg.ChatTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &Orchestrator{
		registry:  cfg.Registry,
		assembler: cfg.Assembler,
		history:   cfg.History,
		index:     cfg.Index,
		llms:      cfg.LLMs,
		timeout:   timeout,
		sem:       semaphore.NewWeighted(maxConcurrent),
	}
}

// ProcessTurn executes one turn end to end. On success the reply has been
// returned and both persistence writes attempted; persistence failures after
// a successful model call are logged, never surfaced.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	llm, ok := o.llms[req.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not configured", ErrInvalidProvider, req.Provider)
	}

	sessionID, err := o.registry.ResolveOrCreate(ctx, req.SessionID, req.Provider)
	if err != nil {
		return nil, o.fail(stateResolvingSession, sessionID, err)
	}

	entries, err := o.assembler.Assemble(ctx, sessionID, req.UserInput, req.Retrieval)
	if err != nil {
		return nil, o.fail(stateAssemblingContext, sessionID, err)
	}

	reply, err := o.invoke(ctx, llm, req.Provider, entries)
	if err != nil {
		return nil, o.fail(stateInvokingModel, sessionID, err)
	}

	o.persistTurn(ctx, sessionID, req.UserInput, reply)

	return &TurnResult{SessionID: sessionID, Output: reply}, nil
}

func (o *Orchestrator) invoke(ctx context.Context, llm ai.LLMService, provider ModelProvider, entries []Message) (string, error) {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelInvocation, err)
	}
	defer o.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	reply, err := llm.Chat(callCtx, AdaptContext(provider, entries))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelInvocation, err)
	}
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", ErrModelInvocation)
	}
	return reply, nil
}

// persistTurn appends the user input and the model reply to the history log
// and the vector index, user message first, history log first for each. Write
// failures at this point are logged only: the reply has already been earned.
func (o *Orchestrator) persistTurn(ctx context.Context, sessionID, userInput, reply string) {
	userTs := time.Now().Unix()
	assistantTs := time.Now().Unix()
	if assistantTs < userTs {
		assistantTs = userTs
	}

	turn := []Message{
		{
			UID:       shortuuid.New(),
			SessionID: sessionID,
			Role:      RoleHuman,
			Content:   userInput,
			CreatedTs: userTs,
		},
		{
			UID:       shortuuid.New(),
			SessionID: sessionID,
			Role:      RoleAssistant,
			Content:   reply,
			CreatedTs: assistantTs,
		},
	}

	for _, msg := range turn {
		if err := o.history.Append(ctx, msg); err != nil {
			slog.Error("partial persistence: history append failed",
				slog.String("state", statePersisting),
				slog.String("session", sessionID),
				slog.String("role", string(msg.Role)),
				slog.Any("err", err))
		}
		if err := o.index.Insert(ctx, msg); err != nil {
			slog.Warn("partial persistence: vector index insert failed",
				slog.String("state", statePersisting),
				slog.String("session", sessionID),
				slog.String("role", string(msg.Role)),
				slog.Any("err", err))
		}
	}
}

func (o *Orchestrator) fail(state, sessionID string, err error) error {
	slog.Error("turn failed",
		slog.String("state", state),
		slog.String("session", sessionID),
		slog.Any("err", err))
	return err
}
