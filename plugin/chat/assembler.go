package chat

import (
	"context"
	"fmt"
)

// Assembly defaults. Callers passing zero values get these.
const (
	DefaultRecentWindowSize    = 4
	DefaultSimilarityK         = 5
	DefaultSimilarityThreshold = 0.6
)

// Assembler builds the ordered prompt context for one turn:
//
//	[system instruction, recent history window..., current user input]
//
// The system instruction carries the persona and, when retrieval is enabled
// and productive, the retrieved-context block. No truncation or token
// budgeting is applied beyond the window size and the per-role k.
type Assembler struct {
	history    HistoryService
	retriever  *Retriever
	windowSize int
}

func NewAssembler(history HistoryService, retriever *Retriever, windowSize int) *Assembler {
	if windowSize <= 0 {
		windowSize = DefaultRecentWindowSize
	}
	return &Assembler{
		history:    history,
		retriever:  retriever,
		windowSize: windowSize,
	}
}

// Assemble produces the prompt context. The recent-history fetch is
// load-bearing and fails the turn; retrieval degrades to empty on error.
func (a *Assembler) Assemble(ctx context.Context, sessionID, userInput string, withRetrieval bool) ([]Message, error) {
	window, err := a.history.FetchRecent(ctx, sessionID, a.windowSize)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch recent history: %v", ErrStorageUnavailable, err)
	}

	var retrieved RetrievedContext
	if withRetrieval && a.retriever != nil {
		retrieved = a.retriever.Retrieve(ctx, sessionID, userInput)
		retrieved = a.excludeWindow(retrieved, window)
	}

	entries := make([]Message, 0, len(window)+2)
	entries = append(entries, Message{
		SessionID: sessionID,
		Role:      RoleSystem,
		Content:   composeSystemInstruction(retrieved),
	})
	entries = append(entries, window...)
	entries = append(entries, Message{
		SessionID: sessionID,
		Role:      RoleHuman,
		Content:   userInput,
	})
	return entries, nil
}

// excludeWindow drops retrieved items already present in the recent window,
// so the same message never appears in the context twice.
func (a *Assembler) excludeWindow(rc RetrievedContext, window []Message) RetrievedContext {
	if rc.Empty() || len(window) == 0 {
		return rc
	}
	inWindow := make(map[string]bool, len(window))
	for _, msg := range window {
		if msg.UID != "" {
			inWindow[msg.UID] = true
		}
	}
	keep := func(results []ScoredMessage) []ScoredMessage {
		kept := results[:0]
		for _, result := range results {
			if !inWindow[result.UID] {
				kept = append(kept, result)
			}
		}
		return kept
	}
	return RetrievedContext{
		Questions: keep(rc.Questions),
		Answers:   keep(rc.Answers),
	}
}
