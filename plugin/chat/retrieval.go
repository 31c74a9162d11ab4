package chat

import (
	"context"
	"log/slog"
	"sort"
)

// RetrievedContext holds role-partitioned similarity search results for one
// turn: past human questions and past assistant answers relevant to the
// current input.
type RetrievedContext struct {
	Questions []ScoredMessage
	Answers   []ScoredMessage
}

func (rc RetrievedContext) Empty() bool {
	return len(rc.Questions) == 0 && len(rc.Answers) == 0
}

// Retriever runs the per-role similarity searches that feed the prompt
// context. Retrieval is best-effort: any search or embedding failure degrades
// that role's results to empty with a warning, never failing the turn.
type Retriever struct {
	index     VectorIndex
	k         int
	threshold float32
}

func NewRetriever(index VectorIndex, k int, threshold float32) *Retriever {
	return &Retriever{index: index, k: k, threshold: threshold}
}

// Retrieve searches the session's vector index for past human questions and
// past assistant answers similar to the query text.
func (r *Retriever) Retrieve(ctx context.Context, sessionID, query string) RetrievedContext {
	return RetrievedContext{
		Questions: r.search(ctx, sessionID, query, RoleHuman),
		Answers:   r.search(ctx, sessionID, query, RoleAssistant),
	}
}

func (r *Retriever) search(ctx context.Context, sessionID, query string, role Role) []ScoredMessage {
	results, err := r.index.Search(ctx, SearchQuery{
		SessionID: sessionID,
		QueryText: query,
		Role:      role,
		K:         r.k,
		Threshold: r.threshold,
	})
	if err != nil {
		slog.Warn("similarity search failed, continuing without retrieved context",
			slog.String("session", sessionID),
			slog.String("role", string(role)),
			slog.Any("err", err))
		return nil
	}
	return rankResults(results, r.k, r.threshold)
}

// rankResults enforces the result contract independent of the index backend:
// results at or above the threshold, ordered by score descending with recency
// breaking ties, deduplicated by message, at most k entries.
func rankResults(results []ScoredMessage, k int, threshold float32) []ScoredMessage {
	ranked := make([]ScoredMessage, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, result := range results {
		if result.Score < threshold {
			continue
		}
		key := result.UID
		if key == "" {
			key = result.Content
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		ranked = append(ranked, result)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].CreatedTs > ranked[j].CreatedTs
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
