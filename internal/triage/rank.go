package triage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"symptom-checker/internal/embedding"
	"symptom-checker/internal/knowledge"
)

const maxRankedCauses = 3

// RankedCause pairs a knowledge-base cause with its similarity to the
// current case summary.
type RankedCause struct {
	Cause knowledge.Cause
	Score float64
}

// CauseRanker orders candidate causes by cosine similarity between the case
// summary embedding and each cause's composite text embedding.
type CauseRanker struct {
	provider embedding.Provider
}

func NewCauseRanker(p embedding.Provider) *CauseRanker {
	return &CauseRanker{provider: p}
}

// Rank returns at most three causes, best first. Ties keep knowledge-base
// order. An empty cause list returns no results without touching the
// provider; the whole ranking costs exactly two provider calls (summary,
// batched causes).
func (r *CauseRanker) Rank(ctx context.Context, summary string, causes []knowledge.Cause) ([]RankedCause, error) {
	if len(causes) == 0 {
		return nil, nil
	}

	texts := make([]string, len(causes))
	for i, c := range causes {
		texts[i] = fmt.Sprintf("%s. %s. Symptoms: %s",
			c.Condition, c.Description, strings.Join(c.Symptoms, ", "))
	}

	summaryVec, err := r.provider.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embed case summary: %w", err)
	}
	causeVecs, err := r.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed causes: %w", err)
	}
	if len(causeVecs) != len(causes) {
		return nil, fmt.Errorf("embed causes: got %d vectors for %d causes", len(causeVecs), len(causes))
	}

	ranked := make([]RankedCause, len(causes))
	for i, c := range causes {
		ranked[i] = RankedCause{Cause: c, Score: embedding.Cosine(summaryVec, causeVecs[i])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxRankedCauses {
		ranked = ranked[:maxRankedCauses]
	}
	return ranked, nil
}
