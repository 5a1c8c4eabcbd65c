package triage

import (
	"context"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-checker/internal/embedding"
	"symptom-checker/internal/knowledge"
)

// stubProvider is a deterministic in-process embedding provider: the vector
// is a pure function of the text, so rankings are reproducible.
type stubProvider struct {
	dims       int
	embedCalls int
	batchCalls int
	fail       bool
}

func newStubProvider() *stubProvider { return &stubProvider{dims: 8} }

func (p *stubProvider) Dimensions() int { return p.dims }

func (p *stubProvider) Embed(_ context.Context, text string) ([]float32, error) {
	p.embedCalls++
	if p.fail {
		return nil, context.DeadlineExceeded
	}
	return p.vec(text), nil
}

func (p *stubProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	p.batchCalls++
	if p.fail {
		return nil, context.DeadlineExceeded
	}
	if len(texts) == 0 {
		return nil, embedding.ErrEmptyBatch
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = p.vec(t)
	}
	return out, nil
}

func (p *stubProvider) vec(text string) []float32 {
	v := make([]float32, p.dims)
	h := fnv.New32a()
	for i := range v {
		h.Reset()
		h.Write([]byte(text))
		h.Write([]byte{byte(i)})
		v[i] = float32(h.Sum32()%1000)/999 - 0.5
	}
	return v
}

func testCauses(n int) []knowledge.Cause {
	names := []string{
		"Indigestion", "Food poisoning", "Gastroenteritis", "IBS",
		"Constipation", "Appendicitis", "Gallstones", "Kidney stones",
		"Peptic ulcers", "IBD",
	}
	causes := make([]knowledge.Cause, n)
	for i := 0; i < n; i++ {
		causes[i] = knowledge.Cause{
			Condition:   names[i%len(names)],
			Description: "description of " + names[i%len(names)],
			Symptoms:    []string{"nausea", "cramping"},
		}
	}
	return causes
}

func TestCauseRanker_Deterministic(t *testing.T) {
	provider := newStubProvider()
	ranker := NewCauseRanker(provider)
	causes := testCauses(10)

	first, err := ranker.Rank(context.Background(), "severity severe; symptoms nausea", causes)
	require.NoError(t, err)
	require.Len(t, first, 3)

	for i := 0; i < 5; i++ {
		again, err := ranker.Rank(context.Background(), "severity severe; symptoms nausea", causes)
		require.NoError(t, err)
		require.Len(t, again, 3)
		for j := range first {
			assert.Equal(t, first[j].Cause.Condition, again[j].Cause.Condition)
			assert.Equal(t, first[j].Score, again[j].Score)
		}
	}
}

func TestCauseRanker_TruncatesToThree(t *testing.T) {
	ranker := NewCauseRanker(newStubProvider())

	ranked, err := ranker.Rank(context.Background(), "abdominal pain", testCauses(10))
	require.NoError(t, err)
	assert.Len(t, ranked, 3)

	ranked, err = ranker.Rank(context.Background(), "abdominal pain", testCauses(2))
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestCauseRanker_ScoresDescending(t *testing.T) {
	ranker := NewCauseRanker(newStubProvider())

	ranked, err := ranker.Rank(context.Background(), "abdominal pain", testCauses(10))
	require.NoError(t, err)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestCauseRanker_EmptyCausesSkipsProvider(t *testing.T) {
	provider := newStubProvider()
	ranker := NewCauseRanker(provider)

	ranked, err := ranker.Rank(context.Background(), "abdominal pain", nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
	assert.Zero(t, provider.embedCalls)
	assert.Zero(t, provider.batchCalls)
}

func TestCauseRanker_ExactlyTwoProviderCalls(t *testing.T) {
	provider := newStubProvider()
	ranker := NewCauseRanker(provider)

	_, err := ranker.Rank(context.Background(), "abdominal pain", testCauses(10))
	require.NoError(t, err)
	assert.Equal(t, 1, provider.embedCalls)
	assert.Equal(t, 1, provider.batchCalls)
}

func TestCauseRanker_StableTieBreak(t *testing.T) {
	// Duplicate causes embed identically, so their scores tie and
	// sort.SliceStable must keep knowledge-base order. The middle cause is
	// distinct so the duplicates end up adjacent regardless of its score.
	dup := knowledge.Cause{Condition: "Indigestion", Description: "same text", Symptoms: []string{"x"}}
	other := knowledge.Cause{Condition: "Appendicitis", Description: "other text", Symptoms: []string{"y"}}
	causes := []knowledge.Cause{dup, other, dup}

	ranker := NewCauseRanker(newStubProvider())
	ranked, err := ranker.Rank(context.Background(), "abdominal pain", causes)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	var dupScores []float64
	for _, rc := range ranked {
		if rc.Cause.Condition == "Indigestion" {
			dupScores = append(dupScores, rc.Score)
		}
	}
	require.Len(t, dupScores, 2)
	assert.Equal(t, dupScores[0], dupScores[1])
}
