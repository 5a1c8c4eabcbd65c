// Package embedding provides the vector embedding provider used for
// semantic cause ranking.
package embedding

import (
	"context"
	"errors"
	"math"
)

// Provider generates fixed-dimension vector embeddings for text. For a
// fixed model version the output is deterministic.
type Provider interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// The result is ordered like the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of the embeddings.
	Dimensions() int
}

// ErrEmptyBatch is returned when EmbedBatch is called with no input;
// callers are expected to skip the call instead.
var ErrEmptyBatch = errors.New("embedding: empty batch")

// Cosine returns the cosine similarity of two vectors. Mismatched or
// zero-magnitude vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
