package rag

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// Embedder computes vector representations for text. Implementations must
// return vectors of a fixed dimension and be safe for concurrent use.
type Embedder interface {
	// Embed returns one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector length.
	Dimension() int
}

// HashEmbedder is a deterministic, dependency-free Embedder hashing tokens
// into a fixed-size bag-of-words vector, L2 normalized. It captures lexical
// overlap only, suitable for tests, offline development and as a fallback
// when no provider is configured.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder constructs a HashEmbedder with the given dimension
// (defaults to 256 when dim <= 0).
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 256
	}
	return &HashEmbedder{dim: dim}
}

// Embed implements Embedder.
func (e *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embedOne(t)
	}
	return out, nil
}

// Dimension implements Embedder.
func (e *HashEmbedder) Dimension() int { return e.dim }

func (e *HashEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?;:\"'()[]")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dim)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched or zero-length inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
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
