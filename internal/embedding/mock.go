package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/tmc/langchaingo/embeddings"
)

const defaultMockDimension = 256

// MockEmbedder is an offline embedder. Each text becomes a normalized bag of
// hashed lowercase words, so texts sharing words score as similar.
type MockEmbedder struct {
	dim int
}

var _ embeddings.Embedder = (*MockEmbedder)(nil)

func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = defaultMockDimension
	}
	return &MockEmbedder{dim: dim}
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vectors = append(vectors, m.vector(text))
	}
	return vectors, nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.vector(text), nil
}

func (m *MockEmbedder) vector(text string) []float32 {
	vec := make([]float32, m.dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(m.dim)]++
	}
	if len(words) == 0 {
		// chromem rejects zero vectors
		vec[0] = 1
	}
	return normalize(vec)
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
	return v
}
