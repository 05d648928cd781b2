package rag

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"document-qa/internal/config"
	"document-qa/internal/embedding"
	"document-qa/internal/llmservice"
	"document-qa/internal/models"
)

type countingEmbedder struct {
	inner   *embedding.MockEmbedder
	docs    atomic.Int32
	queries atomic.Int32
	failDoc error
}

func newCountingEmbedder() *countingEmbedder {
	return &countingEmbedder{inner: embedding.NewMockEmbedder(128)}
}

func (c *countingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	c.docs.Add(1)
	if c.failDoc != nil {
		return nil, c.failDoc
	}
	return c.inner.EmbedDocuments(ctx, texts)
}

func (c *countingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	c.queries.Add(1)
	return c.inner.EmbedQuery(ctx, text)
}

// funcModel delegates generation to fn.
type funcModel struct {
	fn func(ctx context.Context, prompt string) (string, error)
}

func (f funcModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt string
	for _, m := range messages {
		for _, p := range m.Parts {
			if text, ok := p.(llms.TextContent); ok {
				prompt += text.Text
			}
		}
	}
	out, err := f.fn(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: out}}}, nil
}

func (f funcModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

var testChunks = []models.ChunkRecord{
	{Content: "Python is a high-level programming language.", Source: "doc.json", Page: 0, ChunkID: 1},
	{Content: "Paris is the capital of France.", Source: "doc.json", Page: 1, ChunkID: 1},
	{Content: "Artificial intelligence studies intelligent agents.", Source: "doc.json", Page: 2, ChunkID: 1},
}

func testConfig() config.RAGConfig {
	return config.RAGConfig{ChunkSize: 300, ChunkOverlap: 50, TopK: 2, RequestTimeout: time.Second}
}

func TestGenerateAnswersEmptyInput(t *testing.T) {
	embedder := newCountingEmbedder()
	r := NewRAG(embedder, llmservice.NewMockModel(), testConfig())

	for name, tc := range map[string]struct {
		chunks    []models.ChunkRecord
		questions []string
	}{
		"no chunks":    {nil, []string{"q"}},
		"no questions": {testChunks, []string{}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.GenerateAnswers(context.Background(), tc.chunks, tc.questions)
			require.Error(t, err)
			assert.True(t, models.IsParsingError(err))
			assert.Equal(t, "Documents or questions cannot be empty.", err.Error())
		})
	}
	assert.Zero(t, embedder.docs.Load())
	assert.Zero(t, embedder.queries.Load())
}

func TestGenerateAnswers(t *testing.T) {
	embedder := newCountingEmbedder()
	r := NewRAG(embedder, llmservice.NewMockModel(), testConfig())

	questions := []string{"What is the capital of France?", "What is Python?", "What is the capital of France?"}
	answers, err := r.GenerateAnswers(context.Background(), testChunks, questions)
	require.NoError(t, err)

	require.Len(t, answers, 2)
	assert.Equal(t, "Paris is the capital of France.", answers["What is the capital of France?"])
	assert.Equal(t, "Python is a high-level programming language.", answers["What is Python?"])
	assert.Equal(t, int32(1), embedder.docs.Load(), "chunks are embedded in one batch")
	assert.Equal(t, int32(3), embedder.queries.Load())
}

func TestGenerateAnswersPromptCarriesContext(t *testing.T) {
	var prompts []string
	model := funcModel{fn: func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "  answer  ", nil
	}}
	r := NewRAG(newCountingEmbedder(), model, testConfig())

	answers, err := r.GenerateAnswers(context.Background(), testChunks, []string{"What is the capital of France?"})
	require.NoError(t, err)
	assert.Equal(t, "answer", answers["What is the capital of France?"])

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Question: What is the capital of France?")
	assert.Contains(t, prompts[0], "Context: Paris is the capital of France.\n\n")
}

func TestGenerateAnswersIsolatesQuestionFailures(t *testing.T) {
	model := funcModel{fn: func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Question: broken") {
			return "", errors.New("rate limited")
		}
		return "fine", nil
	}}
	r := NewRAG(newCountingEmbedder(), model, testConfig())

	answers, err := r.GenerateAnswers(context.Background(), testChunks, []string{"first", "broken", "last"})
	require.NoError(t, err)
	assert.Equal(t, models.AnswerMap{
		"first":  "fine",
		"broken": "Error generating answer: rate limited",
		"last":   "fine",
	}, answers)
}

func TestGenerateAnswersPerCallTimeout(t *testing.T) {
	model := funcModel{fn: func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Question: slow") {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "quick", nil
	}}
	cfg := testConfig()
	cfg.RequestTimeout = 20 * time.Millisecond
	r := NewRAG(newCountingEmbedder(), model, cfg)

	answers, err := r.GenerateAnswers(context.Background(), testChunks, []string{"slow", "fast"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answers["slow"], models.AnswerErrorPrefix), answers["slow"])
	assert.Contains(t, answers["slow"], "deadline exceeded")
	assert.Equal(t, "quick", answers["fast"])
}

func TestGenerateAnswersAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	model := funcModel{fn: func(ctx context.Context, _ string) (string, error) {
		calls.Add(1)
		cancel()
		return "", ctx.Err()
	}}
	r := NewRAG(newCountingEmbedder(), model, testConfig())

	_, err := r.GenerateAnswers(ctx, testChunks, []string{"one", "two"})
	require.Error(t, err)
	assert.True(t, models.IsParsingError(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateAnswersIndexFailure(t *testing.T) {
	embedder := newCountingEmbedder()
	embedder.failDoc = errors.New("quota exceeded")
	r := NewRAG(embedder, llmservice.NewMockModel(), testConfig())

	_, err := r.GenerateAnswers(context.Background(), testChunks, []string{"q"})
	require.Error(t, err)
	assert.True(t, models.IsParsingError(err))
	assert.Equal(t, "Error generating answers from documents: failed to embed chunks: quota exceeded", err.Error())
	assert.Zero(t, embedder.queries.Load())
}
