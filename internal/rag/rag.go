package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"document-qa/internal/chromemdb"
	"document-qa/internal/config"
	"document-qa/internal/helper"
	"document-qa/internal/llmservice"
	"document-qa/internal/models"
)

const defaultTopK = 5

// RAG answers questions over a set of chunks. It holds only stateless clients
// and may be shared across requests.
type RAG struct {
	embedder embeddings.Embedder
	llm      llms.Model
	cfg      config.RAGConfig
	prompt   prompts.PromptTemplate
}

func NewRAG(embedder embeddings.Embedder, llm llms.Model, cfg config.RAGConfig) *RAG {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	return &RAG{
		embedder: embedder,
		llm:      llm,
		cfg:      cfg,
		prompt:   prompts.NewPromptTemplate(models.RAGPromptTemplate, []string{"context", "question"}),
	}
}

// GenerateAnswers indexes chunks in a fresh in-memory collection and answers
// each question in order. A failure on one question is recorded as its answer
// and does not stop the others; cancellation of ctx does.
func (r *RAG) GenerateAnswers(ctx context.Context, chunks []models.ChunkRecord, questions []string) (models.AnswerMap, error) {
	if len(chunks) == 0 || len(questions) == 0 {
		return nil, models.NewParsingError("Documents or questions cannot be empty.", nil)
	}

	start := time.Now()
	index, err := r.buildIndex(ctx, chunks)
	if err != nil {
		return nil, models.NewParsingError("Error generating answers from documents", err)
	}
	defer func() {
		if err := index.DeleteCollection(); err != nil {
			log.Warn().Err(err).Msg("Failed to drop request collection")
		}
	}()
	log.Debug().Int("chunks", len(chunks)).Dur("elapsed", time.Since(start)).Msg("Built vector index")

	answers := make(models.AnswerMap, len(questions))
	for i, question := range questions {
		if err := ctx.Err(); err != nil {
			return nil, models.NewParsingError("Error generating answers from documents", err)
		}

		answer, err := r.answer(ctx, index, question)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, models.NewParsingError("Error generating answers from documents", ctxErr)
			}
			log.Warn().Err(err).Int("question", i).Msg("Failed to answer question")
			answer = models.AnswerErrorPrefix + err.Error()
		}
		answers[question] = answer
	}

	log.Info().Int("questions", len(questions)).Dur("elapsed", time.Since(start)).Msg("Generated answers")
	return answers, nil
}

func (r *RAG) buildIndex(ctx context.Context, chunks []models.ChunkRecord) (*chromemdb.VectorDBManager, error) {
	name, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	index, err := chromemdb.NewVectorDBManager(name, chromemdb.FromEmbedder(r.embedder))
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := r.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromemdb.NewDocument(fmt.Sprintf("chunk-%d", i), c, vectors[i])
	}
	if err := index.CreateDocs(ctx, docs); err != nil {
		return nil, err
	}
	return index, nil
}

// answer runs retrieval and generation for one question under the per-call
// timeout.
func (r *RAG) answer(ctx context.Context, index *chromemdb.VectorDBManager, question string) (string, error) {
	callCtx := ctx
	if r.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.RequestTimeout)
		defer cancel()
	}

	queryEmbedding, err := r.embedder.EmbedQuery(callCtx, question)
	if err != nil {
		return "", fmt.Errorf("failed to embed question: %w", err)
	}
	results, err := index.SearchEmbedding(callCtx, queryEmbedding, r.cfg.TopK)
	if err != nil {
		return "", err
	}

	retrieved := make([]string, 0, len(results))
	for _, res := range results {
		retrieved = append(retrieved, res.Content)
	}
	prompt, err := r.prompt.Format(map[string]any{
		"context":  strings.Join(retrieved, models.ContextSeparator),
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}

	answer, err := llmservice.GenerateContent(callCtx, r.llm, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("model call timed out after %s: %w", r.cfg.RequestTimeout, err)
		}
		return "", err
	}
	return answer, nil
}
