package chromemdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"document-qa/internal/models"
)

// VectorDBManager wraps a single in-memory chromem-go collection. It is
// created per request and never persisted.
type VectorDBManager struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewVectorDBManager creates an in-memory database holding one collection.
// embed is used for queries and for documents added without an embedding.
func NewVectorDBManager(collectionName string, embed chromem.EmbeddingFunc) (*VectorDBManager, error) {
	if embed == nil {
		return nil, fmt.Errorf("embedding function is required")
	}
	db := chromem.NewDB()
	c, err := db.CreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &VectorDBManager{db: db, collection: c}, nil
}

// FromEmbedder adapts a langchaingo embedder to chromem's embedding func.
func FromEmbedder(e embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.EmbedQuery(ctx, text)
	}
}

// NewDocument builds a chromem document for a chunk, keeping its source,
// page and chunk id as metadata.
func NewDocument(id string, chunk models.ChunkRecord, embedding []float32) chromem.Document {
	return chromem.Document{
		ID:      id,
		Content: chunk.Content,
		Metadata: map[string]string{
			models.MetaSource: chunk.Source,
			models.MetaPage:   strconv.Itoa(chunk.Page),
			models.MetaChunk:  strconv.Itoa(chunk.ChunkID),
		},
		Embedding: embedding,
	}
}

// add multiple documents
func (m *VectorDBManager) CreateDocs(ctx context.Context, documents []chromem.Document) error {
	if len(documents) == 0 {
		return nil
	}
	// documents arrive pre-embedded; one worker keeps insertion sequential
	if err := m.collection.AddDocuments(ctx, documents, 1); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	log.Debug().Str("collection", m.collection.Name).Int("count", len(documents)).Msg("Added documents")
	return nil
}

// Search returns up to k documents most similar to query, best first. k is
// capped at the collection size.
func (m *VectorDBManager) Search(ctx context.Context, query string, k int) ([]chromem.Result, error) {
	return m.SearchWithQueryOptions(ctx, chromem.QueryOptions{QueryText: query, NResults: k})
}

// SearchEmbedding is Search for a query that is already embedded.
func (m *VectorDBManager) SearchEmbedding(ctx context.Context, embedding []float32, k int) ([]chromem.Result, error) {
	return m.SearchWithQueryOptions(ctx, chromem.QueryOptions{QueryEmbedding: embedding, NResults: k})
}

func (m *VectorDBManager) SearchWithQueryOptions(ctx context.Context, opts chromem.QueryOptions) ([]chromem.Result, error) {
	if opts.QueryText == "" && opts.QueryEmbedding == nil {
		return nil, fmt.Errorf("either query or embedding must be provided")
	}
	if opts.NResults <= 0 {
		return nil, fmt.Errorf("number of results must be positive, got %d", opts.NResults)
	}

	count := m.collection.Count()
	if count == 0 {
		return nil, nil
	}
	opts.NResults = min(opts.NResults, count)

	results, err := m.collection.QueryWithOptions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	return results, nil
}

func (m *VectorDBManager) Count() int {
	return m.collection.Count()
}

// delete collection
func (m *VectorDBManager) DeleteCollection() error {
	if err := m.db.DeleteCollection(m.collection.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}
