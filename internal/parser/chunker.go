package parser

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/textsplitter"

	"document-qa/internal/models"
)

const (
	defaultChunkSize    = 300 // characters
	defaultChunkOverlap = 50  // characters
)

// Chunker splits loader pages into overlapping chunks with a recursive
// character splitter.
type Chunker struct {
	splitter textsplitter.TextSplitter
}

// NewChunker falls back to the default size and overlap for non-positive
// or inconsistent values.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = min(defaultChunkOverlap, chunkSize-1)
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Chunk returns chunks in page order, then split order. Whitespace-only
// chunks are dropped. An empty source keeps each page's own source.
func (c *Chunker) Chunk(pages []models.Page, source string) ([]models.ChunkRecord, error) {
	var chunks []models.ChunkRecord
	for _, page := range pages {
		if strings.TrimSpace(page.Content) == "" {
			continue
		}

		parts, err := c.splitter.SplitText(page.Content)
		if err != nil {
			return nil, models.NewParsingError("Error splitting document", err)
		}

		src := source
		if src == "" {
			src = page.Source
		}
		chunkID := 0
		for _, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			chunkID++
			chunks = append(chunks, models.ChunkRecord{
				Content: part,
				Source:  src,
				Page:    page.Index,
				ChunkID: chunkID,
			})
		}
	}

	log.Debug().Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Chunked document")
	return chunks, nil
}
