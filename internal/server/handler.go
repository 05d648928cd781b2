package server

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
	"document-qa/internal/parser"
)

const (
	questionsField = "questions_file"
	documentField  = "document_file"

	defaultMaxMemory = 8 << 20 // multipart parts above this spill to disk
)

// Answerer produces answers for questions over document chunks.
type Answerer interface {
	GenerateAnswers(ctx context.Context, chunks []models.ChunkRecord, questions []string) (models.AnswerMap, error)
}

type Handler struct {
	loader         parser.DocumentLoader
	chunker        *parser.Chunker
	answerer       Answerer
	maxUploadBytes int64
}

// NewHandler wires the request pipeline. maxUploadBytes <= 0 disables the
// body size limit.
func NewHandler(loader parser.DocumentLoader, chunker *parser.Chunker, answerer Answerer, maxUploadBytes int64) *Handler {
	return &Handler{
		loader:         loader,
		chunker:        chunker,
		answerer:       answerer,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.Any("/ask/", h.Ask)
	router.GET("/healthz", h.Healthz)
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Ask answers the questions in questions_file against document_file.
func (h *Handler) Ask(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "POST method required"})
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(defaultMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondBadRequest(c, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		log.Debug().Err(err).Msg("Failed to parse multipart form")
		respondBadRequest(c, "Missing files")
		return
	}
	defer func() {
		if err := c.Request.MultipartForm.RemoveAll(); err != nil {
			log.Warn().Err(err).Msg("Failed to remove multipart files")
		}
	}()

	questionsFile, _, qErr := c.Request.FormFile(questionsField)
	defer closeFile(questionsFile)
	documentFile, documentHeader, dErr := c.Request.FormFile(documentField)
	defer closeFile(documentFile)
	if qErr != nil || dErr != nil {
		respondBadRequest(c, "Missing files")
		return
	}

	answers, err := h.process(c.Request.Context(), questionsFile, documentFile, documentHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

func (h *Handler) process(ctx context.Context, questionsFile, documentFile multipart.File, filename string) (models.AnswerMap, error) {
	questions, err := parser.ParseQuestions(questionsFile)
	if err != nil {
		return nil, err
	}

	pages, err := h.loader.Load(ctx, models.UploadedFile{Filename: filename, Content: documentFile})
	if err != nil {
		return nil, err
	}

	chunks, err := h.chunker.Chunk(pages, filename)
	if err != nil {
		return nil, err
	}

	log.Info().Str("filename", filename).Int("pages", len(pages)).Int("chunks", len(chunks)).
		Int("questions", len(questions)).Msg("Answering questions")
	return h.answerer.GenerateAnswers(ctx, chunks, questions)
}

func closeFile(f multipart.File) {
	if f != nil {
		_ = f.Close()
	}
}
