package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-qa/internal/config"
	"document-qa/internal/embedding"
	"document-qa/internal/helper"
	"document-qa/internal/llmservice"
	"document-qa/internal/parser"
	"document-qa/internal/rag"
	"document-qa/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the question answering HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		helper.SetupLogger(cfg.Log.Level, cfg.Log.Console)

		log.Debug().Interface("rag", cfg.RAG).Interface("server", cfg.Server).Msg("Loaded config")

		if cfg.Server.TempDir != "" {
			if err := helper.CreateFolder(cfg.Server.TempDir); err != nil {
				return err
			}
		}

		embedder, err := embedding.NewEmbedder(cfg.EmbedLLM)
		if err != nil {
			return fmt.Errorf("failed to initialize embedder: %w", err)
		}
		llm, err := llmservice.NewModel(cfg.InferenceLLM)
		if err != nil {
			return fmt.Errorf("failed to initialize inference model: %w", err)
		}

		handler := server.NewHandler(
			parser.NewLoader(cfg.Server.TempDir),
			parser.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
			rag.NewRAG(embedder, llm, cfg.RAG),
			cfg.Server.MaxUploadBytes,
		)
		srv := server.New(cfg.Server.Addr, handler)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
