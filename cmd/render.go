package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-qa/internal/config"
	"document-qa/internal/helper"
	"document-qa/internal/render"
)

var (
	renderOut  string
	renderJSON string
)

var renderCmd = &cobra.Command{
	Use:   "render-pdf",
	Short: "Render the sample sections into a multi-page PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		helper.SetupLogger(cfg.Log.Level, cfg.Log.Console)

		doc := render.SampleDocument()
		pages, err := render.WriteFile(renderOut, doc, render.Options{BreakAfter: render.PageBreakAfter})
		if err != nil {
			return err
		}
		log.Info().Str("path", renderOut).Int("pages", pages).Msg("PDF created successfully")

		if renderJSON != "" {
			if err := helper.WriteJSONFile(renderJSON, doc); err != nil {
				return err
			}
			log.Info().Str("path", renderJSON).Msg("Sample document written")
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "output.pdf", "output PDF path")
	renderCmd.Flags().StringVar(&renderJSON, "json", "", "also write the sections as a JSON document to this path")
}
