// Command extract runs a one-shot extraction over local files and prints the
// resulting record as JSON. Useful for trying the pipeline without the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"dealdesk/internal/config"
	"dealdesk/internal/domain"
	"dealdesk/internal/extract"
	"dealdesk/internal/parser/claude"
	"dealdesk/internal/period"
	"dealdesk/internal/port"
	"dealdesk/internal/vision"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(paths []string) error {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: extract <file> [file ...]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Model.APIKey == "" {
		return fmt.Errorf("DEALDESK_MODEL_API_KEY is required")
	}

	model := claude.NewClient(&cfg.Model)
	converter := vision.NewConverter(vision.NewRunner(), vision.Config{
		PdftoppmPath: cfg.Vision.PdftoppmPath,
		DPI:          cfg.Vision.DPI,
		MaxPages:     cfg.Vision.MaxPages,
	})

	var analyzer port.PeriodAnalyzer
	if cfg.Period.Enabled {
		analyzer = period.NewAnalyzer()
	}

	extractor := extract.New(model, converter, analyzer, extract.Config{
		TokenCeiling:   cfg.Budget.TokenCeiling,
		TokensPerImage: cfg.Budget.TokensPerImage,
		CallTimeout:    time.Duration(cfg.Model.CallTimeout) * time.Second,
		MaxTokens:      cfg.Model.MaxTokens,
	})

	docs := make([]domain.SourceDocument, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		docs = append(docs, domain.NewSourceDocument(data, "", filepath.Base(p)))
	}

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(docs) == 1 {
		result := extractor.ExtractOne(ctx, docs[0].Bytes, docs[0].MIMEType, docs[0].Filename)
		return enc.Encode(result)
	}
	result := extractor.ExtractMany(ctx, docs)
	return enc.Encode(result)
}
