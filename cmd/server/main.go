package main

import (
	"fmt"
	"log"
	"time"

	"dealdesk/internal/config"
	"dealdesk/internal/extract"
	"dealdesk/internal/handler"
	"dealdesk/internal/parser/claude"
	"dealdesk/internal/period"
	"dealdesk/internal/port"
	"dealdesk/internal/repository/postgres"
	"dealdesk/internal/router"
	"dealdesk/internal/service"
	s3storage "dealdesk/internal/storage/s3"
	"dealdesk/internal/vision"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Persistence is optional: without a DSN the server still extracts,
	// it just does not store jobs.
	var repo port.ExtractionRepository
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Printf("server: database unavailable, running without persistence: %v", err)
		db = nil
	} else {
		defer db.Close()
		repo = postgres.NewExtractionRepo(db)
	}

	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
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

	svc := service.NewExtractionService(extractor, repo, storage, &cfg.S3)

	extractH := handler.NewExtractHandler(svc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(extractH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
