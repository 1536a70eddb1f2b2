package main

import (
	"context"
	"fmt"
	"log"

	"github.com/extractkit/invoice-extraction-service/internal/config"
	"github.com/extractkit/invoice-extraction-service/internal/database"
	"github.com/extractkit/invoice-extraction-service/internal/gemini"
	"github.com/extractkit/invoice-extraction-service/internal/handler"
	"github.com/extractkit/invoice-extraction-service/internal/repository"
	"github.com/extractkit/invoice-extraction-service/internal/server"
	"github.com/extractkit/invoice-extraction-service/internal/service"
	"github.com/extractkit/invoice-extraction-service/internal/storage"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize Gemini client when an API key is configured. Without one
	// the service still runs: spreadsheets use rule-based parsing and
	// image/PDF uploads are rejected with a configuration message.
	var generator service.Generator
	if cfg.GeminiAPIKey != "" {
		log.Println("Initializing Gemini client...")
		geminiClient, err := gemini.NewClient(ctx, &gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Timeout: cfg.GeminiTimeout,
		})
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		generator = geminiClient
	} else {
		log.Println("GEMINI_API_KEY not set, running with rule-based extraction only")
	}

	// Create extraction service
	log.Println("Creating extraction service...")
	extractionService := service.NewExtractionService(generator, &service.Config{
		Candidates:    cfg.GeminiModels,
		VisionModel:   cfg.GeminiVisionModel,
		MaxAttempts:   cfg.AIMaxAttempts,
		BackoffBase:   cfg.AIBackoffBase,
		SpreadsheetAI: cfg.SpreadsheetAI,
		MaxWorkers:    cfg.MaxWorkers,
	})

	// Create handler
	extractionHandler := handler.NewExtractionHandler(extractionService, cfg.UploadDir, cfg.MaxFileSize)

	// Initialize result persistence when a database is configured
	if cfg.PostgresURL != "" {
		log.Println("Connecting to PostgreSQL...")
		db, err := database.NewPostgresDB(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repo := repository.NewPostgresExtractionRepository(db.GetPool())
		extractionService.SetRepository(repo)
		extractionHandler.SetRepository(repo)
	}

	// Initialize upload archival when S3 storage is configured
	if cfg.S3Endpoint != "" {
		log.Println("Initializing S3 upload archival...")
		uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 uploader: %v", err)
		}
		extractionService.SetArchiver(uploader)
	}

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)
	appServer.SetExtractionHandler(extractionHandler)

	// Set extraction service in the server for clean shutdown
	appServer.SetExtractor(extractionService)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
