package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/extractkit/invoice-extraction-service/internal/ai"
	"github.com/extractkit/invoice-extraction-service/internal/domain"
	"github.com/extractkit/invoice-extraction-service/internal/gemini"
	"github.com/extractkit/invoice-extraction-service/internal/imageutil"
	"github.com/extractkit/invoice-extraction-service/internal/model"
	"github.com/extractkit/invoice-extraction-service/internal/repository"
	"github.com/extractkit/invoice-extraction-service/internal/sheet"
)

// Config holds configuration for the extraction service
type Config struct {
	// Candidates is the ordered model preference list for the
	// AI-assisted spreadsheet path.
	Candidates []string

	// VisionModel is the model used for the image/PDF path.
	VisionModel string

	// MaxAttempts is the per-candidate attempt budget.
	MaxAttempts int

	// BackoffBase is the first quota-retry delay; it doubles per attempt.
	BackoffBase time.Duration

	// SpreadsheetAI enables the AI-assisted spreadsheet path. When
	// disabled (or no generator is configured) spreadsheets go straight
	// to rule-based extraction.
	SpreadsheetAI bool

	// MaxWorkers bounds concurrent extractions.
	MaxWorkers int
}

// DefaultConfig returns a default configuration for the extraction service
func DefaultConfig() *Config {
	return &Config{
		Candidates:    []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash-exp"},
		VisionModel:   "gemini-2.5-flash",
		MaxAttempts:   2,
		BackoffBase:   5 * time.Second,
		SpreadsheetAI: true,
		MaxWorkers:    5,
	}
}

// ExtractionService implements FileExtractor. Spreadsheets are extracted
// by the AI-assisted path with rule-based fallback; images and PDFs by the
// vision path only. All aggregation state is local to one call.
type ExtractionService struct {
	generator   Generator
	config      *Config
	workerQueue chan struct{}
	repository  repository.ExtractionRepository
	archiver    Archiver
}

// NewExtractionService creates a new extraction service. A nil generator
// disables both AI paths: spreadsheets fall back to rule-based extraction
// and image/PDF requests fail with a configuration message.
func NewExtractionService(generator Generator, config *Config) *ExtractionService {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 5
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 2
	}

	return &ExtractionService{
		generator:   generator,
		config:      config,
		workerQueue: make(chan struct{}, config.MaxWorkers),
	}
}

// SetRepository sets the repository for storing extraction results
func (s *ExtractionService) SetRepository(repo repository.ExtractionRepository) {
	s.repository = repo
}

// SetArchiver sets the uploader that archives raw uploaded documents
func (s *ExtractionService) SetArchiver(archiver Archiver) {
	s.archiver = archiver
}

// ProcessFile extracts invoice data from the file at path. The returned
// envelope always carries non-nil collections; on failure they are empty
// and Message describes the cause.
func (s *ExtractionService) ProcessFile(ctx context.Context, path, ext string) *model.ExtractionResponse {
	// Acquire a worker from the pool
	select {
	case s.workerQueue <- struct{}{}:
		defer func() { <-s.workerQueue }()
	case <-ctx.Done():
		return model.NewFailureResponse(fmt.Sprintf("Extraction failed: %v", ctx.Err()))
	}

	if s.archiver != nil {
		s.archiveUpload(ctx, path, ext)
	}

	result, err := s.extract(ctx, path, ext)
	if err != nil {
		log.Printf("Extraction failed for %s: %v", path, err)
		return model.NewFailureResponse(fmt.Sprintf("Extraction failed: %v", err))
	}

	if s.repository != nil {
		if err := s.repository.StoreResult(ctx, path, result); err != nil {
			// Persistence is best-effort; the extraction itself succeeded.
			log.Printf("Error storing extraction result: %v", err)
		}
	}

	return model.NewSuccessResponse(result)
}

// extract selects the strategy for the file category.
func (s *ExtractionService) extract(ctx context.Context, path, ext string) (*domain.ExtractionResult, error) {
	switch {
	case IsSpreadsheet(ext):
		return s.extractSpreadsheet(ctx, path)
	case IsDocument(ext):
		return s.extractDocument(ctx, path, ext)
	default:
		return nil, &ExtractionError{Op: fmt.Sprintf("unsupported file type: %s", ext)}
	}
}

// extractSpreadsheet runs the AI-assisted path when enabled and falls back
// to rule-based extraction on any AI failure. When both fail the errors
// are combined into one.
func (s *ExtractionService) extractSpreadsheet(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	grid, err := sheet.ReadGrid(path)
	if err != nil {
		// No path can proceed without the grid.
		return nil, err
	}

	if s.generator == nil || !s.config.SpreadsheetAI {
		return sheet.Extract(grid, sheet.Options{WithSummary: true})
	}

	result, aiErr := s.extractSpreadsheetAI(ctx, grid)
	if aiErr == nil {
		return result, nil
	}

	log.Printf("AI spreadsheet parsing failed (%v), falling back to rule-based parsing", aiErr)
	result, manualErr := sheet.Extract(grid, sheet.Options{WithSummary: true})
	if manualErr != nil {
		return nil, &ExtractionError{
			Op:  "spreadsheet_extraction",
			Err: fmt.Errorf("Both AI and manual parsing failed. AI: %v, Manual: %v", aiErr, manualErr),
		}
	}
	return result, nil
}

// extractSpreadsheetAI renders the grid as text and walks the model
// candidate list. Quota failures back off and retry the same candidate;
// any other failure advances to the next candidate immediately.
func (s *ExtractionService) extractSpreadsheetAI(ctx context.Context, grid sheet.Grid) (*domain.ExtractionResult, error) {
	payload := sheet.Render(grid)

	var lastErr error
	for _, candidate := range s.config.Candidates {
		for attempt := 0; attempt < s.config.MaxAttempts; attempt++ {
			raw, err := s.generator.GenerateText(ctx, candidate, gemini.SpreadsheetPrompt, payload)
			if err == nil {
				result, normErr := ai.Normalize(raw)
				if normErr == nil {
					return result, nil
				}
				err = normErr
			}
			lastErr = err

			if decide(classify(err), attempt, s.config.MaxAttempts) == actionAdvance {
				log.Printf("Model %s failed (attempt %d/%d): %v", candidate, attempt+1, s.config.MaxAttempts, err)
				break
			}

			delay := backoffDelay(s.config.BackoffBase, attempt)
			log.Printf("Model %s rate limited, waiting %s before retry", candidate, delay)
			if sleepErr := sleepContext(ctx, delay); sleepErr != nil {
				return nil, sleepErr
			}
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no model candidates configured")
	}
	return nil, lastErr
}

// extractDocument runs the vision path over an image or PDF. There is no
// rule-based fallback for this category; any failure is terminal.
func (s *ExtractionService) extractDocument(ctx context.Context, path, ext string) (*domain.ExtractionResult, error) {
	if s.generator == nil {
		return nil, &ExtractionError{
			Op:  "ai_extraction",
			Err: fmt.Errorf("GEMINI_API_KEY not set"),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Op: "read_file", Err: err}
	}

	png, err := imageutil.Prepare(data, ext)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.GenerateImage(ctx, s.config.VisionModel, gemini.DocumentPrompt, png)
	if err != nil {
		return nil, &ExtractionError{Op: "ai_extraction", Err: err}
	}

	return ai.Normalize(raw)
}

// archiveUpload stores a copy of the raw document; failures are logged
// and do not affect the extraction.
func (s *ExtractionService) archiveUpload(ctx context.Context, path, ext string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading upload for archival: %v", err)
		return
	}

	key := fmt.Sprintf("uploads/%d%s", time.Now().UnixNano(), ext)
	if err := s.archiver.Upload(ctx, key, data, contentTypeFor(ext)); err != nil {
		log.Printf("Error archiving upload: %v", err)
	}
}

// contentTypeFor maps a recognized extension to its MIME type.
func contentTypeFor(ext string) string {
	switch ext {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// Shutdown implements the shutdown method from the FileExtractor interface
func (s *ExtractionService) Shutdown() {
	close(s.workerQueue)
}
