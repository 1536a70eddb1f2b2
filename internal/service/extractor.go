package service

import (
	"context"
	"fmt"

	"github.com/extractkit/invoice-extraction-service/internal/model"
	"github.com/extractkit/invoice-extraction-service/internal/repository"
)

// FileExtractor defines the interface for document extraction services
type FileExtractor interface {
	// ProcessFile extracts invoice data from an uploaded file. It never
	// returns an error: every failure is captured in the response
	// envelope's success flag and message.
	ProcessFile(ctx context.Context, path, ext string) *model.ExtractionResponse

	// SetRepository sets the repository for storing extraction results
	SetRepository(repo repository.ExtractionRepository)

	// Shutdown gracefully shuts down the service
	Shutdown()
}

// Archiver stores a copy of the raw uploaded document.
type Archiver interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// Generator is the external AI completion function. Both methods return
// the raw response text, which may include markdown fencing.
type Generator interface {
	GenerateText(ctx context.Context, modelName, prompt, payload string) (string, error)
	GenerateImage(ctx context.Context, modelName, prompt string, png []byte) (string, error)
}

// ExtractionError represents an error that occurred during extraction
type ExtractionError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// spreadsheetExts and documentExts are the recognized file categories.
// Anything else is rejected by the transport layer before extraction.
var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

var documentExts = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// IsSpreadsheet reports whether ext is a spreadsheet extension.
func IsSpreadsheet(ext string) bool {
	return spreadsheetExts[ext]
}

// IsDocument reports whether ext is an image or PDF extension.
func IsDocument(ext string) bool {
	return documentExts[ext]
}

// IsSupported reports whether ext belongs to any recognized category.
func IsSupported(ext string) bool {
	return IsSpreadsheet(ext) || IsDocument(ext)
}
