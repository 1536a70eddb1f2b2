package repository

import (
	"context"
	"time"

	"github.com/extractkit/invoice-extraction-service/internal/domain"
)

// ExtractionRecord is a stored extraction run with its reconciled result.
type ExtractionRecord struct {
	ID           int64                    `json:"id"`
	SourceFile   string                   `json:"source_file"`
	InvoiceCount int                      `json:"invoice_count"`
	CreatedAt    time.Time                `json:"created_at"`
	Result       *domain.ExtractionResult `json:"result"`
}

// ExtractionRepository defines the interface for extraction result persistence
type ExtractionRepository interface {
	// StoreResult persists one extraction run and its invoices, products
	// and customers.
	StoreResult(ctx context.Context, sourceFile string, result *domain.ExtractionResult) error

	// GetExtractionByID retrieves a stored extraction run by its ID
	GetExtractionByID(ctx context.Context, id int64) (*ExtractionRecord, error)

	// ListExtractions retrieves stored extraction runs, newest first
	ListExtractions(ctx context.Context, limit, offset int) ([]ExtractionRecord, error)
}
