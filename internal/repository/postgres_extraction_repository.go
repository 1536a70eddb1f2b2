package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/extractkit/invoice-extraction-service/internal/domain"
)

// PostgresExtractionRepository implements ExtractionRepository interface using PostgreSQL
type PostgresExtractionRepository struct {
	db *pgxpool.Pool
}

// NewPostgresExtractionRepository creates a new PostgreSQL extraction repository
func NewPostgresExtractionRepository(db *pgxpool.Pool) *PostgresExtractionRepository {
	return &PostgresExtractionRepository{
		db: db,
	}
}

// StoreResult saves one extraction run and its reconciled rows to the database
func (r *PostgresExtractionRepository) StoreResult(ctx context.Context, sourceFile string, result *domain.ExtractionResult) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if not committed

	// Insert extraction run
	var extractionID int64
	var totalQuantity int
	var totalAmount, totalTax, netAmount float64
	if result.Summary != nil {
		totalQuantity = result.Summary.TotalQuantity
		totalAmount = result.Summary.TotalAmount
		totalTax = result.Summary.TotalTax
		netAmount = result.Summary.NetAmount
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO extractions (source_file, invoice_count, total_quantity, total_amount, total_tax, net_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, sourceFile, len(result.Invoices), totalQuantity, totalAmount, totalTax, netAmount).Scan(&extractionID)
	if err != nil {
		return fmt.Errorf("failed to insert extraction: %w", err)
	}

	// Insert invoice lines
	for i := range result.Invoices {
		inv := &result.Invoices[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO extraction_invoices (extraction_id, serial_number, customer_name, product_name, quantity, tax, total_amount, date, discount, payment_mode, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, extractionID, inv.SerialNumber, inv.CustomerName, inv.ProductName, inv.Quantity, inv.Tax, inv.TotalAmount, inv.Date, inv.Discount, inv.PaymentMode, inv.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert invoice line: %w", err)
		}
	}

	// Insert aggregated products
	for i := range result.Products {
		p := &result.Products[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO extraction_products (extraction_id, name, quantity, unit_price, tax, price_with_tax, discount, sku)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, extractionID, p.Name, p.Quantity, p.UnitPrice, p.Tax, p.PriceWithTax, p.Discount, p.SKU)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}

	// Insert aggregated customers
	for i := range result.Customers {
		c := &result.Customers[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO extraction_customers (extraction_id, customer_name, phone_number, email, address, total_purchase_amount)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, extractionID, c.CustomerName, c.PhoneNumber, c.Email, c.Address, c.TotalPurchaseAmount)
		if err != nil {
			return fmt.Errorf("failed to insert customer: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExtractionByID retrieves a stored extraction run by its ID
func (r *PostgresExtractionRepository) GetExtractionByID(ctx context.Context, id int64) (*ExtractionRecord, error) {
	record := ExtractionRecord{Result: domain.NewExtractionResult()}
	var totalQuantity int
	var totalAmount, totalTax, netAmount float64
	err := r.db.QueryRow(ctx, `
		SELECT id, source_file, invoice_count, total_quantity, total_amount, total_tax, net_amount, created_at
		FROM extractions
		WHERE id = $1
	`, id).Scan(
		&record.ID, &record.SourceFile, &record.InvoiceCount,
		&totalQuantity, &totalAmount, &totalTax, &netAmount, &record.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("extraction not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get extraction: %w", err)
	}

	record.Result.Summary = &domain.Summary{
		TotalQuantity: totalQuantity,
		TotalAmount:   totalAmount,
		TotalTax:      totalTax,
		NetAmount:     netAmount,
	}

	// Query invoice lines
	rows, err := r.db.Query(ctx, `
		SELECT serial_number, customer_name, product_name, quantity, tax, total_amount, date, discount, payment_mode, notes
		FROM extraction_invoices
		WHERE extraction_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var inv domain.InvoiceLine
		if err := rows.Scan(&inv.SerialNumber, &inv.CustomerName, &inv.ProductName, &inv.Quantity, &inv.Tax, &inv.TotalAmount, &inv.Date, &inv.Discount, &inv.PaymentMode, &inv.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		record.Result.Invoices = append(record.Result.Invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice lines: %w", err)
	}

	// Query aggregated products
	rows, err = r.db.Query(ctx, `
		SELECT name, quantity, unit_price, tax, price_with_tax, discount, sku
		FROM extraction_products
		WHERE extraction_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.Name, &p.Quantity, &p.UnitPrice, &p.Tax, &p.PriceWithTax, &p.Discount, &p.SKU); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		record.Result.Products = append(record.Result.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	// Query aggregated customers
	rows, err = r.db.Query(ctx, `
		SELECT customer_name, phone_number, email, address, total_purchase_amount
		FROM extraction_customers
		WHERE extraction_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.CustomerName, &c.PhoneNumber, &c.Email, &c.Address, &c.TotalPurchaseAmount); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		record.Result.Customers = append(record.Result.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return &record, nil
}

// ListExtractions retrieves stored extraction runs, newest first
func (r *PostgresExtractionRepository) ListExtractions(ctx context.Context, limit, offset int) ([]ExtractionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, source_file, invoice_count, created_at
		FROM extractions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions: %w", err)
	}
	defer rows.Close()

	records := []ExtractionRecord{}
	for rows.Next() {
		var record ExtractionRecord
		if err := rows.Scan(&record.ID, &record.SourceFile, &record.InvoiceCount, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extractions: %w", err)
	}

	return records, nil
}
