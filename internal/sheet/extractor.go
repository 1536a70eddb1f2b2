package sheet

import (
	"fmt"
	"strings"

	"github.com/extractkit/invoice-extraction-service/internal/coerce"
	"github.com/extractkit/invoice-extraction-service/internal/domain"
)

// skippedSerials are serial-column markers of totals/summary rows, compared
// after trimming and lowercasing. Such rows never become invoice lines.
var skippedSerials = map[string]bool{
	"totals":  true,
	"total":   true,
	"none":    true,
	"summary": true,
}

// Options selects between the two extractor variants. The full variant
// (WithSummary) reconciles tax from a percentage column and accumulates a
// document Summary; the plain variant does neither.
type Options struct {
	WithSummary bool
}

// Extract walks a spreadsheet grid and derives the three-entity extraction
// result. Row 1 is read as headers and normalized; each data row becomes at
// most one invoice line and is folded into the product and customer
// aggregates keyed by exact name.
func Extract(grid Grid, opts Options) (*domain.ExtractionResult, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("spreadsheet has no rows")
	}

	headers := NormalizeHeaders(grid[0])

	result := domain.NewExtractionResult()
	var summary domain.Summary

	productIndex := make(map[string]int)
	customerIndex := make(map[string]int)

	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if isEmptyRow(row) {
			continue
		}

		// Zip normalized headers positionally with cell values. Cells
		// beyond the header count are dropped.
		rowData := make(map[string]string, len(headers))
		for idx := range headers {
			rowData[headers[idx]] = cellAt(row, idx)
		}

		serial := rowData["serial_number"]
		if skippedSerials[strings.ToLower(strings.TrimSpace(serial))] {
			continue
		}

		product := rowData["product_name"]
		customer := rowData["customer_name"]
		if strings.TrimSpace(customer) == "" {
			customer = rowData["customer_company"]
		}

		if strings.TrimSpace(serial) == "" && strings.TrimSpace(product) == "" {
			continue
		}

		serialNumber := strings.TrimSpace(serial)
		if serialNumber == "" {
			// Synthesize a serial from the 1-based spreadsheet row.
			serialNumber = fmt.Sprintf("INV-%d", i+1)
		}

		customerName := coerce.String(customer, domain.Missing)
		productName := coerce.String(product, domain.Missing)

		qty := coerce.Int(rowData["quantity"])
		if qty == 0 {
			qty = 1
		}

		totalAmount := coerce.Float(rowData["total_amount"])
		tax := coerce.Float(rowData["tax"])

		if opts.WithSummary {
			// Reconcile tax from a percentage column when no absolute
			// tax amount is present.
			taxPercent := coerce.Float(rowData["tax_percent"])
			if tax == 0 && taxPercent > 0 && totalAmount > 0 {
				amountBeforeTax := totalAmount / (1 + taxPercent/100)
				tax = totalAmount - amountBeforeTax
			}
		}

		discount := coerce.Float(rowData["discount"])

		unitPrice := coerce.Float(rowData["unit_price"])
		if unitPrice == 0 && totalAmount > 0 && qty > 0 {
			unitPrice = (totalAmount - tax) / float64(qty)
		}

		line := domain.InvoiceLine{
			SerialNumber: serialNumber,
			CustomerName: customerName,
			ProductName:  productName,
			Quantity:     qty,
			Tax:          tax,
			TotalAmount:  totalAmount,
			Date:         coerce.DateString(rowData["date"]),
			Discount:     discount,
			PaymentMode:  coerce.String(rowData["payment_mode"], domain.Missing),
			Notes:        coerce.String(rowData["status"], domain.Missing),
		}
		result.Invoices = append(result.Invoices, line)

		if opts.WithSummary {
			summary.TotalQuantity += qty
			summary.TotalAmount += totalAmount
			summary.TotalTax += tax
		}

		if productName != domain.Missing {
			if pos, ok := productIndex[productName]; ok {
				// Quantity, tax and total accumulate; unit price, sku
				// and discount are first-write-wins.
				result.Products[pos].Quantity += qty
				result.Products[pos].PriceWithTax += totalAmount
				result.Products[pos].Tax += tax
			} else {
				productIndex[productName] = len(result.Products)
				result.Products = append(result.Products, domain.Product{
					Name:         productName,
					Quantity:     qty,
					UnitPrice:    unitPrice,
					Tax:          tax,
					PriceWithTax: totalAmount,
					Discount:     discount,
					SKU:          domain.Missing,
				})
			}
		}

		if customerName != domain.Missing {
			if pos, ok := customerIndex[customerName]; ok {
				// Contact fields are never overwritten after the first
				// occurrence; only the running total accumulates.
				result.Customers[pos].TotalPurchaseAmount += totalAmount
			} else {
				customerIndex[customerName] = len(result.Customers)
				result.Customers = append(result.Customers, domain.Customer{
					CustomerName:        customerName,
					PhoneNumber:         coerce.String(rowData["phone_number"], domain.Missing),
					TotalPurchaseAmount: totalAmount,
					Email:               coerce.String(rowData["email"], domain.Missing),
					Address:             coerce.String(rowData["address"], domain.Missing),
				})
			}
		}
	}

	if opts.WithSummary {
		summary.NetAmount = summary.TotalAmount - summary.TotalTax
		result.Summary = &summary
	}

	return result, nil
}
