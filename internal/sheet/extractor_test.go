package sheet

import (
	"testing"

	"github.com/extractkit/invoice-extraction-service/internal/domain"
)

func TestExtractEndToEnd(t *testing.T) {
	grid := Grid{
		{"serial number", "customer name", "product name", "qty", "total"},
		{"INV1", "Alice", "Widget", "2", "100"},
		{"INV2", "Bob", "Widget", "1", "50"},
		{"Totals", "", "", "3", "150"},
	}

	result, err := Extract(grid, Options{WithSummary: true})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(result.Invoices) != 2 {
		t.Fatalf("expected 2 invoices, got %d", len(result.Invoices))
	}
	if len(result.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(result.Products))
	}
	if len(result.Customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(result.Customers))
	}

	widget := result.Products[0]
	if widget.Name != "Widget" {
		t.Errorf("product name = %q, want Widget", widget.Name)
	}
	if widget.Quantity != 3 {
		t.Errorf("product quantity = %d, want 3", widget.Quantity)
	}
	if widget.PriceWithTax != 150 {
		t.Errorf("product price_with_tax = %v, want 150", widget.PriceWithTax)
	}

	if result.Summary == nil {
		t.Fatal("expected summary on full variant")
	}
	if result.Summary.TotalAmount != 150 {
		t.Errorf("summary total_amount = %v, want 150", result.Summary.TotalAmount)
	}
	if result.Summary.TotalQuantity != 3 {
		t.Errorf("summary total_quantity = %d, want 3", result.Summary.TotalQuantity)
	}
}

func TestExtractSkipsTotalsRows(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Product Name", "Total"},
		{"  TOTALS  ", "ignored", "999"},
		{"summary", "ignored", "1"},
		{"INV1", "Widget", "10"},
	}

	result, err := Extract(grid, Options{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(result.Invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(result.Invoices))
	}
	if result.Invoices[0].SerialNumber != "INV1" {
		t.Errorf("serial = %q, want INV1", result.Invoices[0].SerialNumber)
	}
}

func TestExtractSkipsEmptyAndUnkeyedRows(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Customer Name", "Product Name", "Total"},
		{"", "", "", ""},
		{"", "Charlie", "", "20"}, // no serial and no product
		{"INV9", "Dana", "Gadget", "30"},
	}

	result, err := Extract(grid, Options{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(result.Invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(result.Invoices))
	}
}

func TestExtractSynthesizesSerialAndQuantity(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Product Name", "Qty", "Total"},
		{"", "Widget", "0", "40"},
	}

	result, err := Extract(grid, Options{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(result.Invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(result.Invoices))
	}

	line := result.Invoices[0]
	// The synthesized serial carries the 1-based spreadsheet row number,
	// headers included.
	if line.SerialNumber != "INV-2" {
		t.Errorf("serial = %q, want INV-2", line.SerialNumber)
	}
	if line.Quantity != 1 {
		t.Errorf("quantity = %d, want 1 (zero forced to 1)", line.Quantity)
	}
}

func TestExtractTaxFromPercent(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Product Name", "Qty", "Tax (%)", "Total"},
		{"INV1", "Widget", "1", "18", "118"},
	}

	result, err := Extract(grid, Options{WithSummary: true})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	line := result.Invoices[0]
	// 118 - 118/1.18 = 18
	if line.Tax < 17.99 || line.Tax > 18.01 {
		t.Errorf("tax = %v, want ~18", line.Tax)
	}
	// Unit price derives from (total - tax) / qty.
	if line.TotalAmount != 118 {
		t.Errorf("total_amount = %v, want 118", line.TotalAmount)
	}
	if got := result.Products[0].UnitPrice; got < 99.99 || got > 100.01 {
		t.Errorf("unit_price = %v, want ~100", got)
	}
}

func TestExtractPlainVariantIgnoresTaxPercent(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Product Name", "Tax (%)", "Total"},
		{"INV1", "Widget", "18", "118"},
	}

	result, err := Extract(grid, Options{WithSummary: false})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result.Invoices[0].Tax != 0 {
		t.Errorf("plain variant tax = %v, want 0", result.Invoices[0].Tax)
	}
	if result.Summary != nil {
		t.Error("plain variant must not produce a summary")
	}
}

func TestExtractCustomerFirstWriteWins(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Customer Name", "Product Name", "Phone", "Total"},
		{"INV1", "Alice", "Widget", "111", "100"},
		{"INV2", "Alice", "Widget", "222", "50"},
	}

	result, err := Extract(grid, Options{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(result.Customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(result.Customers))
	}

	alice := result.Customers[0]
	if alice.PhoneNumber != "111" {
		t.Errorf("phone = %q, want 111 (first occurrence wins)", alice.PhoneNumber)
	}
	if alice.TotalPurchaseAmount != 150 {
		t.Errorf("total_purchase_amount = %v, want 150", alice.TotalPurchaseAmount)
	}
}

func TestExtractProductFirstWriteWins(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Product Name", "Qty", "Unit Price", "Discount", "Total"},
		{"INV1", "Widget", "1", "10", "5", "10"},
		{"INV2", "Widget", "2", "99", "7", "20"},
	}

	result, err := Extract(grid, Options{})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	widget := result.Products[0]
	if widget.UnitPrice != 10 {
		t.Errorf("unit_price = %v, want 10 (not overwritten)", widget.UnitPrice)
	}
	if widget.Discount != 5 {
		t.Errorf("discount = %v, want 5 (not overwritten)", widget.Discount)
	}
	if widget.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", widget.Quantity)
	}
	if widget.PriceWithTax != 30 {
		t.Errorf("price_with_tax = %v, want 30", widget.PriceWithTax)
	}
}

func TestExtractNonNegativeInvariants(t *testing.T) {
	grid := Grid{
		{"Serial Number", "Product Name", "Qty", "Tax", "Total", "Discount"},
		{"INV1", "Widget", "junk", "not-a-number", "garbage", ""},
	}

	result, err := Extract(grid, Options{WithSummary: true})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	line := result.Invoices[0]
	if line.Quantity < 1 {
		t.Errorf("quantity = %d, want >= 1", line.Quantity)
	}
	if line.Tax < 0 || line.TotalAmount < 0 || line.Discount < 0 {
		t.Errorf("negative numeric field in %+v", line)
	}
	if line.PaymentMode != domain.Missing || line.Notes != domain.Missing {
		t.Errorf("string defaults not applied: %+v", line)
	}
}

func TestExtractEmptyGrid(t *testing.T) {
	if _, err := Extract(Grid{}, Options{}); err == nil {
		t.Fatal("expected error for empty grid")
	}
}
