package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// fakeGenerator scripts AI responses per call and records the models used.
type fakeGenerator struct {
	generateText  func(modelName, prompt, payload string) (string, error)
	generateImage func(modelName, prompt string, png []byte) (string, error)
	textModels    []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, modelName, prompt, payload string) (string, error) {
	f.textModels = append(f.textModels, modelName)
	return f.generateText(modelName, prompt, payload)
}

func (f *fakeGenerator) GenerateImage(_ context.Context, modelName, prompt string, png []byte) (string, error) {
	if f.generateImage == nil {
		return "", errors.New("unexpected vision call")
	}
	return f.generateImage(modelName, prompt, png)
}

// testConfig keeps retries fast and deterministic.
func testConfig() *Config {
	return &Config{
		Candidates:    []string{"model-a", "model-b"},
		VisionModel:   "model-vision",
		MaxAttempts:   2,
		BackoffBase:   time.Millisecond,
		SpreadsheetAI: true,
		MaxWorkers:    2,
	}
}

// writeWorkbook builds a real .xlsx fixture on disk.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func sampleInvoiceRows() [][]interface{} {
	return [][]interface{}{
		{"Serial Number", "Customer Name", "Product Name", "Qty", "Total"},
		{"INV1", "Alice", "Widget", 2, 100},
		{"INV2", "Bob", "Widget", 1, 50},
		{"Totals", "", "", 3, 150},
	}
}

func TestProcessFileQuotaFallback(t *testing.T) {
	// Every candidate exhausts its quota retries; the orchestrator must
	// transparently return rule-based results with success=true.
	gen := &fakeGenerator{
		generateText: func(string, string, string) (string, error) {
			return "", errors.New("googleapi: Error 429: quota exceeded")
		},
	}
	svc := NewExtractionService(gen, testConfig())
	path := writeWorkbook(t, sampleInvoiceRows())

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")

	if !resp.Success {
		t.Fatalf("expected success via fallback, got message %q", resp.Message)
	}
	if len(resp.Invoices) != 2 {
		t.Errorf("expected 2 invoices, got %d", len(resp.Invoices))
	}
	if len(resp.Products) != 1 || resp.Products[0].Quantity != 3 {
		t.Errorf("unexpected products: %+v", resp.Products)
	}
	// Quota errors retry each candidate to its attempt budget.
	if got := len(gen.textModels); got != 4 {
		t.Errorf("expected 4 AI calls (2 candidates x 2 attempts), got %d: %v", got, gen.textModels)
	}
}

func TestProcessFileNonQuotaAdvancesImmediately(t *testing.T) {
	gen := &fakeGenerator{
		generateText: func(string, string, string) (string, error) {
			return "", errors.New("internal model error")
		},
	}
	svc := NewExtractionService(gen, testConfig())
	path := writeWorkbook(t, sampleInvoiceRows())

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")

	if !resp.Success {
		t.Fatalf("expected fallback success, got %q", resp.Message)
	}
	// One attempt per candidate, no backoff retries.
	want := []string{"model-a", "model-b"}
	if len(gen.textModels) != len(want) || gen.textModels[0] != want[0] || gen.textModels[1] != want[1] {
		t.Errorf("calls = %v, want %v", gen.textModels, want)
	}
}

func TestProcessFileAISuccess(t *testing.T) {
	aiJSON := `{
		"invoices": [{"serial_number": "AI-1", "customer_name": "Alice", "product_name": "Widget", "quantity": 2, "tax": 0, "total_amount": 100}],
		"products": [{"name": "Widget", "quantity": 2, "unit_price": 50, "tax": 0, "price_with_tax": 100}],
		"customers": [{"customer_name": "Alice", "total_purchase_amount": 100}],
		"summary": {"total_quantity": 2, "total_amount": 100}
	}`
	gen := &fakeGenerator{
		generateText: func(string, string, string) (string, error) {
			return "```json\n" + aiJSON + "\n```", nil
		},
	}
	svc := NewExtractionService(gen, testConfig())
	path := writeWorkbook(t, sampleInvoiceRows())

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")

	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}
	if len(resp.Invoices) != 1 || resp.Invoices[0].SerialNumber != "AI-1" {
		t.Errorf("expected AI result, got %+v", resp.Invoices)
	}
	if resp.Summary == nil || resp.Summary.TotalAmount != 100 {
		t.Errorf("expected AI summary, got %+v", resp.Summary)
	}
	if len(gen.textModels) != 1 {
		t.Errorf("expected a single AI call, got %v", gen.textModels)
	}
}

func TestProcessFileInvalidJSONFallsBack(t *testing.T) {
	gen := &fakeGenerator{
		generateText: func(string, string, string) (string, error) {
			return "I could not find any invoices, sorry.", nil
		},
	}
	svc := NewExtractionService(gen, testConfig())
	path := writeWorkbook(t, sampleInvoiceRows())

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")

	if !resp.Success {
		t.Fatalf("expected fallback success, got %q", resp.Message)
	}
	if len(resp.Invoices) != 2 {
		t.Errorf("expected rule-based invoices, got %d", len(resp.Invoices))
	}
}

func TestProcessFileBothPathsFail(t *testing.T) {
	gen := &fakeGenerator{
		generateText: func(string, string, string) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	svc := NewExtractionService(gen, testConfig())
	// A workbook with no rows fails rule-based extraction too.
	path := writeWorkbook(t, nil)

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")

	if resp.Success {
		t.Fatal("expected failure when both paths fail")
	}
	if !strings.Contains(resp.Message, "Both AI and manual parsing failed") {
		t.Errorf("message = %q, want combined failure", resp.Message)
	}
	if !strings.Contains(resp.Message, "model unavailable") {
		t.Errorf("message = %q, want AI cause included", resp.Message)
	}
	if len(resp.Invoices) != 0 || len(resp.Products) != 0 || len(resp.Customers) != 0 {
		t.Errorf("failure envelope must carry empty collections: %+v", resp)
	}
	if resp.Invoices == nil || resp.Products == nil || resp.Customers == nil {
		t.Error("failure collections must be non-nil")
	}
}

func TestProcessFileRuleBasedWhenAIDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.SpreadsheetAI = false
	gen := &fakeGenerator{
		generateText: func(string, string, string) (string, error) {
			return "", errors.New("should not be called")
		},
	}
	svc := NewExtractionService(gen, cfg)
	path := writeWorkbook(t, sampleInvoiceRows())

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")

	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}
	if len(gen.textModels) != 0 {
		t.Errorf("AI must not be called when disabled, got %v", gen.textModels)
	}
	if resp.Summary == nil {
		t.Error("rule-based path should produce a summary")
	}
}

func TestProcessFileNoGenerator(t *testing.T) {
	svc := NewExtractionService(nil, testConfig())
	path := writeWorkbook(t, sampleInvoiceRows())

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")
	if !resp.Success {
		t.Fatalf("spreadsheets must work without an API key, got %q", resp.Message)
	}
}

func TestProcessFileDocumentWithoutGenerator(t *testing.T) {
	svc := NewExtractionService(nil, testConfig())

	resp := svc.ProcessFile(context.Background(), "whatever.png", ".png")
	if resp.Success {
		t.Fatal("vision path must fail without an API key")
	}
	if !strings.Contains(resp.Message, "GEMINI_API_KEY") {
		t.Errorf("message = %q, want configuration cause", resp.Message)
	}
}

func TestProcessFileUnreadableSpreadsheet(t *testing.T) {
	svc := NewExtractionService(nil, testConfig())

	resp := svc.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), ".xlsx")
	if resp.Success {
		t.Fatal("expected failure for unreadable file")
	}
	if !strings.Contains(resp.Message, "Extraction failed") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestProcessFileMessage(t *testing.T) {
	svc := NewExtractionService(nil, testConfig())
	path := writeWorkbook(t, sampleInvoiceRows())

	resp := svc.ProcessFile(context.Background(), path, ".xlsx")
	if resp.Message != fmt.Sprintf("Successfully extracted %d invoices", len(resp.Invoices)) {
		t.Errorf("message = %q", resp.Message)
	}
}
