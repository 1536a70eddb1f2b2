// Package ai normalizes raw model output into the canonical extraction
// result. Models are asked for bare JSON but frequently wrap it in markdown
// fences or omit fields; everything here is defensive re-coercion.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/extractkit/invoice-extraction-service/internal/coerce"
	"github.com/extractkit/invoice-extraction-service/internal/domain"
)

// ResponseError reports a malformed model response. It is terminal at this
// layer; retrying the same payload is the orchestrator's decision.
type ResponseError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *ResponseError) Error() string {
	if e.Err == nil {
		return "ai response error: " + e.Op
	}
	return "ai response error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// StripFences removes an optional markdown code fence from model output.
// A "```json" marker takes the substring up to the next "```"; otherwise
// the first pair of bare "```" markers delimits the payload; otherwise the
// text is returned unmodified. The result is whitespace-trimmed.
func StripFences(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}
	return strings.TrimSpace(text)
}

// Normalize parses raw model output and coerces it into a schema-complete
// extraction result. Missing top-level collections default to empty; every
// field of every entry is re-coerced to its canonical type regardless of
// the type the model returned.
func Normalize(raw string) (*domain.ExtractionResult, error) {
	cleaned := StripFences(raw)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &ResponseError{
			Op:  "parse_json",
			Err: fmt.Errorf("model returned invalid JSON: %w", err),
		}
	}

	result := domain.NewExtractionResult()

	for _, entry := range entryList(payload["invoices"]) {
		// An absent quantity means one unit; a reported quantity is
		// coerced as-is and may legitimately be 0.
		quantity := 1
		if v, ok := entry["quantity"]; ok {
			quantity = coerce.Int(v)
		}
		result.Invoices = append(result.Invoices, domain.InvoiceLine{
			SerialNumber: coerce.String(entry["serial_number"], domain.Missing),
			CustomerName: coerce.String(entry["customer_name"], domain.Missing),
			ProductName:  coerce.String(entry["product_name"], domain.Missing),
			Quantity:     quantity,
			Tax:          coerce.Float(entry["tax"]),
			TotalAmount:  coerce.Float(entry["total_amount"]),
			Date:         coerce.DateString(entry["date"]),
			Discount:     coerce.Float(entry["discount"]),
			PaymentMode:  coerce.String(entry["payment_mode"], domain.Missing),
			Notes:        coerce.String(entry["notes"], domain.Missing),
		})
	}

	for _, entry := range entryList(payload["products"]) {
		result.Products = append(result.Products, domain.Product{
			Name:         coerce.String(entry["name"], domain.Missing),
			Quantity:     coerce.Int(entry["quantity"]),
			UnitPrice:    coerce.Float(entry["unit_price"]),
			Tax:          coerce.Float(entry["tax"]),
			PriceWithTax: coerce.Float(entry["price_with_tax"]),
			Discount:     coerce.Float(entry["discount"]),
			SKU:          coerce.String(entry["sku"], domain.Missing),
		})
	}

	for _, entry := range entryList(payload["customers"]) {
		result.Customers = append(result.Customers, domain.Customer{
			CustomerName:        coerce.String(entry["customer_name"], domain.Missing),
			PhoneNumber:         coerce.String(entry["phone_number"], domain.Missing),
			TotalPurchaseAmount: coerce.Float(entry["total_purchase_amount"]),
			Email:               coerce.String(entry["email"], domain.Missing),
			Address:             coerce.String(entry["address"], domain.Missing),
		})
	}

	if raw, ok := payload["summary"].(map[string]interface{}); ok {
		result.Summary = &domain.Summary{
			TotalQuantity: coerce.Int(raw["total_quantity"]),
			TotalAmount:   coerce.Float(raw["total_amount"]),
			CGST:          coerce.Float(raw["cgst"]),
			SGST:          coerce.Float(raw["sgst"]),
			IGST:          coerce.Float(raw["igst"]),
			NetAmount:     coerce.Float(raw["net_amount"]),
			TotalTax:      coerce.Float(raw["total_tax"]),
			ExtraDiscount: coerce.Float(raw["extra_discount"]),
			RoundOff:      coerce.Float(raw["round_off"]),
		}
	}

	return result, nil
}

// entryList converts a decoded JSON value to a list of objects, dropping
// entries of any other shape.
func entryList(value interface{}) []map[string]interface{} {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	entries := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if entry, ok := item.(map[string]interface{}); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}
