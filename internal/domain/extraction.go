package domain

import "github.com/extractkit/invoice-extraction-service/internal/coerce"

// Missing re-exports the sentinel used for absent string fields so callers
// don't need to import the coerce package just for the constant.
const Missing = coerce.Missing

// InvoiceLine represents one extracted invoice line item. A line is created
// per source spreadsheet row or per AI-reported item and is immutable once
// emitted.
type InvoiceLine struct {
	SerialNumber string  `json:"serial_number"`
	CustomerName string  `json:"customer_name"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	Tax          float64 `json:"tax"`
	TotalAmount  float64 `json:"total_amount"`
	Date         string  `json:"date"`
	Discount     float64 `json:"discount"`
	PaymentMode  string  `json:"payment_mode"`
	Notes        string  `json:"notes"`
}

// Product is the per-product aggregate built by folding invoice lines.
// Quantity, Tax and PriceWithTax accumulate across lines; UnitPrice, SKU
// and Discount keep the value seen on the first occurrence.
type Product struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Tax          float64 `json:"tax"`
	PriceWithTax float64 `json:"price_with_tax"`
	Discount     float64 `json:"discount"`
	SKU          string  `json:"sku"`
}

// Customer is the per-customer aggregate. Contact fields are set from the
// first occurrence and never overwritten; only TotalPurchaseAmount
// accumulates.
type Customer struct {
	CustomerName        string  `json:"customer_name"`
	PhoneNumber         string  `json:"phone_number"`
	TotalPurchaseAmount float64 `json:"total_purchase_amount"`
	Email               string  `json:"email"`
	Address             string  `json:"address"`
}

// Summary carries document-level totals. It is produced by the full
// spreadsheet variants only; all fields default to zero.
type Summary struct {
	TotalQuantity int     `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	IGST          float64 `json:"igst"`
	NetAmount     float64 `json:"net_amount"`
	TotalTax      float64 `json:"total_tax"`
	ExtraDiscount float64 `json:"extra_discount"`
	RoundOff      float64 `json:"round_off"`
}

// ExtractionResult is the normalized three-entity output of any extraction
// path. The collections are always non-nil.
type ExtractionResult struct {
	Invoices  []InvoiceLine `json:"invoices"`
	Products  []Product     `json:"products"`
	Customers []Customer    `json:"customers"`
	Summary   *Summary      `json:"summary,omitempty"`
}

// NewExtractionResult creates an empty result with initialized collections.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		Invoices:  make([]InvoiceLine, 0),
		Products:  make([]Product, 0),
		Customers: make([]Customer, 0),
	}
}
