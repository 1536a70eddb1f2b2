package model

import (
	"fmt"

	"github.com/extractkit/invoice-extraction-service/internal/domain"
)

// InvoiceLineDTO represents one extracted invoice line for data transfer
type InvoiceLineDTO struct {
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

// ProductDTO represents a product aggregate for data transfer
type ProductDTO struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Tax          float64 `json:"tax"`
	PriceWithTax float64 `json:"price_with_tax"`
	Discount     float64 `json:"discount"`
	SKU          string  `json:"sku"`
}

// CustomerDTO represents a customer aggregate for data transfer
type CustomerDTO struct {
	CustomerName        string  `json:"customer_name"`
	PhoneNumber         string  `json:"phone_number"`
	TotalPurchaseAmount float64 `json:"total_purchase_amount"`
	Email               string  `json:"email"`
	Address             string  `json:"address"`
}

// SummaryDTO carries document-level totals for data transfer
type SummaryDTO struct {
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

// ExtractionResponse is the uniform response envelope for every extraction
// path. The three collections are always present (empty, not null, on
// failure) and Success/Message describe the outcome; no partial results
// are ever returned.
type ExtractionResponse struct {
	Invoices  []InvoiceLineDTO `json:"invoices"`
	Products  []ProductDTO     `json:"products"`
	Customers []CustomerDTO    `json:"customers"`
	Summary   *SummaryDTO      `json:"summary,omitempty"`
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
}

// NewSuccessResponse builds the envelope for a completed extraction.
func NewSuccessResponse(result *domain.ExtractionResult) *ExtractionResponse {
	resp := &ExtractionResponse{
		Invoices:  make([]InvoiceLineDTO, 0, len(result.Invoices)),
		Products:  make([]ProductDTO, 0, len(result.Products)),
		Customers: make([]CustomerDTO, 0, len(result.Customers)),
		Success:   true,
		Message:   fmt.Sprintf("Successfully extracted %d invoices", len(result.Invoices)),
	}

	for _, line := range result.Invoices {
		resp.Invoices = append(resp.Invoices, InvoiceLineDTO{
			SerialNumber: line.SerialNumber,
			CustomerName: line.CustomerName,
			ProductName:  line.ProductName,
			Quantity:     line.Quantity,
			Tax:          line.Tax,
			TotalAmount:  line.TotalAmount,
			Date:         line.Date,
			Discount:     line.Discount,
			PaymentMode:  line.PaymentMode,
			Notes:        line.Notes,
		})
	}

	for _, product := range result.Products {
		resp.Products = append(resp.Products, ProductDTO{
			Name:         product.Name,
			Quantity:     product.Quantity,
			UnitPrice:    product.UnitPrice,
			Tax:          product.Tax,
			PriceWithTax: product.PriceWithTax,
			Discount:     product.Discount,
			SKU:          product.SKU,
		})
	}

	for _, customer := range result.Customers {
		resp.Customers = append(resp.Customers, CustomerDTO{
			CustomerName:        customer.CustomerName,
			PhoneNumber:         customer.PhoneNumber,
			TotalPurchaseAmount: customer.TotalPurchaseAmount,
			Email:               customer.Email,
			Address:             customer.Address,
		})
	}

	if result.Summary != nil {
		resp.Summary = &SummaryDTO{
			TotalQuantity: result.Summary.TotalQuantity,
			TotalAmount:   result.Summary.TotalAmount,
			CGST:          result.Summary.CGST,
			SGST:          result.Summary.SGST,
			IGST:          result.Summary.IGST,
			NetAmount:     result.Summary.NetAmount,
			TotalTax:      result.Summary.TotalTax,
			ExtraDiscount: result.Summary.ExtraDiscount,
			RoundOff:      result.Summary.RoundOff,
		}
	}

	return resp
}

// NewFailureResponse builds the envelope for a failed extraction. The
// collections are empty but present so the output schema stays stable.
func NewFailureResponse(message string) *ExtractionResponse {
	return &ExtractionResponse{
		Invoices:  make([]InvoiceLineDTO, 0),
		Products:  make([]ProductDTO, 0),
		Customers: make([]CustomerDTO, 0),
		Success:   false,
		Message:   message,
	}
}
