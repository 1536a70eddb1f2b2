package gemini

import "errors"

var errNoCandidates = errors.New("no candidates in response")

// DocumentPrompt is the extraction prompt for the vision path over invoice
// images and rasterized PDFs.
const DocumentPrompt = `Extract ALL invoice data from this document and return ONLY valid JSON:

{
  "invoices": [
    {
      "serial_number": "invoice number or INV-001",
      "customer_name": "customer name",
      "product_name": "product name",
      "quantity": number,
      "tax": number,
      "total_amount": number,
      "date": "YYYY-MM-DD or MISSING",
      "discount": number or 0,
      "payment_mode": "payment type or MISSING",
      "notes": "notes or MISSING"
    }
  ],
  "products": [
    {
      "name": "product name",
      "quantity": total quantity,
      "unit_price": price per unit,
      "tax": tax amount,
      "price_with_tax": total with tax,
      "discount": discount or 0,
      "sku": "SKU or MISSING"
    }
  ],
  "customers": [
    {
      "customer_name": "customer name",
      "phone_number": "phone or MISSING",
      "total_purchase_amount": total amount,
      "email": "email or MISSING",
      "address": "address or MISSING"
    }
  ]
}

Rules:
- Extract ALL invoices/line items
- Use "MISSING" for unavailable fields
- Return ONLY JSON, no markdown
- All numbers must be numeric`

// SpreadsheetPrompt is the extraction prompt for the text path over
// rendered spreadsheet data. It additionally asks for a document summary
// seeded from totals rows.
const SpreadsheetPrompt = `You are an expert at extracting invoice data from Excel spreadsheets.

Analyze this Excel data and extract ALL invoice line items AND summary information. Return ONLY valid JSON with this structure:

{
  "invoices": [
    {
      "serial_number": "invoice/serial number",
      "customer_name": "customer/party name or company name",
      "product_name": "product/item name",
      "quantity": number,
      "tax": tax amount as number (if tax is percentage, calculate actual amount),
      "total_amount": total amount including tax as number,
      "date": "YYYY-MM-DD or MISSING",
      "discount": discount amount or 0,
      "payment_mode": "payment method or MISSING",
      "notes": "status/notes or MISSING"
    }
  ],
  "products": [
    {
      "name": "product name",
      "quantity": total quantity across all invoices,
      "unit_price": price per unit,
      "tax": total tax amount,
      "price_with_tax": total with tax,
      "discount": total discount or 0,
      "sku": "SKU or MISSING"
    }
  ],
  "customers": [
    {
      "customer_name": "customer/party name",
      "phone_number": "phone or MISSING",
      "total_purchase_amount": total amount,
      "email": "email or MISSING",
      "address": "address or MISSING"
    }
  ],
  "summary": {
    "total_quantity": total quantity from all invoices,
    "total_amount": grand total amount,
    "cgst": CGST amount if present,
    "sgst": SGST amount if present,
    "igst": IGST amount if present,
    "net_amount": net amount before tax,
    "total_tax": total tax amount,
    "extra_discount": extra discount if any,
    "round_off": round off amount if any
  }
}

CRITICAL RULES:
1. Extract EVERY row that represents an invoice line item
2. Skip summary rows (like "Totals", "Grand Total") from invoices BUT extract their values for the summary section
3. Skip completely empty rows
4. Each product in an invoice should be a separate invoice entry
5. Use "MISSING" for fields that are not available, use 0 for numeric fields that are not available
6. Convert all numbers to numeric types (not strings)
7. Aggregate products and customers correctly
8. Look for summary rows at the bottom with tax breakdowns (CGST, SGST, IGST)
9. Return ONLY JSON, no markdown, no explanations`
