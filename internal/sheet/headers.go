package sheet

import "strings"

// headerSynonyms maps human-written column headers, lowercased and trimmed,
// to canonical field names. Headers not in the table fall back to the
// lowercased value with spaces replaced by underscores.
var headerSynonyms = map[string]string{
	"serial number":      "serial_number",
	"serial no":          "serial_number",
	"invoice number":     "serial_number",
	"invoice no":         "serial_number",
	"customer name":      "customer_name",
	"customer":           "customer_name",
	"party name":         "customer_name",
	"party company name": "customer_company",
	"product name":       "product_name",
	"product":            "product_name",
	"item":               "product_name",
	"quantity":           "quantity",
	"qty":                "quantity",
	"tax":                "tax",
	"tax (%)":            "tax_percent",
	"total":              "total_amount",
	"total amount":       "total_amount",
	"item total amount":  "total_amount",
	"price with tax":     "total_amount",
	"date":               "date",
	"invoice date":       "date",
	"price":              "unit_price",
	"unit price":         "unit_price",
	"rate":               "unit_price",
	"discount":           "discount",
	"item discount":      "discount",
	"payment mode":       "payment_mode",
	"status":             "status",
	"sku":                "sku",
	"phone":              "phone_number",
	"phone number":       "phone_number",
	"email":              "email",
	"address":            "address",
}

// NormalizeHeaders maps raw header cells to canonical field names. The
// result has the same length and positions as the input; position, not the
// header text, is the join key to row values.
func NormalizeHeaders(raw []string) []string {
	normalized := make([]string, len(raw))
	for i, h := range raw {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := headerSynonyms[key]; ok {
			normalized[i] = canonical
			continue
		}
		normalized[i] = strings.ReplaceAll(key, " ", "_")
	}
	return normalized
}
