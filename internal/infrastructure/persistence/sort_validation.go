package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CreditNoteSortFields contains allowed sort fields for credit notes
var CreditNoteSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"note_number":   true,
	"note_date":     true,
	"customer_name": true,
	"status":        true,
	"amount":        true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_number": true,
	"payment_date":   true,
	"customer_name":  true,
	"status":         true,
	"method":         true,
	"type":           true,
	"amount":         true,
}

// CustomerSortFields contains allowed sort fields for the customer directory
var CustomerSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"email":        true,
	"phone":        true,
	"city":         true,
	"state":        true,
	"status":       true,
	"balance":      true,
	"credit_limit": true,
}
