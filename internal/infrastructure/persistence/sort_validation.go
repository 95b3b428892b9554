package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
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

// UnitSortFields contains allowed sort fields for units of measure
var UnitSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"family":     true,
}

// ItemSortFields contains allowed sort fields for catalog items
var ItemSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sku":            true,
	"name":           true,
	"base_unit_code": true,
	"active":         true,
}

// StockLevelSortFields contains allowed sort fields for stock levels
var StockLevelSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"warehouse_id":     true,
	"item_id":          true,
	"on_hand_quantity": true,
	"avg_unit_cost":    true,
}

// MovementSortFields contains allowed sort fields for movements
var MovementSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"occurred_at": true,
	"type":        true,
	"item_id":     true,
	"ref_type":    true,
}

// OrderSortFields contains allowed sort fields for purchase and sales orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total_amount": true,
	"approved_at":  true,
}
