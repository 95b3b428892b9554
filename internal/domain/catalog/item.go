package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Item represents a stocked product. All on-hand quantities for an item are
// stored in its base unit; order lines may use any unit reachable from the
// base unit in the conversion graph.
type Item struct {
	shared.TenantAggregateRoot
	SKU          string `gorm:"type:varchar(50);not null;uniqueIndex:idx_item_tenant_sku,priority:2"`
	Name         string `gorm:"type:varchar(200);not null"`
	BaseUnitCode string `gorm:"type:varchar(20);not null"`
	Description  string `gorm:"type:varchar(500)"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item
func NewItem(tenantID uuid.UUID, sku, name, baseUnitCode string) (*Item, error) {
	sku = strings.TrimSpace(strings.ToUpper(sku))
	name = strings.TrimSpace(name)
	baseUnitCode = strings.TrimSpace(strings.ToUpper(baseUnitCode))

	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Item SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "Item SKU cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if baseUnitCode == "" {
		return nil, shared.NewDomainError("INVALID_BASE_UNIT", "Item base unit cannot be empty")
	}

	return &Item{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		BaseUnitCode:        baseUnitCode,
		Active:              true,
	}, nil
}

// Update updates the item's display fields
func (i *Item) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	i.Name = name
	i.Description = description
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Deactivate marks the item inactive. Inactive items keep their stock rows
// and movement history; they just stop appearing on new order lines.
func (i *Item) Deactivate() {
	i.Active = false
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Activate marks the item active again
func (i *Item) Activate() {
	i.Active = true
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
