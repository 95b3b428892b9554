package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDForTenant finds an item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Item, error)

	// FindBySKU finds an item by SKU within a tenant
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Item, error)

	// FindAllForTenant finds all items for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)

	// ExistsBySKU checks SKU uniqueness within a tenant
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForTenant counts items matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
