package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by its ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForTenant finds a purchase order by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by number within a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindAllForTenant finds purchase orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders in a given status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// ExistsByOrderNumber checks order number uniqueness within a tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// Save creates or updates a purchase order and its lines
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking on the order version
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete deletes a purchase order and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForTenant counts purchase orders matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// SalesOrderRepository defines the interface for sales order persistence
type SalesOrderRepository interface {
	// FindByID finds a sales order by its ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByIDForTenant finds a sales order by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)

	// FindByOrderNumber finds a sales order by number within a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*SalesOrder, error)

	// FindAllForTenant finds sales orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)

	// FindByStatus finds sales orders in a given status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status SalesOrderStatus, filter shared.Filter) ([]SalesOrder, error)

	// ExistsByOrderNumber checks order number uniqueness within a tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// Save creates or updates a sales order and its lines
	Save(ctx context.Context, order *SalesOrder) error

	// SaveWithLock saves with optimistic locking on the order version
	SaveWithLock(ctx context.Context, order *SalesOrder) error

	// Delete deletes a sales order and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForTenant counts sales orders matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
