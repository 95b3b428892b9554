package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// StockLevelRepository defines the interface for stock level persistence
type StockLevelRepository interface {
	// FindByID finds a stock level by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLevel, error)

	// FindByKey finds the row for a (warehouse, bin, item) key.
	// A nil binID addresses un-binned stock.
	FindByKey(ctx context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*StockLevel, error)

	// FindByWarehouse finds all stock levels in a warehouse
	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// FindByItem finds all stock levels for an item across locations
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]StockLevel, error)

	// GetOrCreate gets the existing row for a key or creates an empty one.
	// Creation must be conflict-safe under concurrent callers.
	GetOrCreate(ctx context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*StockLevel, error)

	// Save creates or updates a stock level
	Save(ctx context.Context, level *StockLevel) error

	// SaveWithLock saves with optimistic locking: the update only applies if
	// the stored version still matches the version the row was read at.
	// Returns CONCURRENCY_CONFLICT when another writer got there first.
	SaveWithLock(ctx context.Context, level *StockLevel) error

	// SumQuantityByItem sums on-hand quantity for an item across locations
	SumQuantityByItem(ctx context.Context, tenantID, itemID uuid.UUID) (decimal.Decimal, error)

	// SumValueByWarehouse sums inventory value (qty * avg cost) in a warehouse
	SumValueByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (decimal.Decimal, error)

	// CountForTenant counts stock levels matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// MovementRepository defines the interface for movement persistence.
// Movements are append-only; there is deliberately no update or delete.
type MovementRepository interface {
	// Create appends a new movement record
	Create(ctx context.Context, movement *Movement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)

	// FindByRef finds all movements for a source document
	FindByRef(ctx context.Context, refType RefType, refID uuid.UUID) ([]Movement, error)

	// FindForTenant finds movements for a tenant with filtering
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// SumLineQuantity sums the line-unit quantity of all movements recorded
	// for one order line. This is the authoritative already-fulfilled figure
	// used for idempotent resumption after partial failure.
	SumLineQuantity(ctx context.Context, refType RefType, refID, refLineID uuid.UUID) (decimal.Decimal, error)

	// SumBaseQuantity sums the base-unit quantity recorded for one order line
	SumBaseQuantity(ctx context.Context, refType RefType, refID, refLineID uuid.UUID) (decimal.Decimal, error)

	// CountForTenant counts movements matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
