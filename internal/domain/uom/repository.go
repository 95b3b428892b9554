package uom

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// UnitRepository defines the interface for unit master-data persistence
type UnitRepository interface {
	// FindByID finds a unit by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*UnitOfMeasure, error)

	// FindByCode finds a unit by normalized code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*UnitOfMeasure, error)

	// FindAllForTenant finds all units for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]UnitOfMeasure, error)

	// ExistsByCode checks code uniqueness within a tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// Save creates or updates a unit
	Save(ctx context.Context, unit *UnitOfMeasure) error

	// Delete deletes a unit
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForTenant counts units for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ConversionEdgeRepository defines the interface for conversion edge persistence
type ConversionEdgeRepository interface {
	// FindByID finds an edge by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ConversionEdge, error)

	// FindByPair finds the edge for a (from, to) pair in the given scope.
	// A nil scopeID queries global edges.
	FindByPair(ctx context.Context, scopeID *uuid.UUID, fromCode, toCode string) (*ConversionEdge, error)

	// FindGlobal finds all global default edges
	FindGlobal(ctx context.Context) ([]ConversionEdge, error)

	// FindScoped finds all edges scoped to the given tenant
	FindScoped(ctx context.Context, scopeID uuid.UUID) ([]ConversionEdge, error)

	// Save creates or updates an edge
	Save(ctx context.Context, edge *ConversionEdge) error

	// Delete deletes an edge
	Delete(ctx context.Context, id uuid.UUID) error
}
