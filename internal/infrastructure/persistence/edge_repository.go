package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/uom"
	"gorm.io/gorm"
)

// GormConversionEdgeRepository implements ConversionEdgeRepository using GORM
type GormConversionEdgeRepository struct {
	db *gorm.DB
}

// NewGormConversionEdgeRepository creates a new GormConversionEdgeRepository
func NewGormConversionEdgeRepository(db *gorm.DB) *GormConversionEdgeRepository {
	return &GormConversionEdgeRepository{db: db}
}

// FindByID finds an edge by its ID
func (r *GormConversionEdgeRepository) FindByID(ctx context.Context, id uuid.UUID) (*uom.ConversionEdge, error) {
	var edge uom.ConversionEdge
	if err := r.db.WithContext(ctx).First(&edge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &edge, nil
}

// FindByPair finds the edge for a (from, to) pair in the given scope.
// A nil scopeID queries global edges.
func (r *GormConversionEdgeRepository) FindByPair(ctx context.Context, scopeID *uuid.UUID, fromCode, toCode string) (*uom.ConversionEdge, error) {
	query := r.db.WithContext(ctx).
		Where("from_code = ? AND to_code = ?", uom.NormalizeUnitCode(fromCode), uom.NormalizeUnitCode(toCode))
	if scopeID == nil {
		query = query.Where("scope_id IS NULL")
	} else {
		query = query.Where("scope_id = ?", *scopeID)
	}

	var edge uom.ConversionEdge
	if err := query.First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &edge, nil
}

// FindGlobal finds all global default edges
func (r *GormConversionEdgeRepository) FindGlobal(ctx context.Context) ([]uom.ConversionEdge, error) {
	var edges []uom.ConversionEdge
	if err := r.db.WithContext(ctx).
		Where("scope_id IS NULL").
		Order("from_code ASC, to_code ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// FindScoped finds all edges scoped to the given tenant
func (r *GormConversionEdgeRepository) FindScoped(ctx context.Context, scopeID uuid.UUID) ([]uom.ConversionEdge, error) {
	var edges []uom.ConversionEdge
	if err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Order("from_code ASC, to_code ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// Save creates or updates an edge
func (r *GormConversionEdgeRepository) Save(ctx context.Context, edge *uom.ConversionEdge) error {
	return r.db.WithContext(ctx).Save(edge).Error
}

// Delete deletes an edge
func (r *GormConversionEdgeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&uom.ConversionEdge{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ uom.ConversionEdgeRepository = (*GormConversionEdgeRepository)(nil)
