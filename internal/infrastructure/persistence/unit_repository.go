package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/uom"
	"gorm.io/gorm"
)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*uom.UnitOfMeasure, error) {
	var unit uom.UnitOfMeasure
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByCode finds a unit by normalized code within a tenant
func (r *GormUnitRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*uom.UnitOfMeasure, error) {
	var unit uom.UnitOfMeasure
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, uom.NormalizeUnitCode(code)).
		First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindAllForTenant finds all units for a tenant
func (r *GormUnitRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]uom.UnitOfMeasure, error) {
	var units []uom.UnitOfMeasure
	query := applyListFilter(
		r.filterQuery(ctx, tenantID, filter),
		filter, UnitSortFields,
	)
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// ExistsByCode checks code uniqueness within a tenant
func (r *GormUnitRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&uom.UnitOfMeasure{}).
		Where("tenant_id = ? AND code = ?", tenantID, uom.NormalizeUnitCode(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *uom.UnitOfMeasure) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// Delete deletes a unit
func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&uom.UnitOfMeasure{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts units for a tenant
func (r *GormUnitRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filterQuery(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUnitRepository) filterQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&uom.UnitOfMeasure{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if family, ok := filter.Filters["family"]; ok {
		query = query.Where("family = ?", family)
	}
	return query
}

var _ uom.UnitRepository = (*GormUnitRepository)(nil)
