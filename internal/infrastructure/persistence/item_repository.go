package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForTenant finds an item by ID within a tenant
func (r *GormItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds an item by SKU within a tenant
func (r *GormItemRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku = ?", tenantID, strings.TrimSpace(strings.ToUpper(sku))).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAllForTenant finds all items for a tenant
func (r *GormItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	var items []catalog.Item
	query := applyListFilter(
		r.filterQuery(ctx, tenantID, filter),
		filter, ItemSortFields,
	)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ExistsBySKU checks SKU uniqueness within a tenant
func (r *GormItemRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Item{}).
		Where("tenant_id = ? AND sku = ?", tenantID, strings.TrimSpace(strings.ToUpper(sku))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes an item
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts items matching the filter
func (r *GormItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filterQuery(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormItemRepository) filterQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&catalog.Item{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sku ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if baseUnit, ok := filter.Filters["base_unit_code"]; ok {
		query = query.Where("base_unit_code = ?", baseUnit)
	}
	return query
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)
