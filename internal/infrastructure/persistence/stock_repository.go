package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLevelRepository implements StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindByID finds a stock level by its ID
func (r *GormStockLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockLevel, error) {
	var level stock.StockLevel
	if err := r.db.WithContext(ctx).First(&level, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByKey finds the row for a (warehouse, bin, item) key
func (r *GormStockLevelRepository) FindByKey(ctx context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*stock.StockLevel, error) {
	var level stock.StockLevel
	if err := r.keyQuery(ctx, tenantID, warehouseID, binID, itemID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByWarehouse finds all stock levels in a warehouse
func (r *GormStockLevelRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]stock.StockLevel, error) {
	var levels []stock.StockLevel
	query := applyListFilter(
		r.db.WithContext(ctx).Model(&stock.StockLevel{}).
			Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID),
		filter, StockLevelSortFields,
	)
	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindByItem finds all stock levels for an item across locations
func (r *GormStockLevelRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]stock.StockLevel, error) {
	var levels []stock.StockLevel
	query := applyListFilter(
		r.db.WithContext(ctx).Model(&stock.StockLevel{}).
			Where("tenant_id = ? AND item_id = ?", tenantID, itemID),
		filter, StockLevelSortFields,
	)
	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// GetOrCreate gets the existing row for a key or creates an empty one.
// Creation races are resolved by the unique key index: the insert does
// nothing on conflict and the winner's row is read back.
func (r *GormStockLevelRepository) GetOrCreate(ctx context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) (*stock.StockLevel, error) {
	level, err := r.FindByKey(ctx, tenantID, warehouseID, binID, itemID)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := stock.NewStockLevel(tenantID, warehouseID, binID, itemID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindByKey(ctx, tenantID, warehouseID, binID, itemID)
}

// Save creates or updates a stock level
func (r *GormStockLevelRepository) Save(ctx context.Context, level *stock.StockLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SaveWithLock saves with optimistic locking on the row version. The domain
// increments the version on every mutation, so the guard compares against
// the version the row was read at.
func (r *GormStockLevelRepository) SaveWithLock(ctx context.Context, level *stock.StockLevel) error {
	result := r.db.WithContext(ctx).
		Model(&stock.StockLevel{}).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"on_hand_quantity": level.OnHandQuantity,
			"avg_unit_cost":    level.AvgUnitCost,
			"version":          level.Version,
			"updated_at":       level.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SumQuantityByItem sums on-hand quantity for an item across locations
func (r *GormStockLevelRepository) SumQuantityByItem(ctx context.Context, tenantID, itemID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&stock.StockLevel{}).
		Select("COALESCE(SUM(on_hand_quantity), 0) as total").
		Where("tenant_id = ? AND item_id = ?", tenantID, itemID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumValueByWarehouse sums inventory value (qty * avg cost) in a warehouse
func (r *GormStockLevelRepository) SumValueByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&stock.StockLevel{}).
		Select("COALESCE(SUM(on_hand_quantity * avg_unit_cost), 0) as total").
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountForTenant counts stock levels matching the filter
func (r *GormStockLevelRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&stock.StockLevel{}).
		Where("tenant_id = ?", tenantID)
	if warehouseID, ok := filter.Filters["warehouse_id"]; ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	if itemID, ok := filter.Filters["item_id"]; ok {
		query = query.Where("item_id = ?", itemID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockLevelRepository) keyQuery(ctx context.Context, tenantID, warehouseID uuid.UUID, binID *uuid.UUID, itemID uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND item_id = ?", tenantID, warehouseID, itemID)
	if binID == nil {
		return query.Where("bin_id IS NULL")
	}
	return query.Where("bin_id = ?", *binID)
}

var _ stock.StockLevelRepository = (*GormStockLevelRepository)(nil)
