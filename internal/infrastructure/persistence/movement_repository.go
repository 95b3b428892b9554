package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// Movements are append-only; the repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a new movement record
func (r *GormMovementRepository) Create(ctx context.Context, movement *stock.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	var movement stock.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByRef finds all movements for a source document
func (r *GormMovementRepository) FindByRef(ctx context.Context, refType stock.RefType, refID uuid.UUID) ([]stock.Movement, error) {
	var movements []stock.Movement
	if err := r.db.WithContext(ctx).
		Where("ref_type = ? AND ref_id = ?", refType, refID).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindForTenant finds movements for a tenant with filtering
func (r *GormMovementRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := applyListFilter(
		r.filterQuery(ctx, tenantID, filter),
		filter, MovementSortFields,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumLineQuantity sums the line-unit quantity recorded for one order line
func (r *GormMovementRepository) SumLineQuantity(ctx context.Context, refType stock.RefType, refID, refLineID uuid.UUID) (decimal.Decimal, error) {
	return r.sumForLine(ctx, "quantity", refType, refID, refLineID)
}

// SumBaseQuantity sums the base-unit quantity recorded for one order line
func (r *GormMovementRepository) SumBaseQuantity(ctx context.Context, refType stock.RefType, refID, refLineID uuid.UUID) (decimal.Decimal, error) {
	return r.sumForLine(ctx, "quantity_base", refType, refID, refLineID)
}

// CountForTenant counts movements matching the filter
func (r *GormMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filterQuery(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMovementRepository) sumForLine(ctx context.Context, column string, refType stock.RefType, refID, refLineID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&stock.Movement{}).
		Select("COALESCE(SUM("+column+"), 0) as total").
		Where("ref_type = ? AND ref_id = ? AND ref_line_id = ?", refType, refID, refLineID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormMovementRepository) filterQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&stock.Movement{}).
		Where("tenant_id = ?", tenantID)

	if movementType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", movementType)
	}
	if itemID, ok := filter.Filters["item_id"]; ok {
		query = query.Where("item_id = ?", itemID)
	}
	if warehouseID, ok := filter.Filters["warehouse_id"]; ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	if refType, ok := filter.Filters["ref_type"]; ok {
		query = query.Where("ref_type = ?", refType)
	}
	if from, ok := filter.Filters["occurred_from"]; ok {
		query = query.Where("occurred_at >= ?", from)
	}
	if to, ok := filter.Filters["occurred_to"]; ok {
		query = query.Where("occurred_at <= ?", to)
	}
	return query
}

var _ stock.MovementRepository = (*GormMovementRepository)(nil)
