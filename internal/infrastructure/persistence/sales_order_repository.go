package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/order"
	"github.com/stockflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds a sales order by its ID, lines included
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.SalesOrder, error) {
	var so order.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&so, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &so, nil
}

// FindByIDForTenant finds a sales order by ID within a tenant
func (r *GormSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.SalesOrder, error) {
	var so order.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&so).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &so, nil
}

// FindByOrderNumber finds a sales order by number within a tenant
func (r *GormSalesOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.SalesOrder, error) {
	var so order.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&so).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &so, nil
}

// FindAllForTenant finds sales orders for a tenant with filtering
func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]order.SalesOrder, error) {
	var orders []order.SalesOrder
	query := applyListFilter(
		r.filterQuery(ctx, tenantID, filter),
		filter, OrderSortFields,
	).Preload("Lines")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds sales orders in a given status
func (r *GormSalesOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status order.SalesOrderStatus, filter shared.Filter) ([]order.SalesOrder, error) {
	var orders []order.SalesOrder
	query := applyListFilter(
		r.db.WithContext(ctx).Model(&order.SalesOrder{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter, OrderSortFields,
	).Preload("Lines")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ExistsByOrderNumber checks order number uniqueness within a tenant
func (r *GormSalesOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.SalesOrder{}).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a sales order and its lines
func (r *GormSalesOrderRepository) Save(ctx context.Context, so *order.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(so).Error; err != nil {
			return err
		}
		return saveSalesOrderLines(tx, so)
	})
}

// SaveWithLock saves with optimistic locking on the order version
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, so *order.SalesOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&order.SalesOrder{}).
			Where("id = ? AND version = ?", so.ID, so.Version-1).
			Updates(map[string]interface{}{
				"warehouse_id":  so.WarehouseID,
				"total_amount":  so.TotalAmount,
				"status":        so.Status,
				"remark":        so.Remark,
				"approved_at":   so.ApprovedAt,
				"closed_at":     so.ClosedAt,
				"cancelled_at":  so.CancelledAt,
				"cancel_reason": so.CancelReason,
				"version":       so.Version,
				"updated_at":    so.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveSalesOrderLines(tx, so)
	})
}

// Delete deletes a sales order and its lines
func (r *GormSalesOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&order.SalesOrderLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&order.SalesOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts sales orders matching the filter
func (r *GormSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filterQuery(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSalesOrderRepository) filterQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&order.SalesOrder{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if warehouseID, ok := filter.Filters["warehouse_id"]; ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	return query
}

func saveSalesOrderLines(tx *gorm.DB, so *order.SalesOrder) error {
	currentIDs := make([]uuid.UUID, len(so.Lines))
	for i := range so.Lines {
		currentIDs[i] = so.Lines[i].ID
	}

	deleteQuery := tx.Where("order_id = ?", so.ID)
	if len(currentIDs) > 0 {
		deleteQuery = deleteQuery.Where("id NOT IN ?", currentIDs)
	}
	if err := deleteQuery.Delete(&order.SalesOrderLine{}).Error; err != nil {
		return err
	}

	for i := range so.Lines {
		so.Lines[i].OrderID = so.ID
		if err := tx.Save(&so.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ order.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
