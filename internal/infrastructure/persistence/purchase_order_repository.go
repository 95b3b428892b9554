package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/order"
	"github.com/stockflow/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID, lines included
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.PurchaseOrder, error) {
	var po order.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByIDForTenant finds a purchase order by ID within a tenant
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.PurchaseOrder, error) {
	var po order.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByOrderNumber finds a purchase order by number within a tenant
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.PurchaseOrder, error) {
	var po order.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindAllForTenant finds purchase orders for a tenant with filtering
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]order.PurchaseOrder, error) {
	var orders []order.PurchaseOrder
	query := applyListFilter(
		r.filterQuery(ctx, tenantID, filter),
		filter, OrderSortFields,
	).Preload("Lines")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders in a given status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status order.PurchaseOrderStatus, filter shared.Filter) ([]order.PurchaseOrder, error) {
	var orders []order.PurchaseOrder
	query := applyListFilter(
		r.db.WithContext(ctx).Model(&order.PurchaseOrder{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter, OrderSortFields,
	).Preload("Lines")
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ExistsByOrderNumber checks order number uniqueness within a tenant
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.PurchaseOrder{}).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a purchase order and its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *order.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(po).Error; err != nil {
			return err
		}
		return savePurchaseOrderLines(tx, po)
	})
}

// SaveWithLock saves with optimistic locking on the order version
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *order.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&order.PurchaseOrder{}).
			Where("id = ? AND version = ?", po.ID, po.Version-1).
			Updates(map[string]interface{}{
				"warehouse_id":  po.WarehouseID,
				"total_amount":  po.TotalAmount,
				"status":        po.Status,
				"remark":        po.Remark,
				"approved_at":   po.ApprovedAt,
				"closed_at":     po.ClosedAt,
				"cancelled_at":  po.CancelledAt,
				"cancel_reason": po.CancelReason,
				"version":       po.Version,
				"updated_at":    po.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return savePurchaseOrderLines(tx, po)
	})
}

// Delete deletes a purchase order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&order.PurchaseOrderLine{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&order.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filterQuery(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPurchaseOrderRepository) filterQuery(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&order.PurchaseOrder{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if warehouseID, ok := filter.Filters["warehouse_id"]; ok {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	return query
}

// savePurchaseOrderLines replaces the persisted line set with the aggregate's
// current lines: removed lines are deleted, the rest upserted.
func savePurchaseOrderLines(tx *gorm.DB, po *order.PurchaseOrder) error {
	currentIDs := make([]uuid.UUID, len(po.Lines))
	for i := range po.Lines {
		currentIDs[i] = po.Lines[i].ID
	}

	deleteQuery := tx.Where("order_id = ?", po.ID)
	if len(currentIDs) > 0 {
		deleteQuery = deleteQuery.Where("id NOT IN ?", currentIDs)
	}
	if err := deleteQuery.Delete(&order.PurchaseOrderLine{}).Error; err != nil {
		return err
	}

	for i := range po.Lines {
		po.Lines[i].OrderID = po.ID
		if err := tx.Save(&po.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ order.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
