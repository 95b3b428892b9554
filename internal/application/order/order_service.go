package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/order"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/domain/uom"
	"go.uber.org/zap"
)

// OrderService handles order lifecycle operations outside fulfillment:
// draft editing, approval and cancellation for both order types.
type OrderService struct {
	purchaseRepo order.PurchaseOrderRepository
	salesRepo    order.SalesOrderRepository
	itemRepo     catalog.ItemRepository
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(purchaseRepo order.PurchaseOrderRepository, salesRepo order.SalesOrderRepository, itemRepo catalog.ItemRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		purchaseRepo: purchaseRepo,
		salesRepo:    salesRepo,
		itemRepo:     itemRepo,
		logger:       logger,
	}
}

// CreatePurchaseOrder creates a new draft purchase order
func (s *OrderService) CreatePurchaseOrder(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	exists, err := s.purchaseRepo.ExistsByOrderNumber(ctx, tenantID, req.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("checking order number: %w", err)
	}
	if exists {
		return nil, shared.NewDomainErrorf("DUPLICATE_CODE", "Order number %s already exists", req.OrderNumber)
	}

	po, err := order.NewPurchaseOrder(tenantID, req.OrderNumber, req.SupplierID, req.SupplierName, req.Currency, req.FxToBase)
	if err != nil {
		return nil, err
	}
	if req.WarehouseID != nil {
		if err := po.SetWarehouse(*req.WarehouseID); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		po.SetRemark(req.Remark)
	}

	if err := s.purchaseRepo.Save(ctx, po); err != nil {
		return nil, fmt.Errorf("saving purchase order: %w", err)
	}

	s.logger.Info("purchase order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", po.OrderNumber))

	return NewPurchaseOrderResponse(po), nil
}

// AddPurchaseOrderLine adds a line to a draft purchase order. The item must
// exist, be active and its SKU and name are denormalized onto the line.
func (s *OrderService) AddPurchaseOrderLine(ctx context.Context, tenantID, orderID uuid.UUID, req AddLineRequest) (*PurchaseOrderResponse, error) {
	po, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	item, err := s.lookupActiveItem(ctx, tenantID, req.ItemID)
	if err != nil {
		return nil, err
	}

	if _, err := po.AddLine(item.ID, item.SKU, item.Name, uom.NormalizeUnitCode(req.UnitCode), req.Quantity, req.UnitPrice, req.DiscountPct); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, po); err != nil {
		return nil, fmt.Errorf("saving purchase order: %w", err)
	}

	return NewPurchaseOrderResponse(po), nil
}

// UpdatePurchaseOrderLine updates quantity and pricing of a draft line
func (s *OrderService) UpdatePurchaseOrderLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID, req UpdateLineRequest) (*PurchaseOrderResponse, error) {
	po, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := po.UpdateLineQuantity(lineID, req.Quantity); err != nil {
		return nil, err
	}
	if err := po.UpdateLinePricing(lineID, req.UnitPrice, req.DiscountPct); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, po); err != nil {
		return nil, fmt.Errorf("saving purchase order: %w", err)
	}

	return NewPurchaseOrderResponse(po), nil
}

// RemovePurchaseOrderLine removes a line from a draft purchase order
func (s *OrderService) RemovePurchaseOrderLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := po.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, po); err != nil {
		return nil, fmt.Errorf("saving purchase order: %w", err)
	}

	return NewPurchaseOrderResponse(po), nil
}

// ApprovePurchaseOrder transitions a draft purchase order to APPROVED
func (s *OrderService) ApprovePurchaseOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := po.Approve(); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order approved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", po.OrderNumber))

	return NewPurchaseOrderResponse(po), nil
}

// CancelPurchaseOrder cancels a draft purchase order
func (s *OrderService) CancelPurchaseOrder(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := po.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}

	return NewPurchaseOrderResponse(po), nil
}

// GetPurchaseOrder retrieves a purchase order with its lines
func (s *OrderService) GetPurchaseOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return NewPurchaseOrderResponse(po), nil
}

// ListPurchaseOrders lists purchase orders for a tenant
func (s *OrderService) ListPurchaseOrders(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseOrderResponse], error) {
	orders, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.purchaseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = *NewPurchaseOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// CreateSalesOrder creates a new draft sales order
func (s *OrderService) CreateSalesOrder(ctx context.Context, tenantID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	exists, err := s.salesRepo.ExistsByOrderNumber(ctx, tenantID, req.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("checking order number: %w", err)
	}
	if exists {
		return nil, shared.NewDomainErrorf("DUPLICATE_CODE", "Order number %s already exists", req.OrderNumber)
	}

	so, err := order.NewSalesOrder(tenantID, req.OrderNumber, req.CustomerID, req.CustomerName, req.Currency, req.FxToBase)
	if err != nil {
		return nil, err
	}
	if req.WarehouseID != nil {
		if err := so.SetWarehouse(*req.WarehouseID); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		so.SetRemark(req.Remark)
	}

	if err := s.salesRepo.Save(ctx, so); err != nil {
		return nil, fmt.Errorf("saving sales order: %w", err)
	}

	s.logger.Info("sales order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", so.OrderNumber))

	return NewSalesOrderResponse(so), nil
}

// AddSalesOrderLine adds a line to a draft sales order
func (s *OrderService) AddSalesOrderLine(ctx context.Context, tenantID, orderID uuid.UUID, req AddLineRequest) (*SalesOrderResponse, error) {
	so, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	item, err := s.lookupActiveItem(ctx, tenantID, req.ItemID)
	if err != nil {
		return nil, err
	}

	if _, err := so.AddLine(item.ID, item.SKU, item.Name, uom.NormalizeUnitCode(req.UnitCode), req.Quantity, req.UnitPrice, req.DiscountPct); err != nil {
		return nil, err
	}
	if err := s.salesRepo.Save(ctx, so); err != nil {
		return nil, fmt.Errorf("saving sales order: %w", err)
	}

	return NewSalesOrderResponse(so), nil
}

// UpdateSalesOrderLine updates quantity and pricing of a draft line
func (s *OrderService) UpdateSalesOrderLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID, req UpdateLineRequest) (*SalesOrderResponse, error) {
	so, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := so.UpdateLineQuantity(lineID, req.Quantity); err != nil {
		return nil, err
	}
	if err := so.UpdateLinePricing(lineID, req.UnitPrice, req.DiscountPct); err != nil {
		return nil, err
	}
	if err := s.salesRepo.Save(ctx, so); err != nil {
		return nil, fmt.Errorf("saving sales order: %w", err)
	}

	return NewSalesOrderResponse(so), nil
}

// RemoveSalesOrderLine removes a line from a draft sales order
func (s *OrderService) RemoveSalesOrderLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID) (*SalesOrderResponse, error) {
	so, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := so.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.salesRepo.Save(ctx, so); err != nil {
		return nil, fmt.Errorf("saving sales order: %w", err)
	}

	return NewSalesOrderResponse(so), nil
}

// ApproveSalesOrder transitions a draft sales order to APPROVED
func (s *OrderService) ApproveSalesOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	so, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := so.Approve(); err != nil {
		return nil, err
	}
	if err := s.salesRepo.SaveWithLock(ctx, so); err != nil {
		return nil, err
	}

	s.logger.Info("sales order approved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", so.OrderNumber))

	return NewSalesOrderResponse(so), nil
}

// CancelSalesOrder cancels a draft sales order
func (s *OrderService) CancelSalesOrder(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest) (*SalesOrderResponse, error) {
	so, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := so.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.salesRepo.SaveWithLock(ctx, so); err != nil {
		return nil, err
	}

	return NewSalesOrderResponse(so), nil
}

// GetSalesOrder retrieves a sales order with its lines
func (s *OrderService) GetSalesOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	so, err := s.salesRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return NewSalesOrderResponse(so), nil
}

// ListSalesOrders lists sales orders for a tenant
func (s *OrderService) ListSalesOrders(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SalesOrderResponse], error) {
	orders, err := s.salesRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.salesRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		responses[i] = *NewSalesOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// lookupActiveItem loads an item and rejects inactive ones for new lines
func (s *OrderService) lookupActiveItem(ctx context.Context, tenantID, itemID uuid.UUID) (*catalog.Item, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Item %s is inactive and cannot be ordered", item.SKU)
	}
	return item, nil
}
