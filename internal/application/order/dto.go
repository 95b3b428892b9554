package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/order"
)

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	OrderNumber  string          `json:"order_number" binding:"required,max=50"`
	SupplierID   uuid.UUID       `json:"supplier_id" binding:"required"`
	SupplierName string          `json:"supplier_name" binding:"required,max=200"`
	Currency     string          `json:"currency" binding:"required,len=3"`
	FxToBase     decimal.Decimal `json:"fx_to_base" binding:"required"`
	WarehouseID  *uuid.UUID      `json:"warehouse_id"`
	Remark       string          `json:"remark" binding:"max=500"`
}

// CreateSalesOrderRequest represents a request to create a sales order
type CreateSalesOrderRequest struct {
	OrderNumber  string          `json:"order_number" binding:"required,max=50"`
	CustomerID   uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerName string          `json:"customer_name" binding:"required,max=200"`
	Currency     string          `json:"currency" binding:"required,len=3"`
	FxToBase     decimal.Decimal `json:"fx_to_base" binding:"required"`
	WarehouseID  *uuid.UUID      `json:"warehouse_id"`
	Remark       string          `json:"remark" binding:"max=500"`
}

// AddLineRequest represents a request to add a line to a draft order
type AddLineRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	UnitCode    string          `json:"unit_code" binding:"required,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// UpdateLineRequest represents a request to update a draft order line
type UpdateLineRequest struct {
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// CancelOrderRequest represents a request to cancel a draft order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemID            uuid.UUID       `json:"item_id"`
	ItemSKU           string          `json:"item_sku"`
	ItemName          string          `json:"item_name"`
	UnitCode          string          `json:"unit_code"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountPct       decimal.Decimal `json:"discount_pct"`
	LineAmount        decimal.Decimal `json:"line_amount"`
	Fulfilled         bool            `json:"fulfilled"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	SupplierID   uuid.UUID           `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	WarehouseID  *uuid.UUID          `json:"warehouse_id,omitempty"`
	Currency     string              `json:"currency"`
	FxToBase     decimal.Decimal     `json:"fx_to_base"`
	Lines        []OrderLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Status       string              `json:"status"`
	Remark       string              `json:"remark,omitempty"`
	ApprovedAt   *time.Time          `json:"approved_at,omitempty"`
	ClosedAt     *time.Time          `json:"closed_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// NewPurchaseOrderResponse maps a purchase order to its response representation
func NewPurchaseOrderResponse(po *order.PurchaseOrder) *PurchaseOrderResponse {
	lines := make([]OrderLineResponse, len(po.Lines))
	for i := range po.Lines {
		line := &po.Lines[i]
		lines[i] = OrderLineResponse{
			ID:                line.ID,
			ItemID:            line.ItemID,
			ItemSKU:           line.ItemSKU,
			ItemName:          line.ItemName,
			UnitCode:          line.UnitCode,
			OrderedQuantity:   line.OrderedQuantity,
			FulfilledQuantity: line.FulfilledQuantity,
			RemainingQuantity: line.RemainingQuantity(),
			UnitPrice:         line.UnitPrice,
			DiscountPct:       line.DiscountPct,
			LineAmount:        line.LineAmount(),
			Fulfilled:         line.Fulfilled,
		}
	}

	return &PurchaseOrderResponse{
		ID:           po.ID,
		OrderNumber:  po.OrderNumber,
		SupplierID:   po.SupplierID,
		SupplierName: po.SupplierName,
		WarehouseID:  po.WarehouseID,
		Currency:     po.Currency,
		FxToBase:     po.FxToBase,
		Lines:        lines,
		TotalAmount:  po.TotalAmount,
		Status:       po.Status.String(),
		Remark:       po.Remark,
		ApprovedAt:   po.ApprovedAt,
		ClosedAt:     po.ClosedAt,
		CancelledAt:  po.CancelledAt,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
		Version:      po.Version,
	}
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerID   uuid.UUID           `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	WarehouseID  *uuid.UUID          `json:"warehouse_id,omitempty"`
	Currency     string              `json:"currency"`
	FxToBase     decimal.Decimal     `json:"fx_to_base"`
	Lines        []OrderLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Status       string              `json:"status"`
	Remark       string              `json:"remark,omitempty"`
	ApprovedAt   *time.Time          `json:"approved_at,omitempty"`
	ClosedAt     *time.Time          `json:"closed_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// NewSalesOrderResponse maps a sales order to its response representation
func NewSalesOrderResponse(so *order.SalesOrder) *SalesOrderResponse {
	lines := make([]OrderLineResponse, len(so.Lines))
	for i := range so.Lines {
		line := &so.Lines[i]
		lines[i] = OrderLineResponse{
			ID:                line.ID,
			ItemID:            line.ItemID,
			ItemSKU:           line.ItemSKU,
			ItemName:          line.ItemName,
			UnitCode:          line.UnitCode,
			OrderedQuantity:   line.OrderedQuantity,
			FulfilledQuantity: line.FulfilledQuantity,
			RemainingQuantity: line.RemainingQuantity(),
			UnitPrice:         line.UnitPrice,
			DiscountPct:       line.DiscountPct,
			LineAmount:        line.LineAmount(),
			Fulfilled:         line.Fulfilled,
		}
	}

	return &SalesOrderResponse{
		ID:           so.ID,
		OrderNumber:  so.OrderNumber,
		CustomerID:   so.CustomerID,
		CustomerName: so.CustomerName,
		WarehouseID:  so.WarehouseID,
		Currency:     so.Currency,
		FxToBase:     so.FxToBase,
		Lines:        lines,
		TotalAmount:  so.TotalAmount,
		Status:       so.Status.String(),
		Remark:       so.Remark,
		ApprovedAt:   so.ApprovedAt,
		ClosedAt:     so.ClosedAt,
		CancelledAt:  so.CancelledAt,
		CreatedAt:    so.CreatedAt,
		UpdatedAt:    so.UpdatedAt,
		Version:      so.Version,
	}
}
