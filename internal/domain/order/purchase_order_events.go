package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated       = "PurchaseOrderCreated"
	EventTypePurchaseOrderApproved      = "PurchaseOrderApproved"
	EventTypePurchaseOrderLineFulfilled = "PurchaseOrderLineFulfilled"
	EventTypePurchaseOrderClosed        = "PurchaseOrderClosed"
	EventTypePurchaseOrderCancelled     = "PurchaseOrderCancelled"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Currency     string    `json:"currency"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		Currency:        order.Currency,
	}
}

// PurchaseOrderLineInfo represents line information for events
type PurchaseOrderLineInfo struct {
	LineID            uuid.UUID       `json:"line_id"`
	ItemID            uuid.UUID       `json:"item_id"`
	ItemSKU           string          `json:"item_sku"`
	UnitCode          string          `json:"unit_code"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountPct       decimal.Decimal `json:"discount_pct"`
}

// PurchaseOrderApprovedEvent is raised when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID               `json:"order_id"`
	OrderNumber string                  `json:"order_number"`
	SupplierID  uuid.UUID               `json:"supplier_id"`
	WarehouseID *uuid.UUID              `json:"warehouse_id,omitempty"`
	Lines       []PurchaseOrderLineInfo `json:"lines"`
	TotalAmount decimal.Decimal         `json:"total_amount"`
	Currency    string                  `json:"currency"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	lines := make([]PurchaseOrderLineInfo, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = PurchaseOrderLineInfo{
			LineID:            line.ID,
			ItemID:            line.ItemID,
			ItemSKU:           line.ItemSKU,
			UnitCode:          line.UnitCode,
			OrderedQuantity:   line.OrderedQuantity,
			FulfilledQuantity: line.FulfilledQuantity,
			UnitPrice:         line.UnitPrice,
			DiscountPct:       line.DiscountPct,
		}
	}

	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		WarehouseID:     order.WarehouseID,
		Lines:           lines,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
	}
}

// PurchaseOrderLineFulfilledEvent is raised when a receipt advances a line.
// The ledger posting happens in the same transaction before this event.
type PurchaseOrderLineFulfilledEvent struct {
	shared.BaseDomainEvent
	OrderID           uuid.UUID       `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	LineID            uuid.UUID       `json:"line_id"`
	ItemID            uuid.UUID       `json:"item_id"`
	ItemSKU           string          `json:"item_sku"`
	UnitCode          string          `json:"unit_code"`
	Quantity          decimal.Decimal `json:"quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	LineFulfilled     bool            `json:"line_fulfilled"`
}

// NewPurchaseOrderLineFulfilledEvent creates a new PurchaseOrderLineFulfilledEvent
func NewPurchaseOrderLineFulfilledEvent(order *PurchaseOrder, line *PurchaseOrderLine, quantity decimal.Decimal) *PurchaseOrderLineFulfilledEvent {
	return &PurchaseOrderLineFulfilledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePurchaseOrderLineFulfilled, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		LineID:            line.ID,
		ItemID:            line.ItemID,
		ItemSKU:           line.ItemSKU,
		UnitCode:          line.UnitCode,
		Quantity:          quantity,
		FulfilledQuantity: line.FulfilledQuantity,
		LineFulfilled:     line.Fulfilled,
	}
}

// PurchaseOrderClosedEvent is raised when a fully received order is closed
type PurchaseOrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// NewPurchaseOrderClosedEvent creates a new PurchaseOrderClosedEvent
func NewPurchaseOrderClosedEvent(order *PurchaseOrder) *PurchaseOrderClosedEvent {
	return &PurchaseOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderClosed, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
	}
}

// PurchaseOrderCancelledEvent is raised when a draft order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	CancelReason string    `json:"cancel_reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		CancelReason:    order.CancelReason,
	}
}
