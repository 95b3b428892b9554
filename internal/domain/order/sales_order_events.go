package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSalesOrder = "SalesOrder"

// Event type constants
const (
	EventTypeSalesOrderCreated       = "SalesOrderCreated"
	EventTypeSalesOrderApproved      = "SalesOrderApproved"
	EventTypeSalesOrderLineFulfilled = "SalesOrderLineFulfilled"
	EventTypeSalesOrderClosed        = "SalesOrderClosed"
	EventTypeSalesOrderCancelled     = "SalesOrderCancelled"
)

// SalesOrderCreatedEvent is raised when a new sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Currency     string    `json:"currency"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		Currency:        order.Currency,
	}
}

// SalesOrderLineInfo represents line information for events
type SalesOrderLineInfo struct {
	LineID            uuid.UUID       `json:"line_id"`
	ItemID            uuid.UUID       `json:"item_id"`
	ItemSKU           string          `json:"item_sku"`
	UnitCode          string          `json:"unit_code"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountPct       decimal.Decimal `json:"discount_pct"`
}

// SalesOrderApprovedEvent is raised when a sales order is approved
type SalesOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID            `json:"order_id"`
	OrderNumber string               `json:"order_number"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	WarehouseID *uuid.UUID           `json:"warehouse_id,omitempty"`
	Lines       []SalesOrderLineInfo `json:"lines"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Currency    string               `json:"currency"`
}

// NewSalesOrderApprovedEvent creates a new SalesOrderApprovedEvent
func NewSalesOrderApprovedEvent(order *SalesOrder) *SalesOrderApprovedEvent {
	lines := make([]SalesOrderLineInfo, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = SalesOrderLineInfo{
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

	return &SalesOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderApproved, AggregateTypeSalesOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		WarehouseID:     order.WarehouseID,
		Lines:           lines,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
	}
}

// SalesOrderLineFulfilledEvent is raised when a shipment advances a line.
// The ledger posting happens in the same transaction before this event.
type SalesOrderLineFulfilledEvent struct {
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

// NewSalesOrderLineFulfilledEvent creates a new SalesOrderLineFulfilledEvent
func NewSalesOrderLineFulfilledEvent(order *SalesOrder, line *SalesOrderLine, quantity decimal.Decimal) *SalesOrderLineFulfilledEvent {
	return &SalesOrderLineFulfilledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSalesOrderLineFulfilled, AggregateTypeSalesOrder, order.ID, order.TenantID),
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

// SalesOrderClosedEvent is raised when a fully shipped order is closed
type SalesOrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}

// NewSalesOrderClosedEvent creates a new SalesOrderClosedEvent
func NewSalesOrderClosedEvent(order *SalesOrder) *SalesOrderClosedEvent {
	return &SalesOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderClosed, AggregateTypeSalesOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
	}
}

// SalesOrderCancelledEvent is raised when a draft order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CancelReason string    `json:"cancel_reason"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(order *SalesOrder) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, AggregateTypeSalesOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		CancelReason:    order.CancelReason,
	}
}
