package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft           PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusApproved        PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusPartialReceived PurchaseOrderStatus = "PARTIAL_RECEIVED"
	PurchaseOrderStatusReceived        PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled       PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusApproved, PurchaseOrderStatusPartialReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Only draft orders may be cancelled; an approved order runs to completion.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusPartialReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusPartialReceived:
		return target == PurchaseOrderStatusPartialReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanFulfill returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanFulfill() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusPartialReceived
}

// IsTerminal returns true for end states
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderLine represents a line in a purchase order
type PurchaseOrderLine struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null"`
	ItemSKU           string          `gorm:"type:varchar(50);not null"`
	ItemName          string          `gorm:"type:varchar(200);not null"`
	UnitCode          string          `gorm:"type:varchar(20);not null"`             // Unit the line is ordered in (may differ from item base unit)
	OrderedQuantity   decimal.Decimal `gorm:"type:decimal(18,6);not null"`           // Quantity ordered, in the line unit
	FulfilledQuantity decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"` // Quantity received so far, in the line unit
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Price per line unit, in the order currency
	DiscountPct       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`  // Percentage in [0,100]
	Fulfilled         bool            `gorm:"not null;default:false"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// NewPurchaseOrderLine creates a new purchase order line
func NewPurchaseOrderLine(orderID, itemID uuid.UUID, itemSKU, itemName, unitCode string, quantity, unitPrice, discountPct decimal.Decimal) (*PurchaseOrderLine, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if itemSKU == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_SKU", "Item SKU cannot be empty")
	}
	if unitCode == "" {
		return nil, shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}

	now := time.Now()
	return &PurchaseOrderLine{
		ID:                uuid.New(),
		OrderID:           orderID,
		ItemID:            itemID,
		ItemSKU:           itemSKU,
		ItemName:          itemName,
		UnitCode:          unitCode,
		OrderedQuantity:   quantity,
		FulfilledQuantity: decimal.Zero,
		UnitPrice:         unitPrice,
		DiscountPct:       discountPct,
		Fulfilled:         false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// UpdateQuantity updates the line ordered quantity
func (l *PurchaseOrderLine) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if quantity.LessThan(l.FulfilledQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be less than the fulfilled quantity")
	}

	l.OrderedQuantity = quantity
	l.Fulfilled = l.FulfilledQuantity.GreaterThanOrEqual(l.OrderedQuantity)
	l.UpdatedAt = time.Now()

	return nil
}

// UpdatePricing updates the unit price and discount of the line
func (l *PurchaseOrderLine) UpdatePricing(unitPrice, discountPct decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}

	l.UnitPrice = unitPrice
	l.DiscountPct = discountPct
	l.UpdatedAt = time.Now()

	return nil
}

// RemainingQuantity returns the quantity still to be received
func (l *PurchaseOrderLine) RemainingQuantity() decimal.Decimal {
	remaining := l.OrderedQuantity.Sub(l.FulfilledQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// NetUnitPrice returns the unit price after discount, per line unit
func (l *PurchaseOrderLine) NetUnitPrice() decimal.Decimal {
	discountFactor := decimal.NewFromInt(1).Sub(l.DiscountPct.Div(decimal.NewFromInt(100)))
	return l.UnitPrice.Mul(discountFactor)
}

// LineAmount returns the discounted monetary total of the line
func (l *PurchaseOrderLine) LineAmount() decimal.Decimal {
	return l.NetUnitPrice().Mul(l.OrderedQuantity)
}

// AddFulfilledQuantity advances the fulfilled counter. The counter only ever
// grows and may never exceed the ordered quantity.
func (l *PurchaseOrderLine) AddFulfilledQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	newFulfilled := l.FulfilledQuantity.Add(quantity)
	if newFulfilled.GreaterThan(l.OrderedQuantity) {
		return shared.NewDomainErrorf("OVER_FULFILL",
			"Cannot receive %s %s for item %s, only %s remaining",
			quantity, l.UnitCode, l.ItemSKU, l.RemainingQuantity())
	}

	l.FulfilledQuantity = newFulfilled
	l.Fulfilled = newFulfilled.Equal(l.OrderedQuantity)
	l.UpdatedAt = time.Now()

	return nil
}

// IsFulfilled returns true if the full ordered quantity has been received
func (l *PurchaseOrderLine) IsFulfilled() bool {
	return l.Fulfilled
}

// PurchaseOrder represents a purchase order aggregate root.
// It manages the lifecycle of a supplier order from draft to receipt.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_tenant_number,priority:2"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	WarehouseID  *uuid.UUID          `gorm:"type:uuid;index"` // Default destination warehouse for receipts
	Currency     string              `gorm:"type:varchar(3);not null"`
	FxToBase     decimal.Decimal     `gorm:"type:decimal(18,6);not null;default:1"` // Rate from order currency to base currency
	Lines        []PurchaseOrderLine `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Sum of discounted line amounts, order currency
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark       string              `gorm:"type:text"`
	ApprovedAt   *time.Time          `gorm:"index"`
	ClosedAt     *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName, currency string, fxToBase decimal.Decimal) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	if fxToBase.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_FX_RATE", "FX rate to base currency must be positive")
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Currency:            currency,
		FxToBase:            fxToBase,
		Lines:               make([]PurchaseOrderLine, 0),
		TotalAmount:         decimal.Zero,
		Status:              PurchaseOrderStatusDraft,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a new line to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddLine(itemID uuid.UUID, itemSKU, itemName, unitCode string, quantity, unitPrice, discountPct decimal.Decimal) (*PurchaseOrderLine, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft order")
	}

	for _, line := range o.Lines {
		if line.ItemID == itemID && line.UnitCode == unitCode {
			return nil, shared.NewDomainError("DUPLICATE_LINE", "Item already on the order in this unit, update the quantity instead")
		}
	}

	line, err := NewPurchaseOrderLine(o.ID, itemID, itemSKU, itemName, unitCode, quantity, unitPrice, discountPct)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return line, nil
}

// UpdateLineQuantity updates the ordered quantity of a line. DRAFT only.
func (o *PurchaseOrder) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines on a non-draft order")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// UpdateLinePricing updates the unit price and discount of a line. DRAFT only.
func (o *PurchaseOrder) UpdateLinePricing(lineID uuid.UUID, unitPrice, discountPct decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines on a non-draft order")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdatePricing(unitPrice, discountPct); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from the order. DRAFT only.
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// SetWarehouse sets the default destination warehouse for receipts.
// Allowed in DRAFT or APPROVED status.
func (o *PurchaseOrder) SetWarehouse(warehouseID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft && o.Status != PurchaseOrderStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Cannot set warehouse for order in current status")
	}
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	o.WarehouseID = &warehouseID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetRemark sets the order remark
func (o *PurchaseOrder) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Approve transitions the order from DRAFT to APPROVED.
// Requires at least one line.
func (o *PurchaseOrder) Approve() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusApproved) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot approve order in %s status", o.Status)
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot approve order without lines")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))

	return nil
}

// ApplyFulfillment advances the fulfilled counter of a line after a receipt
// has been posted to the ledger. A draft order is rejected with
// ORDER_NOT_APPROVED; terminal states with INVALID_STATE.
func (o *PurchaseOrder) ApplyFulfillment(lineID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status == PurchaseOrderStatusDraft {
		return shared.NewDomainErrorf("ORDER_NOT_APPROVED", "Order %s must be approved before receiving", o.OrderNumber)
	}
	if !o.Status.CanFulfill() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot receive goods for order in %s status", o.Status)
	}

	line := o.GetLine(lineID)
	if line == nil {
		return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
	}

	if err := line.AddFulfilledQuantity(quantity); err != nil {
		return err
	}

	if o.Status == PurchaseOrderStatusApproved {
		o.Status = PurchaseOrderStatusPartialReceived
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderLineFulfilledEvent(o, line, quantity))

	return nil
}

// Close transitions a fully fulfilled order to RECEIVED
func (o *PurchaseOrder) Close() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot close order in %s status", o.Status)
	}
	if !o.IsFullyFulfilled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot close order with outstanding lines")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusReceived
	o.ClosedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderClosedEvent(o))

	return nil
}

// Cancel cancels the order. Only draft orders can be cancelled.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot cancel order in %s status", o.Status)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// recalculateTotal recalculates the order total from the discounted lines
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for idx := range o.Lines {
		total = total.Add(o.Lines[idx].LineAmount())
	}
	o.TotalAmount = total.Round(4)
}

// IsFullyFulfilled checks if all lines have been fully received
func (o *PurchaseOrder) IsFullyFulfilled() bool {
	for idx := range o.Lines {
		if !o.Lines[idx].IsFulfilled() {
			return false
		}
	}
	return len(o.Lines) > 0
}

// GetLine returns a line by its ID
func (o *PurchaseOrder) GetLine(lineID uuid.UUID) *PurchaseOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// GetLineByItem returns a line by item ID
func (o *PurchaseOrder) GetLineByItem(itemID uuid.UUID) *PurchaseOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ItemID == itemID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// OutstandingLines returns the lines that still have quantity to receive
func (o *PurchaseOrder) OutstandingLines() []PurchaseOrderLine {
	lines := make([]PurchaseOrderLine, 0)
	for _, line := range o.Lines {
		if !line.IsFulfilled() {
			lines = append(lines, line)
		}
	}
	return lines
}

// TotalAmountBase returns the order total converted to the base currency
func (o *PurchaseOrder) TotalAmountBase() decimal.Decimal {
	return o.TotalAmount.Mul(o.FxToBase).Round(4)
}

// LineCount returns the number of lines on the order
func (o *PurchaseOrder) LineCount() int {
	return len(o.Lines)
}

// IsDraft returns true if the order is in draft status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsApproved returns true if the order is approved
func (o *PurchaseOrder) IsApproved() bool {
	return o.Status == PurchaseOrderStatusApproved
}

// IsCancelled returns true if the order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// IsTerminal returns true if the order is received or cancelled
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// CanModify returns true if the order lines can still be edited
func (o *PurchaseOrder) CanModify() bool {
	return o.IsDraft()
}
