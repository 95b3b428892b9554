package fulfillment

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// FulfillLineRequest represents a request to receive or ship one order line.
// WarehouseID falls back to the order's default warehouse when omitted.
type FulfillLineRequest struct {
	OrderID     uuid.UUID       `json:"order_id" binding:"required"`
	LineID      uuid.UUID       `json:"line_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"` // in the line unit
	WarehouseID *uuid.UUID      `json:"warehouse_id"`
	BinID       *uuid.UUID      `json:"bin_id"`
}

// FulfillAllRequest represents a request to fulfill every outstanding line
// of an order
type FulfillAllRequest struct {
	OrderID     uuid.UUID  `json:"order_id" binding:"required"`
	WarehouseID *uuid.UUID `json:"warehouse_id"`
	BinID       *uuid.UUID `json:"bin_id"`
}

// LineError carries the failure of one line in a batch result
type LineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newLineError maps an error to its batch-result representation
func newLineError(err error) *LineError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return &LineError{Code: domainErr.Code, Message: domainErr.Message}
	}
	return &LineError{Code: "INTERNAL", Message: err.Error()}
}

// LineResult represents the outcome of fulfilling one line
type LineResult struct {
	LineID       uuid.UUID       `json:"line_id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`      // in the line unit
	QuantityBase decimal.Decimal `json:"quantity_base"` // in the item base unit
	UnitCostBase decimal.Decimal `json:"unit_cost_base"`
	MovementID   *uuid.UUID      `json:"movement_id,omitempty"`
	Fulfilled    bool            `json:"fulfilled"` // line fully fulfilled after this call
	Error        *LineError      `json:"error,omitempty"`
}

// BatchResult represents the per-line outcomes of a batch fulfillment.
// A failed line never aborts the batch; it is reported and the remaining
// lines still run.
type BatchResult struct {
	OrderID     uuid.UUID    `json:"order_id"`
	OrderStatus string       `json:"order_status"`
	Results     []LineResult `json:"results"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
}
