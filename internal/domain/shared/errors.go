package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
// This lets callers match wrapped or contextualized errors against the
// sentinel values below with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError("NOT_FOUND", "Resource not found")
	ErrDuplicateCode         = NewDomainError("DUPLICATE_CODE", "Code already exists in this scope")
	ErrInvalidQuantity       = NewDomainError("INVALID_QUANTITY", "Quantity must be positive and finite")
	ErrNoConversionPath      = NewDomainError("NO_CONVERSION_PATH", "No conversion path between units")
	ErrInsufficientStock     = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientStockBin  = NewDomainError("INSUFFICIENT_STOCK_AT_BIN", "Insufficient stock in the selected bin")
	ErrOverFulfill           = NewDomainError("OVER_FULFILL", "Requested quantity exceeds remaining quantity")
	ErrOrderNotApproved      = NewDomainError("ORDER_NOT_APPROVED", "Order must be approved before fulfillment")
	ErrInvalidState          = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict   = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidConversionRate = NewDomainError("INVALID_CONVERSION_RATE", "Conversion factor must be positive")
)
