package dto

import "net/http"

// Transport-level error codes. Domain error codes pass through the envelope
// unchanged; these cover failures that never reach the application layer.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_FAILED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. The keys are
// the domain error codes plus the transport codes above.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"DUPLICATE_CODE":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INSUFFICIENT_STOCK":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK_AT_BIN": http.StatusUnprocessableEntity,
	"OVER_FULFILL":              http.StatusUnprocessableEntity,
	"ORDER_NOT_APPROVED":        http.StatusUnprocessableEntity,
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"NO_CONVERSION_PATH":        http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code. Unmapped domain
// codes are input validation failures and map to 400.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
