package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found maps to 404", "NOT_FOUND", http.StatusNotFound},
		{"duplicate code maps to 409", "DUPLICATE_CODE", http.StatusConflict},
		{"concurrency conflict maps to 409", "CONCURRENCY_CONFLICT", http.StatusConflict},
		{"insufficient stock maps to 422", "INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"insufficient stock at bin maps to 422", "INSUFFICIENT_STOCK_AT_BIN", http.StatusUnprocessableEntity},
		{"over fulfill maps to 422", "OVER_FULFILL", http.StatusUnprocessableEntity},
		{"order not approved maps to 422", "ORDER_NOT_APPROVED", http.StatusUnprocessableEntity},
		{"invalid state maps to 422", "INVALID_STATE", http.StatusUnprocessableEntity},
		{"no conversion path maps to 422", "NO_CONVERSION_PATH", http.StatusUnprocessableEntity},
		{"internal maps to 500", ErrCodeInternal, http.StatusInternalServerError},
		{"validation maps to 400", ErrCodeValidation, http.StatusBadRequest},
		{"unmapped domain code defaults to 400", "INVALID_SKU", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 25, 2, 10)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(25), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
