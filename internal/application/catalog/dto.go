package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/catalog"
)

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	BaseUnitCode string    `json:"base_unit_code"`
	Description  string    `json:"description,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewItemResponse maps an item to its response representation
func NewItemResponse(item *catalog.Item) *ItemResponse {
	return &ItemResponse{
		ID:           item.ID,
		SKU:          item.SKU,
		Name:         item.Name,
		BaseUnitCode: item.BaseUnitCode,
		Description:  item.Description,
		Active:       item.Active,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// CreateItemRequest represents a request to create an item
type CreateItemRequest struct {
	SKU          string `json:"sku" binding:"required,max=50"`
	Name         string `json:"name" binding:"required,max=200"`
	BaseUnitCode string `json:"base_unit_code" binding:"required,max=20"`
	Description  string `json:"description" binding:"max=500"`
}

// UpdateItemRequest represents a request to update an item's display fields
type UpdateItemRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=500"`
}
