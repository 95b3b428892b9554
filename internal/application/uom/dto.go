package uom

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared/valueobject"
	"github.com/stockflow/backend/internal/domain/uom"
)

// UnitResponse represents a unit of measure in API responses
type UnitResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Family    string    `json:"family"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUnitResponse maps a unit to its response representation
func NewUnitResponse(unit *uom.UnitOfMeasure) *UnitResponse {
	return &UnitResponse{
		ID:        unit.ID,
		Code:      unit.Code,
		Name:      unit.Name,
		Family:    unit.Family.String(),
		CreatedAt: unit.CreatedAt,
		UpdatedAt: unit.UpdatedAt,
	}
}

// CreateUnitRequest represents a request to create a unit of measure
type CreateUnitRequest struct {
	Code   string `json:"code" binding:"required,max=20"`
	Name   string `json:"name" binding:"required,max=50"`
	Family string `json:"family" binding:"omitempty,oneof=MASS VOLUME COUNT LENGTH OTHER"`
}

// RenameUnitRequest represents a request to rename a unit of measure
type RenameUnitRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// ConversionEdgeResponse represents a conversion edge in API responses
type ConversionEdgeResponse struct {
	ID        uuid.UUID       `json:"id"`
	ScopeID   *uuid.UUID      `json:"scope_id,omitempty"`
	FromCode  string          `json:"from_code"`
	ToCode    string          `json:"to_code"`
	Factor    decimal.Decimal `json:"factor"`
	Global    bool            `json:"global"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewConversionEdgeResponse maps an edge to its response representation
func NewConversionEdgeResponse(edge *uom.ConversionEdge) *ConversionEdgeResponse {
	return &ConversionEdgeResponse{
		ID:        edge.ID,
		ScopeID:   edge.ScopeID,
		FromCode:  edge.FromCode,
		ToCode:    edge.ToCode,
		Factor:    edge.Factor,
		Global:    edge.IsGlobal(),
		CreatedAt: edge.CreatedAt,
		UpdatedAt: edge.UpdatedAt,
	}
}

// CreateEdgeRequest represents a request to create a conversion edge.
// Scoped controls whether the edge applies to the caller's tenant only or
// becomes a global default.
type CreateEdgeRequest struct {
	FromCode string          `json:"from_code" binding:"required,max=20"`
	ToCode   string          `json:"to_code" binding:"required,max=20"`
	Factor   decimal.Decimal `json:"factor" binding:"required"`
	Scoped   bool            `json:"scoped"`
}

// UpdateEdgeRequest represents a request to replace an edge factor
type UpdateEdgeRequest struct {
	Factor decimal.Decimal `json:"factor" binding:"required"`
}

// ConvertRequest represents a conversion query
type ConvertRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	FromCode string          `json:"from_code" binding:"required,max=20"`
	ToCode   string          `json:"to_code" binding:"required,max=20"`
}

// ConvertResponse represents a conversion result. Result carries the
// converted amount together with the unit it is expressed in.
type ConvertResponse struct {
	Quantity decimal.Decimal      `json:"quantity"`
	FromCode string               `json:"from_code"`
	ToCode   string               `json:"to_code"`
	Result   valueobject.Quantity `json:"result"`
	Factor   decimal.Decimal      `json:"factor"`
}
