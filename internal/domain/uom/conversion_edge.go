package uom

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// ConversionEdge is a directed factor relationship between two units:
// 1 FromCode * Factor = 1 ToCode. The reciprocal edge is derived when the
// graph is built and is never stored.
//
// A nil ScopeID marks a global default edge; a tenant-scoped edge for the
// same (from, to) pair takes precedence when both exist.
type ConversionEdge struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ScopeID   *uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_conv_edge_scope_pair,priority:1"`
	FromCode  string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_conv_edge_scope_pair,priority:2"`
	ToCode    string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_conv_edge_scope_pair,priority:3"`
	Factor    decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConversionEdge) TableName() string {
	return "conversion_edges"
}

// NewConversionEdge creates a validated conversion edge.
// Non-positive factors are rejected here, at write time, so bad master data
// surfaces as a validation error instead of silently vanishing from the graph.
func NewConversionEdge(scopeID *uuid.UUID, fromCode, toCode string, factor decimal.Decimal) (*ConversionEdge, error) {
	fromCode = NormalizeUnitCode(fromCode)
	toCode = NormalizeUnitCode(toCode)

	if err := validateUnitCode(fromCode); err != nil {
		return nil, err
	}
	if err := validateUnitCode(toCode); err != nil {
		return nil, err
	}
	if fromCode == toCode {
		return nil, shared.NewDomainErrorf("INVALID_CONVERSION_RATE", "Conversion edge cannot connect %s to itself", fromCode)
	}
	if factor.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainErrorf("INVALID_CONVERSION_RATE", "Conversion factor from %s to %s must be positive, got %s", fromCode, toCode, factor)
	}

	now := time.Now()
	return &ConversionEdge{
		ID:        uuid.New(),
		ScopeID:   scopeID,
		FromCode:  fromCode,
		ToCode:    toCode,
		Factor:    factor,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsGlobal returns true if the edge is a global default (no tenant scope)
func (e *ConversionEdge) IsGlobal() bool {
	return e.ScopeID == nil
}

// PairKey returns the (from, to) pair key used for override resolution
func (e *ConversionEdge) PairKey() string {
	return e.FromCode + "->" + e.ToCode
}

// UpdateFactor replaces the conversion factor
func (e *ConversionEdge) UpdateFactor(factor decimal.Decimal) error {
	if factor.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainErrorf("INVALID_CONVERSION_RATE", "Conversion factor from %s to %s must be positive, got %s", e.FromCode, e.ToCode, factor)
	}
	e.Factor = factor
	e.UpdatedAt = time.Now()
	return nil
}

// MergeScopedEdges resolves the effective edge set for one tenant: scoped
// edges replace the global edge for the same (from, to) pair, all other
// global edges pass through.
func MergeScopedEdges(global, scoped []ConversionEdge) []ConversionEdge {
	overridden := make(map[string]struct{}, len(scoped))
	for _, e := range scoped {
		overridden[e.PairKey()] = struct{}{}
	}

	merged := make([]ConversionEdge, 0, len(global)+len(scoped))
	merged = append(merged, scoped...)
	for _, e := range global {
		if _, ok := overridden[e.PairKey()]; ok {
			continue
		}
		merged = append(merged, e)
	}
	return merged
}
