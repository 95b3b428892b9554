package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	// MovementTypeReceive is stock coming in (purchase order receipt)
	MovementTypeReceive MovementType = "RECEIVE"
	// MovementTypeIssue is stock going out (sales order shipment)
	MovementTypeIssue MovementType = "ISSUE"
)

// IsValid returns true if the movement type is a known value
func (t MovementType) IsValid() bool {
	return t == MovementTypeReceive || t == MovementTypeIssue
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// RefType identifies the document type a movement originates from
type RefType string

const (
	// RefTypePurchaseOrder marks movements created by purchase order receipts
	RefTypePurchaseOrder RefType = "PO"
	// RefTypeSalesOrder marks movements created by sales order shipments
	RefTypeSalesOrder RefType = "SO"
)

// IsValid returns true if the ref type is a known value
func (t RefType) IsValid() bool {
	return t == RefTypePurchaseOrder || t == RefTypeSalesOrder
}

// String returns the string representation of RefType
func (t RefType) String() string {
	return string(t)
}

// Movement is an immutable, append-only record of one ledger-affecting
// event. It is the audit source of truth: already-fulfilled quantities are
// recomputed by summing movements for a line, never read from a cached
// counter. Corrections are new compensating movements, never edits.
type Movement struct {
	shared.BaseEntity
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_tenant_time,priority:1"`
	Type         MovementType    `gorm:"type:varchar(10);not null;index"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitCode     string          `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,6);not null"` // in the line unit, always positive
	QuantityBase decimal.Decimal `gorm:"type:decimal(18,6);not null"` // in the item base unit, always positive
	UnitCostBase decimal.Decimal `gorm:"type:decimal(18,4);not null"` // per base unit, base currency
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;index"`    // destination for receive, source for issue
	BinID        *uuid.UUID      `gorm:"type:uuid;index"`
	RefType      RefType         `gorm:"type:varchar(10);not null;index:idx_movement_ref,priority:1"`
	RefID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_ref,priority:2"`
	RefLineID    *uuid.UUID      `gorm:"type:uuid;index:idx_movement_ref,priority:3"`
	OccurredAt   time.Time       `gorm:"type:timestamptz;not null;index:idx_movement_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a new movement record
func NewMovement(
	tenantID uuid.UUID,
	movementType MovementType,
	itemID uuid.UUID,
	unitCode string,
	quantity decimal.Decimal,
	quantityBase decimal.Decimal,
	unitCostBase decimal.Decimal,
	warehouseID uuid.UUID,
	binID *uuid.UUID,
	refType RefType,
	refID uuid.UUID,
	refLineID *uuid.UUID,
) (*Movement, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_MOVEMENT_TYPE", "Unknown movement type %q", movementType)
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if unitCode == "" {
		return nil, shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) || quantityBase.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if unitCostBase.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !refType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_REF_TYPE", "Unknown ref type %q", refType)
	}
	if refID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REF", "Ref ID cannot be empty")
	}

	return &Movement{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		Type:         movementType,
		ItemID:       itemID,
		UnitCode:     unitCode,
		Quantity:     quantity,
		QuantityBase: quantityBase,
		UnitCostBase: unitCostBase,
		WarehouseID:  warehouseID,
		BinID:        binID,
		RefType:      refType,
		RefID:        refID,
		RefLineID:    refLineID,
		OccurredAt:   time.Now(),
	}, nil
}

// TotalCostBase returns the base-currency value of the movement
func (m *Movement) TotalCostBase() decimal.Decimal {
	return m.QuantityBase.Mul(m.UnitCostBase)
}

// IsReceive returns true for receive movements
func (m *Movement) IsReceive() bool {
	return m.Type == MovementTypeReceive
}

// IsIssue returns true for issue movements
func (m *Movement) IsIssue() bool {
	return m.Type == MovementTypeIssue
}
