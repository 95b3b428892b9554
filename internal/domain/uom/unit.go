package uom

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/shared"
)

// UnitFamily classifies a unit of measure. The family is advisory only:
// it is carried for display and reporting but never enforced during
// conversion, since cross-family factors (e.g. density-based) are valid
// master data in some deployments.
type UnitFamily string

const (
	UnitFamilyMass   UnitFamily = "MASS"
	UnitFamilyVolume UnitFamily = "VOLUME"
	UnitFamilyCount  UnitFamily = "COUNT"
	UnitFamilyLength UnitFamily = "LENGTH"
	UnitFamilyOther  UnitFamily = "OTHER"
)

// IsValid returns true if the family is a known value
func (f UnitFamily) IsValid() bool {
	switch f {
	case UnitFamilyMass, UnitFamilyVolume, UnitFamilyCount, UnitFamilyLength, UnitFamilyOther:
		return true
	}
	return false
}

// String returns the string representation of UnitFamily
func (f UnitFamily) String() string {
	return string(f)
}

// UnitOfMeasure represents a unit master-data record.
// The code is the identity used by conversion edges and order lines;
// it is normalized to uppercase and unique within a tenant.
type UnitOfMeasure struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_uom_tenant_code,priority:1"`
	Code      string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_uom_tenant_code,priority:2"`
	Name      string     `gorm:"type:varchar(50);not null"`
	Family    UnitFamily `gorm:"type:varchar(20);not null;default:'OTHER'"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UnitOfMeasure) TableName() string {
	return "units_of_measure"
}

// NormalizeUnitCode trims and uppercases a unit code
func NormalizeUnitCode(code string) string {
	return strings.TrimSpace(strings.ToUpper(code))
}

// NewUnitOfMeasure creates a new unit of measure
func NewUnitOfMeasure(tenantID uuid.UUID, code, name string, family UnitFamily) (*UnitOfMeasure, error) {
	code = NormalizeUnitCode(code)
	name = strings.TrimSpace(name)

	if err := validateUnitCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_UNIT_NAME", "Unit name cannot be empty")
	}
	if len(name) > 50 {
		return nil, shared.NewDomainError("INVALID_UNIT_NAME", "Unit name cannot exceed 50 characters")
	}
	if family == "" {
		family = UnitFamilyOther
	}
	if !family.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_UNIT_FAMILY", "Unknown unit family %q", family)
	}

	now := time.Now()
	return &UnitOfMeasure{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Code:      code,
		Name:      name,
		Family:    family,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename updates the display name
func (u *UnitOfMeasure) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_UNIT_NAME", "Unit name cannot be empty")
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

func validateUnitCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot exceed 20 characters")
	}
	return nil
}
