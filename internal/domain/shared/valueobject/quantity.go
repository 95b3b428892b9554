package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity pairs a decimal amount with the unit code it is measured in.
// It is immutable; arithmetic returns new values and refuses to mix units,
// so a KG amount can never silently absorb a TON amount.
type Quantity struct {
	value decimal.Decimal
	unit  string
}

// NewQuantity creates a Quantity. The unit code is trimmed and uppercased
// the same way unit codes are stored; negative amounts are rejected.
func NewQuantity(value decimal.Decimal, unit string) (Quantity, error) {
	unit = strings.TrimSpace(strings.ToUpper(unit))
	if unit == "" {
		return Quantity{}, errors.New("quantity unit cannot be empty")
	}
	if value.IsNegative() {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{value: value, unit: unit}, nil
}

// ZeroQuantity returns a zero quantity in the given unit
func ZeroQuantity(unit string) Quantity {
	return Quantity{value: decimal.Zero, unit: strings.TrimSpace(strings.ToUpper(unit))}
}

// Amount returns the decimal amount
func (q Quantity) Amount() decimal.Decimal {
	return q.value
}

// Unit returns the unit code
func (q Quantity) Unit() string {
	return q.unit
}

// IsZero returns true if the amount is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive returns true if the amount is greater than zero
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// Add returns the sum of both quantities. Units must match.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("cannot add %s to %s", other.unit, q.unit)
	}
	return Quantity{value: q.value.Add(other.value), unit: q.unit}, nil
}

// Sub returns the difference of both quantities. Units must match and the
// result may not go negative.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if q.unit != other.unit {
		return Quantity{}, fmt.Errorf("cannot subtract %s from %s", other.unit, q.unit)
	}
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, errors.New("resulting quantity would be negative")
	}
	return Quantity{value: result, unit: q.unit}, nil
}

// GreaterThanOrEqual compares two quantities in the same unit
func (q Quantity) GreaterThanOrEqual(other Quantity) (bool, error) {
	if q.unit != other.unit {
		return false, fmt.Errorf("cannot compare %s against %s", q.unit, other.unit)
	}
	return q.value.GreaterThanOrEqual(other.value), nil
}

// Round returns the quantity rounded to the given decimal places
func (q Quantity) Round(places int32) Quantity {
	return Quantity{value: q.value.Round(places), unit: q.unit}
}

// Equals returns true for the same amount in the same unit
func (q Quantity) Equals(other Quantity) bool {
	return q.unit == other.unit && q.value.Equal(other.value)
}

// String returns the amount followed by the unit code
func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.value.String(), q.unit)
}

// MarshalJSON implements json.Marshaler, keeping the amount a string so no
// precision is lost in transport
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value string `json:"value"`
		Unit  string `json:"unit"`
	}{
		Value: q.value.String(),
		Unit:  q.unit,
	})
}
