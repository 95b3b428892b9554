package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency all ledger costs are stored in. Order
// amounts arrive in the order currency and are brought to base with the
// order FX rate before they touch the ledger.
const BaseCurrency = "USD"

// Money is an immutable monetary amount in a currency. Tax and pricing
// policy live outside this service; Money only carries amounts and keeps
// currencies from mixing.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates Money in the given currency
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	currency = strings.TrimSpace(strings.ToUpper(currency))
	if len(currency) != 3 {
		return Money{}, errors.New("currency must be a 3-letter code")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewBaseMoney creates Money in the base currency
func NewBaseMoney(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: BaseCurrency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() string {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns the sum of both amounts. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Mul returns the amount multiplied by a factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Div returns the amount divided by a divisor
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("cannot divide money by zero")
	}
	return Money{amount: m.amount.Div(divisor), currency: m.currency}, nil
}

// ToBase converts the amount to the base currency at the given rate
func (m Money) ToBase(rate decimal.Decimal) (Money, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return Money{}, errors.New("exchange rate must be positive")
	}
	return Money{amount: m.amount.Mul(rate), currency: BaseCurrency}, nil
}

// Round returns the amount rounded to the given decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// Equals returns true for the same amount in the same currency
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns the amount followed by the currency code
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}
