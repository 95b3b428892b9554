package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		wantErr  bool
	}{
		{"accepts a 3-letter code", "EUR", false},
		{"normalizes case and whitespace", " usd ", false},
		{"rejects an empty currency", "", true},
		{"rejects a long code", "EURO", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			money, err := NewMoney(decimal.NewFromInt(10), tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, money.Currency(), 3)
		})
	}
}

func TestMoney_Add_RejectsCurrencyMismatch(t *testing.T) {
	usd := NewBaseMoney(decimal.NewFromInt(100))
	eur, err := NewMoney(decimal.NewFromInt(50), "EUR")
	require.NoError(t, err)

	_, err = usd.Add(eur)
	assert.Error(t, err)

	sum, err := usd.Add(NewBaseMoney(decimal.NewFromInt(25)))
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(125)))
	assert.Equal(t, BaseCurrency, sum.Currency())
}

func TestMoney_ToBase(t *testing.T) {
	eur, err := NewMoney(decimal.NewFromInt(400), "EUR")
	require.NoError(t, err)

	base, err := eur.ToBase(decimal.NewFromFloat(1.1))
	require.NoError(t, err)
	assert.Equal(t, BaseCurrency, base.Currency())
	assert.True(t, base.Amount().Equal(decimal.NewFromInt(440)))

	_, err = eur.ToBase(decimal.Zero)
	assert.Error(t, err)
	_, err = eur.ToBase(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestMoney_Div(t *testing.T) {
	total := NewBaseMoney(decimal.NewFromInt(1000))

	unit, err := total.Div(decimal.NewFromInt(2000))
	require.NoError(t, err)
	assert.True(t, unit.Round(4).Amount().Equal(decimal.NewFromFloat(0.5)))

	_, err = total.Div(decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_Equals(t *testing.T) {
	a := NewBaseMoney(decimal.NewFromFloat(1.50))
	b := NewBaseMoney(decimal.NewFromFloat(1.5))
	assert.True(t, a.Equals(b))

	eur, err := NewMoney(decimal.NewFromFloat(1.5), "EUR")
	require.NoError(t, err)
	assert.False(t, a.Equals(eur))
}
