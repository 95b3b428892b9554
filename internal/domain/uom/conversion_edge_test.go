package uom

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversionEdge_Validation(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		factor  string
		errCode string
	}{
		{"valid", "KG", "G", "1000", ""},
		{"zero factor", "KG", "G", "0", "INVALID_CONVERSION_RATE"},
		{"negative factor", "KG", "G", "-2", "INVALID_CONVERSION_RATE"},
		{"self edge", "KG", "KG", "1", "INVALID_CONVERSION_RATE"},
		{"self edge after normalization", "kg", " KG ", "1", "INVALID_CONVERSION_RATE"},
		{"empty from", "", "G", "1000", "INVALID_UNIT_CODE"},
		{"empty to", "KG", "", "1000", "INVALID_UNIT_CODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge, err := NewConversionEdge(nil, tt.from, tt.to, decimal.RequireFromString(tt.factor))
			if tt.errCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "KG", edge.FromCode)
				assert.Equal(t, "G", edge.ToCode)
				assert.True(t, edge.IsGlobal())
				return
			}
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.errCode, domainErr.Code)
		})
	}
}

func TestConversionEdge_UpdateFactor(t *testing.T) {
	edge, err := NewConversionEdge(nil, "KG", "G", decimal.NewFromInt(1000))
	require.NoError(t, err)

	require.NoError(t, edge.UpdateFactor(decimal.RequireFromString("1000.5")))
	assert.Equal(t, "1000.5", edge.Factor.String())

	err = edge.UpdateFactor(decimal.Zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidConversionRate))
}

func TestMergeScopedEdges(t *testing.T) {
	tenantID := uuid.New()

	global := []ConversionEdge{
		mustEdge(t, "KG", "G", "1000"),
		mustEdge(t, "TON", "KG", "1000"),
	}

	override, err := NewConversionEdge(&tenantID, "KG", "G", decimal.RequireFromString("999"))
	require.NoError(t, err)
	extra, err := NewConversionEdge(&tenantID, "L", "ML", decimal.NewFromInt(1000))
	require.NoError(t, err)
	scoped := []ConversionEdge{*override, *extra}

	merged := MergeScopedEdges(global, scoped)
	require.Len(t, merged, 3)

	factors := make(map[string]string)
	for _, e := range merged {
		factors[e.PairKey()] = e.Factor.String()
	}
	assert.Equal(t, "999", factors["KG->G"], "scoped edge must shadow the global edge")
	assert.Equal(t, "1000", factors["TON->KG"])
	assert.Equal(t, "1000", factors["L->ML"])
}

func TestMergeScopedEdges_EmptyScope(t *testing.T) {
	global := []ConversionEdge{mustEdge(t, "KG", "G", "1000")}

	merged := MergeScopedEdges(global, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, "KG->G", merged[0].PairKey())
}
