package uom

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEdge(t *testing.T, from, to, factor string) ConversionEdge {
	t.Helper()
	f, err := decimal.NewFromString(factor)
	require.NoError(t, err)
	edge, err := NewConversionEdge(nil, from, to, f)
	require.NoError(t, err)
	return *edge
}

func TestConversionGraph_IdentityShortCircuit(t *testing.T) {
	// Identity conversion succeeds even for units the graph has never seen.
	g := NewConversionGraph(nil)

	qty := decimal.RequireFromString("5.123456789")
	result, err := g.Convert(qty, "KG", "KG")
	require.NoError(t, err)
	assert.True(t, qty.Equal(result), "identity must return the input unchanged, got %s", result)
}

func TestConversionGraph_DirectEdge(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "KG", "G", "1000"),
	})

	result, err := g.Convert(decimal.NewFromInt(2), "KG", "G")
	require.NoError(t, err)
	assert.Equal(t, "2000", result.String())
}

func TestConversionGraph_DerivedInverse(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "KG", "G", "1000"),
	})

	result, err := g.Convert(decimal.NewFromInt(500), "G", "KG")
	require.NoError(t, err)
	assert.Equal(t, "0.5", result.String())
}

func TestConversionGraph_RoundTrip(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "TON", "KG", "1000"),
	})

	qty := decimal.RequireFromString("3.7")
	kg, err := g.Convert(qty, "TON", "KG")
	require.NoError(t, err)

	back, err := g.Convert(kg, "KG", "TON")
	require.NoError(t, err)
	assert.True(t, qty.Equal(back), "round trip changed the quantity: %s != %s", qty, back)
}

func TestConversionGraph_StoredReverseEdgeWinsOverDerived(t *testing.T) {
	// When both directions are stored, the stored factor is authoritative
	// and no reciprocal is derived over it.
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "KG", "LB", "2.20462"),
		mustEdge(t, "LB", "KG", "0.453592"),
	})

	factor, err := g.Factor("LB", "KG")
	require.NoError(t, err)
	assert.Equal(t, "0.453592", factor.String())
}

func TestConversionGraph_DirectEdgePreferredOverMultiHop(t *testing.T) {
	// A stored A->C edge must win even when a multi-hop path disagrees.
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "A", "B", "2"),
		mustEdge(t, "B", "C", "3"),
		mustEdge(t, "A", "C", "7"),
	})

	factor, err := g.Factor("A", "C")
	require.NoError(t, err)
	assert.Equal(t, "7", factor.String())
}

func TestConversionGraph_MultiHop(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "TON", "KG", "1000"),
		mustEdge(t, "KG", "G", "1000"),
	})

	result, err := g.Convert(decimal.NewFromInt(2), "TON", "G")
	require.NoError(t, err)
	assert.Equal(t, "2000000", result.String())
}

func TestConversionGraph_DeterministicTieBreak(t *testing.T) {
	// Two 2-hop paths from A to C disagree. Neighbors are visited in
	// lexicographic order, so the path through B is found first and the
	// result never depends on edge insertion order.
	edges := []ConversionEdge{
		mustEdge(t, "A", "B", "2"),
		mustEdge(t, "A", "D", "5"),
		mustEdge(t, "B", "C", "3"),
		mustEdge(t, "D", "C", "1"),
	}

	g := NewConversionGraph(edges)
	factor, err := g.Factor("A", "C")
	require.NoError(t, err)
	assert.Equal(t, "6", factor.String())

	// Same edges in reverse insertion order give the same answer.
	reversed := []ConversionEdge{edges[3], edges[2], edges[1], edges[0]}
	g2 := NewConversionGraph(reversed)
	factor2, err := g2.Factor("A", "C")
	require.NoError(t, err)
	assert.True(t, factor.Equal(factor2))
}

func TestConversionGraph_NoPath(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "KG", "G", "1000"),
		mustEdge(t, "L", "ML", "1000"),
	})

	_, err := g.Convert(decimal.NewFromInt(1), "KG", "L")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNoConversionPath))

	_, err = g.Factor("KG", "UNKNOWN")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNoConversionPath))
}

func TestConversionGraph_RoundsToSixPlaces(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "DOZ", "PC", "12"),
	})

	result, err := g.Convert(decimal.NewFromInt(1), "PC", "DOZ")
	require.NoError(t, err)
	assert.Equal(t, "0.083333", result.String())
}

func TestConversionGraph_NormalizesUnitCodes(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "kg", "g", "1000"),
	})

	result, err := g.Convert(decimal.NewFromInt(1), " kg ", "G")
	require.NoError(t, err)
	assert.Equal(t, "1000", result.String())
}

func TestConversionGraph_HasUnit(t *testing.T) {
	g := NewConversionGraph([]ConversionEdge{
		mustEdge(t, "KG", "G", "1000"),
	})

	assert.True(t, g.HasUnit("KG"))
	assert.True(t, g.HasUnit("g"), "derived inverse registers the target unit")
	assert.False(t, g.HasUnit("L"))
}
