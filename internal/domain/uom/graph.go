package uom

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stockflow/backend/internal/domain/shared"
)

// conversionScale is the number of decimal places conversion results are
// rounded to, matching the quantity column precision.
const conversionScale = 6

// graphEdge is one directed adjacency entry in a built graph
type graphEdge struct {
	to     string
	factor decimal.Decimal
}

// ConversionGraph is an immutable snapshot of the unit conversion graph for
// one scope. It is built once from a merged edge set and shared read-only
// between conversions, so concurrent lookups never race with edge writes.
//
// Path resolution policy (conflicting multi-path graphs are legal master
// data, so the result must not depend on insertion order):
//  1. identity conversions short-circuit without traversal;
//  2. a stored direct edge always wins over any multi-hop path;
//  3. otherwise a breadth-first search with lexicographically ordered
//     neighbors picks the shortest path, ties broken by unit code order.
type ConversionGraph struct {
	adjacency map[string][]graphEdge
	direct    map[string]decimal.Decimal
}

// NewConversionGraph builds an immutable graph from the given edges.
// The edge set should already be scope-merged (see MergeScopedEdges).
// For every edge the reciprocal is derived; a stored edge for the reverse
// direction takes precedence over a derived reciprocal.
func NewConversionGraph(edges []ConversionEdge) *ConversionGraph {
	g := &ConversionGraph{
		adjacency: make(map[string][]graphEdge),
		direct:    make(map[string]decimal.Decimal),
	}

	// Stored edges first so they win over derived inverses.
	for _, e := range edges {
		if e.Factor.LessThanOrEqual(decimal.Zero) {
			// Edges are validated at write time; a non-positive factor here
			// means corrupted storage, which must not poison conversions.
			continue
		}
		g.addEdge(e.FromCode, e.ToCode, e.Factor)
	}
	for _, e := range edges {
		if e.Factor.LessThanOrEqual(decimal.Zero) {
			continue
		}
		inverse := decimal.NewFromInt(1).DivRound(e.Factor, conversionScale+6)
		g.addEdge(e.ToCode, e.FromCode, inverse)
	}

	for code := range g.adjacency {
		sort.Slice(g.adjacency[code], func(i, j int) bool {
			return g.adjacency[code][i].to < g.adjacency[code][j].to
		})
	}

	return g
}

// addEdge inserts an adjacency entry unless the pair is already present.
// Stored edges are inserted before derived reciprocals, so the first entry
// for a pair wins.
func (g *ConversionGraph) addEdge(from, to string, factor decimal.Decimal) {
	key := from + "->" + to
	if _, exists := g.direct[key]; exists {
		return
	}
	g.direct[key] = factor
	g.adjacency[from] = append(g.adjacency[from], graphEdge{to: to, factor: factor})
}

// HasUnit returns true if the unit participates in at least one edge
func (g *ConversionGraph) HasUnit(code string) bool {
	_, ok := g.adjacency[NormalizeUnitCode(code)]
	return ok
}

// Factor returns the multiplication factor converting fromCode to toCode,
// or ErrNoConversionPath if toCode is unreachable.
func (g *ConversionGraph) Factor(fromCode, toCode string) (decimal.Decimal, error) {
	fromCode = NormalizeUnitCode(fromCode)
	toCode = NormalizeUnitCode(toCode)

	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}

	if f, ok := g.direct[fromCode+"->"+toCode]; ok {
		return f, nil
	}

	type queueEntry struct {
		code   string
		factor decimal.Decimal
	}

	visited := map[string]bool{fromCode: true}
	queue := []queueEntry{{code: fromCode, factor: decimal.NewFromInt(1)}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range g.adjacency[current.code] {
			if visited[edge.to] {
				continue
			}
			accumulated := current.factor.Mul(edge.factor)
			if edge.to == toCode {
				return accumulated, nil
			}
			visited[edge.to] = true
			queue = append(queue, queueEntry{code: edge.to, factor: accumulated})
		}
	}

	return decimal.Zero, shared.NewDomainErrorf("NO_CONVERSION_PATH", "No conversion path from %s to %s", fromCode, toCode)
}

// Convert converts a quantity between two units. Identity conversions return
// the input unchanged. Unreachable targets fail with NO_CONVERSION_PATH;
// the graph never guesses a default factor.
func (g *ConversionGraph) Convert(qty decimal.Decimal, fromCode, toCode string) (decimal.Decimal, error) {
	fromCode = NormalizeUnitCode(fromCode)
	toCode = NormalizeUnitCode(toCode)

	if fromCode == toCode {
		return qty, nil
	}

	factor, err := g.Factor(fromCode, toCode)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(factor).Round(conversionScale), nil
}
