// Package gen builds sample graphs: seeded random graphs plus grid, tree
// and compound fixtures. The generate CLI command and a number of tests
// feed on it.
package gen

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

var nodeTypes = []string{"data", "process", "entity", "concept", "resource"}

// Spec describes a random graph. When Prefix is set, ids are numbered
// (<prefix>1..., e1...) and the same Seed reproduces the same graph id
// for id; with an empty Prefix every id is a fresh uuid, so only the
// shape is reproducible across runs.
type Spec struct {
	Nodes     int
	Edges     int
	Compounds int
	Seed      uint64
	Prefix    string
}

// Random generates a graph from spec. Edges connect uniformly random
// distinct pairs, without self-loops or duplicates; an edge count beyond
// n*(n-1)/2 is clamped. With Compounds > 0 every node is assigned to one
// of that many group containers.
func Random(spec Spec) (*graph.Graph, error) {
	if spec.Nodes < 0 || spec.Edges < 0 || spec.Compounds < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative counts in generator spec")
	}
	rng := rand.New(rand.NewPCG(spec.Seed, spec.Seed^0xdeadbeef))
	g := graph.New()

	groups := make([]string, spec.Compounds)
	for i := range groups {
		groups[i] = spec.id("g", i+1)
		if err := g.AddNode(&graph.Node{
			ID:       groups[i],
			Metadata: map[string]string{"label": fmt.Sprintf("Group %d", i+1)},
		}); err != nil {
			return nil, err
		}
	}

	ids := make([]string, spec.Nodes)
	for i := range ids {
		ids[i] = spec.id(spec.Prefix, i+1)
		size := float64(rng.IntN(40) + 10)
		n := &graph.Node{
			ID:         ids[i],
			Dimensions: &graph.Dimensions{W: size, H: size},
			Metadata: map[string]string{
				"label": fmt.Sprintf("Node %d", i+1),
				"type":  nodeTypes[rng.IntN(len(nodeTypes))],
			},
		}
		if len(groups) > 0 {
			n.Parent = groups[rng.IntN(len(groups))]
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	maxEdges := spec.Nodes * (spec.Nodes - 1) / 2
	target := min(spec.Edges, maxEdges)
	seen := make(map[[2]int]bool, target)
	for e := 1; len(seen) < target; {
		a, b := rng.IntN(spec.Nodes), rng.IntN(spec.Nodes)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if seen[[2]int{a, b}] {
			continue
		}
		seen[[2]int{a, b}] = true
		edge := &graph.Edge{
			ID:     spec.id("e", e),
			Source: ids[a],
			Target: ids[b],
			Weight: float64(rng.IntN(9) + 1),
		}
		if err := g.AddEdge(edge); err != nil {
			return nil, err
		}
		e++
	}
	return g, nil
}

// id numbers an identifier under the prefix, or mints a uuid when the
// spec has none.
func (s Spec) id(prefix string, n int) string {
	if s.Prefix == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s%d", prefix, n)
}

// Grid builds a rows x cols lattice with edges to the right and downward
// neighbors. Ids are row-major n1..n(rows*cols).
func Grid(rows, cols int) (*graph.Graph, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid needs at least one row and column")
	}
	g := graph.New()
	id := func(r, c int) string { return fmt.Sprintf("n%d", r*cols+c+1) }

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if err := g.AddNode(&graph.Node{
				ID:         id(r, c),
				Dimensions: &graph.Dimensions{W: 30, H: 30},
			}); err != nil {
				return nil, err
			}
		}
	}
	e := 1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				if err := g.AddEdge(&graph.Edge{ID: fmt.Sprintf("e%d", e), Source: id(r, c), Target: id(r, c+1), Weight: 1}); err != nil {
					return nil, err
				}
				e++
			}
			if r+1 < rows {
				if err := g.AddEdge(&graph.Edge{ID: fmt.Sprintf("e%d", e), Source: id(r, c), Target: id(r+1, c), Weight: 1}); err != nil {
					return nil, err
				}
				e++
			}
		}
	}
	return g, nil
}

// Tree builds a complete tree of the given depth where every internal
// node has fanout children. Depth 1 is a single root.
func Tree(depth, fanout int) (*graph.Graph, error) {
	if depth < 1 || fanout < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree needs depth and fanout of at least 1")
	}
	g := graph.New()
	if err := g.AddNode(&graph.Node{ID: "n1", Dimensions: &graph.Dimensions{W: 30, H: 30}}); err != nil {
		return nil, err
	}

	level := []string{"n1"}
	next := 2
	e := 1
	for d := 1; d < depth; d++ {
		var children []string
		for _, parent := range level {
			for f := 0; f < fanout; f++ {
				id := fmt.Sprintf("n%d", next)
				next++
				if err := g.AddNode(&graph.Node{ID: id, Dimensions: &graph.Dimensions{W: 30, H: 30}}); err != nil {
					return nil, err
				}
				if err := g.AddEdge(&graph.Edge{ID: fmt.Sprintf("e%d", e), Source: parent, Target: id, Weight: 1}); err != nil {
					return nil, err
				}
				e++
				children = append(children, id)
			}
		}
		level = children
	}
	return g, nil
}

// Compound builds groups of perGroup leaves each: leaves chain within
// their group, and consecutive groups link through their first leaves.
func Compound(groups, perGroup int) (*graph.Graph, error) {
	if groups < 1 || perGroup < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "compound needs at least one group and one member")
	}
	g := graph.New()
	next := 1
	e := 1
	var firstLeaf []string
	for gi := 1; gi <= groups; gi++ {
		gid := fmt.Sprintf("g%d", gi)
		if err := g.AddNode(&graph.Node{
			ID:       gid,
			Metadata: map[string]string{"label": fmt.Sprintf("Group %d", gi)},
		}); err != nil {
			return nil, err
		}
		var prev string
		for m := 0; m < perGroup; m++ {
			id := fmt.Sprintf("n%d", next)
			next++
			if err := g.AddNode(&graph.Node{
				ID:         id,
				Parent:     gid,
				Dimensions: &graph.Dimensions{W: 30, H: 30},
			}); err != nil {
				return nil, err
			}
			if m == 0 {
				firstLeaf = append(firstLeaf, id)
			}
			if prev != "" {
				if err := g.AddEdge(&graph.Edge{ID: fmt.Sprintf("e%d", e), Source: prev, Target: id, Weight: 1}); err != nil {
					return nil, err
				}
				e++
			}
			prev = id
		}
	}
	for i := 0; i+1 < len(firstLeaf); i++ {
		if err := g.AddEdge(&graph.Edge{ID: fmt.Sprintf("e%d", e), Source: firstLeaf[i], Target: firstLeaf[i+1], Weight: 1}); err != nil {
			return nil, err
		}
		e++
	}
	return g, nil
}
