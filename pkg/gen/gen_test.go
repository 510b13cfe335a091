package gen

import (
	"fmt"
	"testing"

	"github.com/ocasazza/graphlayouts/pkg/errors"
)

func TestRandomShape(t *testing.T) {
	g, err := Random(Spec{Nodes: 20, Edges: 30, Seed: 7, Prefix: "n"})
	if err != nil {
		t.Fatalf("Random(): %v", err)
	}
	if g.NodeCount() != 20 {
		t.Errorf("got %d nodes, want 20", g.NodeCount())
	}
	if g.EdgeCount() != 30 {
		t.Errorf("got %d edges, want 30", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("generated graph invalid: %v", err)
	}
	for _, id := range g.EdgeIDs() {
		e := g.Edges[id]
		if e.Source == e.Target {
			t.Errorf("edge %s is a self-loop", id)
		}
		if e.Weight < 1 || e.Weight > 9 {
			t.Errorf("edge %s weight = %v, want 1..9", id, e.Weight)
		}
	}
	if n := g.Nodes["n1"]; n == nil || n.Metadata["label"] != "Node 1" {
		t.Errorf("node n1 = %+v", g.Nodes["n1"])
	}
}

func TestRandomDeterministic(t *testing.T) {
	a, err := Random(Spec{Nodes: 15, Edges: 20, Compounds: 3, Seed: 42, Prefix: "n"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Random(Spec{Nodes: 15, Edges: 20, Compounds: 3, Seed: 42, Prefix: "n"})
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range a.NodeIDs() {
		na, nb := a.Nodes[id], b.Nodes[id]
		if nb == nil {
			t.Fatalf("node %s missing from second run", id)
		}
		if na.Parent != nb.Parent || na.Metadata["type"] != nb.Metadata["type"] {
			t.Errorf("node %s differs between runs", id)
		}
		// Group containers carry no dimensions.
		if na.Dimensions != nil && na.Dimensions.W != nb.Dimensions.W {
			t.Errorf("node %s size differs between runs", id)
		}
	}
	for _, id := range a.EdgeIDs() {
		ea, eb := a.Edges[id], b.Edges[id]
		if eb == nil || ea.Source != eb.Source || ea.Target != eb.Target || ea.Weight != eb.Weight {
			t.Errorf("edge %s differs between runs", id)
		}
	}
}

func TestRandomCompounds(t *testing.T) {
	g, err := Random(Spec{Nodes: 10, Edges: 5, Compounds: 2, Seed: 1, Prefix: "n"})
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 12 {
		t.Fatalf("got %d nodes, want 10 + 2 groups", g.NodeCount())
	}
	for i := 1; i <= 10; i++ {
		n := g.Nodes[fmt.Sprintf("n%d", i)]
		if n == nil {
			t.Fatalf("node n%d missing", i)
		}
		if p := n.Parent; p != "g1" && p != "g2" {
			t.Errorf("node n%d parent = %q, want g1 or g2", i, p)
		}
	}
}

func TestRandomEdgeClamp(t *testing.T) {
	// 4 nodes allow at most 6 distinct pairs.
	g, err := Random(Spec{Nodes: 4, Edges: 100, Seed: 3, Prefix: "n"})
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 6 {
		t.Errorf("got %d edges, want clamp at 6", g.EdgeCount())
	}
}

func TestRandomUUIDIDs(t *testing.T) {
	g, err := Random(Spec{Nodes: 3, Edges: 2, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("got %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	for _, id := range g.NodeIDs() {
		if len(id) != 36 {
			t.Errorf("id %q does not look like a uuid", id)
		}
	}
}

func TestRandomRejectsNegatives(t *testing.T) {
	_, err := Random(Spec{Nodes: -1})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestGrid(t *testing.T) {
	g, err := Grid(3, 4)
	if err != nil {
		t.Fatalf("Grid(): %v", err)
	}
	if g.NodeCount() != 12 {
		t.Errorf("got %d nodes, want 12", g.NodeCount())
	}
	// 3 rows of 3 horizontal edges plus 4 columns of 2 vertical edges.
	if g.EdgeCount() != 17 {
		t.Errorf("got %d edges, want 17", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("grid invalid: %v", err)
	}
}

func TestTree(t *testing.T) {
	g, err := Tree(3, 2)
	if err != nil {
		t.Fatalf("Tree(): %v", err)
	}
	// 1 + 2 + 4 nodes.
	if g.NodeCount() != 7 {
		t.Errorf("got %d nodes, want 7", g.NodeCount())
	}
	if g.EdgeCount() != 6 {
		t.Errorf("got %d edges, want 6", g.EdgeCount())
	}
	degreeOut := map[string]int{}
	for _, id := range g.EdgeIDs() {
		degreeOut[g.Edges[id].Source]++
	}
	if degreeOut["n1"] != 2 {
		t.Errorf("root out-degree = %d, want 2", degreeOut["n1"])
	}
}

func TestCompound(t *testing.T) {
	g, err := Compound(2, 3)
	if err != nil {
		t.Fatalf("Compound(): %v", err)
	}
	if g.NodeCount() != 8 {
		t.Errorf("got %d nodes, want 2 groups + 6 leaves", g.NodeCount())
	}
	// Two chains of 2 edges each plus one bridge.
	if g.EdgeCount() != 5 {
		t.Errorf("got %d edges, want 5", g.EdgeCount())
	}
	if !g.IsCompound("g1") || !g.IsCompound("g2") {
		t.Error("group nodes are not compounds")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("compound graph invalid: %v", err)
	}
}
