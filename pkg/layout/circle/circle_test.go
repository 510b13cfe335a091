package circle

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

func ringGraph(t *testing.T, n int, w, h float64) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i := 0; i < n; i++ {
		node := &graph.Node{ID: fmt.Sprintf("n%02d", i)}
		if w > 0 {
			node.Dimensions = &graph.Dimensions{W: w, H: h}
		}
		if err := g.AddNode(node); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestAllNodesShareOneRadius(t *testing.T) {
	g := ringGraph(t, 6, 30, 30)

	res, err := New(layout.DefaultCircleOptions()).Apply(context.Background(), g)
	if err != nil {
		t.Fatalf("Apply(): %v", err)
	}
	if !res.Converged {
		t.Errorf("unexpected result: %+v", res)
	}

	var want float64
	for i, id := range g.NodeIDs() {
		p := g.Nodes[id].Position
		if p == nil {
			t.Fatalf("node %s has no position", id)
		}
		r := math.Hypot(p.X, p.Y)
		if i == 0 {
			want = r
			continue
		}
		if math.Abs(r-want) > 1e-9 {
			t.Errorf("node %s radius = %v, want %v", id, r, want)
		}
	}
	if want <= 0 {
		t.Errorf("ring radius = %v, want > 0", want)
	}
}

func TestNeighborsKeepArcSpacing(t *testing.T) {
	const side = 30.0
	g := ringGraph(t, 8, side, side)

	opts := layout.DefaultCircleOptions()
	opts.Spacing = 12

	if _, err := New(opts).Apply(context.Background(), g); err != nil {
		t.Fatalf("Apply(): %v", err)
	}

	// The circumference allots every node its diagonal plus the spacing,
	// so neighboring arc gaps must cover at least that much.
	ids := g.NodeIDs()
	diag := math.Hypot(side, side)
	for i := range ids {
		a := g.Nodes[ids[i]].Position
		b := g.Nodes[ids[(i+1)%len(ids)]].Position
		chord := math.Hypot(a.X-b.X, a.Y-b.Y)
		// Chord is shorter than arc; allow a slice of slack below the
		// nominal diagonal+spacing.
		if chord < (diag+opts.Spacing)*0.9 {
			t.Errorf("neighbors %s-%s are %0.2f apart, want about %0.2f",
				ids[i], ids[(i+1)%len(ids)], chord, diag+opts.Spacing)
		}
	}
}

func TestSingleFreeNodeAtOrigin(t *testing.T) {
	g := ringGraph(t, 1, 0, 0)
	if _, err := New(layout.DefaultCircleOptions()).Apply(context.Background(), g); err != nil {
		t.Fatalf("Apply(): %v", err)
	}
	p := g.Nodes["n00"].Position
	if p == nil || p.X != 0 || p.Y != 0 {
		t.Errorf("single node position = %+v, want origin", p)
	}
}

func TestLockedNodeExcludedFromRing(t *testing.T) {
	g := ringGraph(t, 4, 20, 20)
	g.Nodes["n03"].Locked = true
	g.Nodes["n03"].Position = &graph.Position{X: -900, Y: 0}

	if _, err := New(layout.DefaultCircleOptions()).Apply(context.Background(), g); err != nil {
		t.Fatalf("Apply(): %v", err)
	}
	if p := g.Nodes["n03"].Position; p.X != -900 || p.Y != 0 {
		t.Errorf("locked node moved to %+v", p)
	}
}
