package graph

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New()

	if err := g.AddNode(&Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(&Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id error = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(&Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate id error = %v, want ErrDuplicateNodeID", err)
	}
	if g.Node("a").Metadata == nil {
		t.Error("AddNode did not initialize Metadata")
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	if err := g.AddNode(&Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(&Node{ID: "b"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	tests := []struct {
		name    string
		edge    *Edge
		wantErr error
	}{
		{"Valid", &Edge{ID: "e1", Source: "a", Target: "b", Weight: 1}, nil},
		{"EmptyID", &Edge{Source: "a", Target: "b"}, ErrInvalidEdgeID},
		{"Duplicate", &Edge{ID: "e1", Source: "a", Target: "b"}, ErrDuplicateEdgeID},
		{"MissingSource", &Edge{ID: "e2", Source: "x", Target: "b"}, ErrDanglingEdge},
		{"MissingTarget", &Edge{ID: "e3", Source: "a", Target: "x"}, ErrDanglingEdge},
		{"NegativeWeight", &Edge{ID: "e4", Source: "a", Target: "b", Weight: -1}, ErrNegativeWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	build := func(mutate func(g *Graph)) *Graph {
		g := New()
		for _, id := range []string{"a", "b", "c"} {
			if err := g.AddNode(&Node{ID: id}); err != nil {
				t.Fatalf("AddNode: %v", err)
			}
		}
		if err := g.AddEdge(&Edge{ID: "e1", Source: "a", Target: "b", Weight: 1}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
		if mutate != nil {
			mutate(g)
		}
		return g
	}

	tests := []struct {
		name    string
		mutate  func(g *Graph)
		wantErr error
	}{
		{"Valid", nil, nil},
		{
			"DanglingEdge",
			func(g *Graph) { g.Edges["e1"].Target = "ghost" },
			ErrDanglingEdge,
		},
		{
			"NegativeWeight",
			func(g *Graph) { g.Edges["e1"].Weight = -0.5 },
			ErrNegativeWeight,
		},
		{
			"UnknownParent",
			func(g *Graph) { g.Nodes["a"].Parent = "ghost" },
			ErrUnknownParent,
		},
		{
			"SelfParent",
			func(g *Graph) { g.Nodes["a"].Parent = "a" },
			ErrCompoundCycle,
		},
		{
			"ParentCycle",
			func(g *Graph) {
				g.Nodes["a"].Parent = "b"
				g.Nodes["b"].Parent = "c"
				g.Nodes["c"].Parent = "a"
			},
			ErrCompoundCycle,
		},
		{
			"ValidNesting",
			func(g *Graph) {
				g.Nodes["b"].Parent = "a"
				g.Nodes["c"].Parent = "b"
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := build(tt.mutate).Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompoundHelpers(t *testing.T) {
	g := New()
	for _, n := range []*Node{
		{ID: "root"},
		{ID: "childB", Parent: "root"},
		{ID: "childA", Parent: "root"},
		{ID: "grand", Parent: "childA"},
		{ID: "lone"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}

	if got := g.Children("root"); len(got) != 2 || got[0] != "childA" || got[1] != "childB" {
		t.Errorf("Children(root) = %v, want [childA childB]", got)
	}
	if !g.IsCompound("root") || g.IsCompound("lone") {
		t.Error("IsCompound misreported")
	}
	if got := g.Roots(); len(got) != 2 || got[0] != "lone" || got[1] != "root" {
		t.Errorf("Roots() = %v, want [lone root]", got)
	}
	if got := g.Depth("grand"); got != 2 {
		t.Errorf("Depth(grand) = %d, want 2", got)
	}
	if got := g.Ancestors("grand"); len(got) != 2 || got[0] != "childA" || got[1] != "root" {
		t.Errorf("Ancestors(grand) = %v, want [childA root]", got)
	}
}

func TestRemoveNode(t *testing.T) {
	g := New()
	for _, n := range []*Node{
		{ID: "p"},
		{ID: "mid", Parent: "p"},
		{ID: "leaf", Parent: "mid"},
		{ID: "other"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge(&Edge{ID: "e1", Source: "mid", Target: "other", Weight: 1}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	g.RemoveNode("mid")

	if g.Node("mid") != nil {
		t.Error("node still present after RemoveNode")
	}
	if g.Edge("e1") != nil {
		t.Error("incident edge survived RemoveNode")
	}
	if got := g.Node("leaf").Parent; got != "p" {
		t.Errorf("orphaned child parent = %q, want %q", got, "p")
	}
}

func TestCloneIndependence(t *testing.T) {
	g := New()
	if err := g.AddNode(&Node{ID: "a", Position: &Position{X: 1, Y: 2}, Metadata: map[string]string{"k": "v"}}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(&Node{ID: "b"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddEdge(&Edge{ID: "e", Source: "a", Target: "b", Weight: 2}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	c := g.Clone()
	c.Nodes["a"].Position.X = 99
	c.Nodes["a"].Metadata["k"] = "changed"
	c.Edges["e"].Weight = 7

	if g.Nodes["a"].Position.X != 1 {
		t.Error("clone mutation leaked into original position")
	}
	if g.Nodes["a"].Metadata["k"] != "v" {
		t.Error("clone mutation leaked into original metadata")
	}
	if g.Edges["e"].Weight != 2 {
		t.Error("clone mutation leaked into original edge")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := New()
	if err := g.AddNode(&Node{
		ID:         "a",
		Position:   &Position{X: 1.5, Y: -2},
		Dimensions: &Dimensions{W: 40, H: 20},
		Locked:     true,
		Metadata:   map[string]string{"label": "Node A"},
	}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddNode(&Node{ID: "b", Parent: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.AddEdge(&Edge{ID: "e", Source: "a", Target: "b", Weight: 2.5}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	// Positions and dimensions must be wire arrays, not objects.
	if !strings.Contains(string(data), "[\n        1.5,\n        -2\n      ]") &&
		!strings.Contains(string(data), "[1.5,-2]") {
		var compact map[string]any
		if err := json.Unmarshal(data, &compact); err != nil {
			t.Fatalf("re-parse: %v", err)
		}
		nodes := compact["nodes"].(map[string]any)
		a := nodes["a"].(map[string]any)
		if _, ok := a["position"].([]any); !ok {
			t.Fatalf("position did not serialize as array: %s", data)
		}
	}

	got, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}

	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Fatalf("round trip counts = %d nodes %d edges", got.NodeCount(), got.EdgeCount())
	}
	a := got.Node("a")
	if a.Position == nil || a.Position.X != 1.5 || a.Position.Y != -2 {
		t.Errorf("position = %+v, want {1.5 -2}", a.Position)
	}
	if a.Dimensions == nil || a.Dimensions.W != 40 || a.Dimensions.H != 20 {
		t.Errorf("dimensions = %+v, want {40 20}", a.Dimensions)
	}
	if !a.Locked {
		t.Error("locked flag lost in round trip")
	}
	if got.Node("b").Parent != "a" {
		t.Error("parent lost in round trip")
	}
	if w := got.Edge("e").Weight; w != 2.5 {
		t.Errorf("weight = %v, want 2.5", w)
	}
}

func TestUnmarshalDefaults(t *testing.T) {
	// Ids come from map keys; absent weight defaults to 1; explicit zero
	// weight survives.
	data := []byte(`{
		"nodes": {"a": {}, "b": {}},
		"edges": {
			"e1": {"source": "a", "target": "b"},
			"e2": {"source": "a", "target": "b", "weight": 0}
		}
	}`)

	g, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if g.Node("a").ID != "a" {
		t.Error("node id not filled from key")
	}
	if w := g.Edge("e1").Weight; w != 1 {
		t.Errorf("default weight = %v, want 1", w)
	}
	if w := g.Edge("e2").Weight; w != 0 {
		t.Errorf("explicit zero weight = %v, want 0", w)
	}
}

func TestUnmarshalIDMismatch(t *testing.T) {
	data := []byte(`{"nodes": {"a": {"id": "z"}}, "edges": {}}`)
	if _, err := UnmarshalGraph(data); err == nil {
		t.Fatal("expected error for id/key mismatch")
	}
}

func TestPositionUnmarshalErrors(t *testing.T) {
	var p Position
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &p); err == nil {
		t.Error("expected error for 3-element position")
	}
	if err := json.Unmarshal([]byte(`{"x": 1}`), &p); err == nil {
		t.Error("expected error for object position")
	}
}
