package graphio

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

func TestDOTImportBasic(t *testing.T) {
	src := `digraph G {
  "a" [pos="10,20", width="0.5", height="0.5"];
  b;
  a -> b [weight=2];
}`
	g, err := Import(strings.NewReader(src), FormatDOT)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}

	a := g.Nodes["a"]
	if a == nil {
		t.Fatal("node a missing")
	}
	if a.Position == nil || a.Position.X != 10 || a.Position.Y != 20 {
		t.Errorf("position = %+v, want {10 20}", a.Position)
	}
	// 0.5in becomes 36pt.
	if a.Dimensions == nil || a.Dimensions.W != 36 || a.Dimensions.H != 36 {
		t.Errorf("dimensions = %+v, want {36 36}", a.Dimensions)
	}

	e := g.Edges["ea_b"]
	if e == nil {
		t.Fatal("edge ea_b missing")
	}
	if e.Weight != 2 {
		t.Errorf("weight = %v, want 2", e.Weight)
	}
}

func TestDOTImportCluster(t *testing.T) {
	src := `digraph G {
  subgraph cluster_backend {
    label = "Backend";
    api;
    db;
  }
  web -> api;
  api -> db;
}`
	g, err := Import(strings.NewReader(src), FormatDOT)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}

	if g.Nodes["backend"] == nil {
		t.Fatal("compound node backend missing")
	}
	if got := g.Nodes["backend"].Metadata["label"]; got != "Backend" {
		t.Errorf("cluster label = %q, want Backend", got)
	}
	for _, id := range []string{"api", "db"} {
		if p := g.Nodes[id].Parent; p != "backend" {
			t.Errorf("node %s parent = %q, want backend", id, p)
		}
	}
	if p := g.Nodes["web"].Parent; p != "" {
		t.Errorf("web parent = %q, want root", p)
	}
	if !g.IsCompound("backend") {
		t.Error("backend not recognized as compound")
	}
}

func TestDOTImportPinnedPosition(t *testing.T) {
	src := `digraph G { a [pos="5,6!"]; }`
	g, err := Import(strings.NewReader(src), FormatDOT)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	a := g.Nodes["a"]
	if !a.Locked {
		t.Error("pinned pos did not lock the node")
	}
	if a.Position == nil || a.Position.X != 5 || a.Position.Y != 6 {
		t.Errorf("position = %+v, want {5 6}", a.Position)
	}
}

func TestDOTImportEdgeChain(t *testing.T) {
	src := `digraph G { a -> b -> c; }`
	g, err := Import(strings.NewReader(src), FormatDOT)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Fatalf("got %d edges, want 2", g.EdgeCount())
	}
	for _, id := range []string{"ea_b", "eb_c"} {
		if g.Edges[id] == nil {
			t.Errorf("edge %s missing", id)
		}
	}
}

func TestDOTImportRepeatedEdges(t *testing.T) {
	src := `digraph G { a -> b; a -> b; }`
	g, err := Import(strings.NewReader(src), FormatDOT)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if g.Edges["ea_b"] == nil || g.Edges["ea_b_1"] == nil {
		t.Errorf("repeated edge ids = %v", g.EdgeIDs())
	}
}

func TestDOTImportUndirected(t *testing.T) {
	src := `graph G { a -- b; }`
	g, err := Import(strings.NewReader(src), FormatDOT)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if g.Edges["ea_b"] == nil {
		t.Error("undirected edge missing")
	}
}

func TestDOTImportGarbage(t *testing.T) {
	_, err := Import(strings.NewReader("this is not dot"), FormatDOT)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestDOTExport(t *testing.T) {
	g := graph.New()
	for _, n := range []*graph.Node{
		{ID: "grp", Metadata: map[string]string{"label": "Group"}},
		{ID: "a", Parent: "grp", Position: &graph.Position{X: 10, Y: 20}, Locked: true},
		{ID: "b"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(&graph.Edge{ID: "e1", Source: "a", Target: "b", Weight: 2}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Export(g, &buf, FormatDOT); err != nil {
		t.Fatalf("Export(): %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`subgraph "cluster_grp" {`,
		`label="Group";`,
		`pos="10,20!"`,
		`"a" -> "b" [weight=2];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDOTRoundTrip(t *testing.T) {
	g := graph.New()
	for _, n := range []*graph.Node{
		{ID: "grp"},
		{ID: "a", Parent: "grp", Position: &graph.Position{X: 1, Y: 2}, Dimensions: &graph.Dimensions{W: 30, H: 40}},
		{ID: "b"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(&graph.Edge{ID: "e1", Source: "a", Target: "b", Weight: 0.5}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Export(g, &buf, FormatDOT); err != nil {
		t.Fatalf("Export(): %v", err)
	}
	back, err := Import(&buf, FormatDOT)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}

	a := back.Nodes["a"]
	if a == nil || a.Parent != "grp" {
		t.Fatalf("node a = %+v, want parent grp", a)
	}
	if a.Position == nil || a.Position.X != 1 || a.Position.Y != 2 {
		t.Errorf("position = %+v, want {1 2}", a.Position)
	}
	// Sizes pass through inches and may pick up rounding.
	if a.Dimensions == nil || math.Abs(a.Dimensions.W-30) > 0.01 || math.Abs(a.Dimensions.H-40) > 0.01 {
		t.Errorf("dimensions = %+v, want about {30 40}", a.Dimensions)
	}
	var weight float64
	for _, id := range back.EdgeIDs() {
		weight = back.Edges[id].Weight
	}
	if weight != 0.5 {
		t.Errorf("weight = %v, want 0.5", weight)
	}
}
