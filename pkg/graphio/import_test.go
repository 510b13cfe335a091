package graphio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ocasazza/graphlayouts/pkg/errors"
)

func TestImportNativeJSON(t *testing.T) {
	src := `{
  "nodes": {
    "a": {"id": "a", "position": [1, 2]},
    "b": {"id": "b"}
  },
  "edges": {
    "e": {"id": "e", "source": "a", "target": "b"}
  }
}`
	g, err := Import(strings.NewReader(src), FormatJSON)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("got %d nodes, %d edges, want 2, 1", g.NodeCount(), g.EdgeCount())
	}
	if p := g.Nodes["a"].Position; p == nil || p.X != 1 || p.Y != 2 {
		t.Errorf("position = %+v, want {1 2}", p)
	}
	if w := g.Edges["e"].Weight; w != 1 {
		t.Errorf("default weight = %v, want 1", w)
	}
}

func TestImportArrayJSON(t *testing.T) {
	src := `{
  "nodes": [
    {"id": "a", "label": "Alpha", "x": 10, "y": 20, "tier": "web"},
    {"id": "b"}
  ],
  "edges": [
    {"source": "a", "target": "b", "weight": 3},
    {"id": "ab2", "source": "a", "target": "b"}
  ]
}`
	g, err := Import(strings.NewReader(src), FormatJSON)
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
	if a.Metadata["label"] != "Alpha" {
		t.Errorf("label = %q, want Alpha", a.Metadata["label"])
	}
	if a.Metadata["tier"] != "web" {
		t.Errorf("extra field tier = %q, want web", a.Metadata["tier"])
	}

	// First edge has no id and takes its list position.
	e0 := g.Edges["e0"]
	if e0 == nil {
		t.Fatal("edge e0 missing")
	}
	if e0.Weight != 3 {
		t.Errorf("weight = %v, want 3", e0.Weight)
	}
	if g.Edges["ab2"] == nil {
		t.Error("edge ab2 missing")
	}
}

func TestImportArrayJSONPartialPosition(t *testing.T) {
	// x without y places nothing.
	src := `{"nodes": [{"id": "a", "x": 10}], "edges": []}`
	g, err := Import(strings.NewReader(src), FormatJSON)
	if err != nil {
		t.Fatalf("Import(): %v", err)
	}
	if g.Nodes["a"].Position != nil {
		t.Errorf("position = %+v, want nil", g.Nodes["a"].Position)
	}
}

func TestImportArrayJSONMissingID(t *testing.T) {
	src := `{"nodes": [{"label": "anonymous"}], "edges": []}`
	_, err := Import(strings.NewReader(src), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestImportMalformedJSON(t *testing.T) {
	_, err := Import(strings.NewReader("{nope"), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestImportSVGRejected(t *testing.T) {
	_, err := Import(strings.NewReader("<svg/>"), FormatSVG)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.json")
	src := `{"nodes": {"a": {"id": "a"}}, "edges": {}}`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	g, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile(): %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("got %d nodes, want 1", g.NodeCount())
	}
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeFileNotFound)
	}
}
