package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// Import decodes a graph from r in the given format.
func Import(r io.Reader, format Format) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	switch format {
	case FormatJSON:
		return readJSON(data)
	case FormatCSV:
		return readCSV(data)
	case FormatDOT:
		return readDOT(data)
	case FormatSVG:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "svg is export-only")
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot import format %q", format)
	}
}

// ImportFile reads the file at path, detecting the format from its
// extension.
func ImportFile(path string) (*graph.Graph, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Import(f, format)
}

// readJSON decodes either the native map-shaped codec or the array form
// {"nodes": [...], "edges": [...]}. The shape is sniffed from the first
// byte of the nodes value.
func readJSON(data []byte) (*graph.Graph, error) {
	var probe struct {
		Nodes json.RawMessage `json:"nodes"`
		Edges json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse json graph")
	}
	if isJSONArray(probe.Nodes) {
		return readJSONArrays(probe.Nodes, probe.Edges)
	}
	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse json graph")
	}
	return g, nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
		default:
			return c == '['
		}
	}
	return false
}

func readJSONArrays(nodesRaw, edgesRaw json.RawMessage) (*graph.Graph, error) {
	var nodes []json.RawMessage
	if err := json.Unmarshal(nodesRaw, &nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse node list")
	}
	var edges []json.RawMessage
	if len(edgesRaw) > 0 {
		if err := json.Unmarshal(edgesRaw, &edges); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse edge list")
		}
	}

	g := graph.New()
	for _, raw := range nodes {
		var wn struct {
			ID     string   `json:"id"`
			Label  string   `json:"label"`
			X      *float64 `json:"x"`
			Y      *float64 `json:"y"`
			Width  *float64 `json:"width"`
			Height *float64 `json:"height"`
			Parent string   `json:"parent"`
			Locked bool     `json:"locked"`
		}
		if err := json.Unmarshal(raw, &wn); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse node entry")
		}
		if wn.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node entry missing id")
		}
		n := &graph.Node{ID: wn.ID, Parent: wn.Parent, Locked: wn.Locked, Metadata: map[string]string{}}
		if wn.X != nil && wn.Y != nil {
			n.Position = &graph.Position{X: *wn.X, Y: *wn.Y}
		}
		if wn.Width != nil && wn.Height != nil {
			n.Dimensions = &graph.Dimensions{W: *wn.Width, H: *wn.Height}
		}
		if wn.Label != "" {
			n.Metadata["label"] = wn.Label
		}
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(raw, &fields)
		for k, v := range fields {
			switch k {
			case "id", "label", "x", "y", "width", "height", "parent", "locked":
				continue
			}
			n.Metadata[k] = metaValue(v)
		}
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", wn.ID)
		}
	}

	for i, raw := range edges {
		var we struct {
			ID     string   `json:"id"`
			Source string   `json:"source"`
			Target string   `json:"target"`
			Weight *float64 `json:"weight"`
		}
		if err := json.Unmarshal(raw, &we); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse edge entry")
		}
		id := we.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i)
		}
		e := &graph.Edge{ID: id, Source: we.Source, Target: we.Target, Weight: 1, Metadata: map[string]string{}}
		if we.Weight != nil {
			e.Weight = *we.Weight
		}
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(raw, &fields)
		for k, v := range fields {
			switch k {
			case "id", "source", "target", "weight":
				continue
			}
			e.Metadata[k] = metaValue(v)
		}
		if err := g.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s", id)
		}
	}
	return g, nil
}

// metaValue renders an arbitrary JSON value as a metadata string. Strings
// lose their quotes; everything else keeps its JSON text.
func metaValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
