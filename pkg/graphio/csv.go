package graphio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// Column names with reserved meaning in CSV node lists. Everything else
// lands in node metadata.
var csvNodeCols = map[string]bool{
	"id": true, "x": true, "y": true,
	"w": true, "h": true, "width": true, "height": true,
	"parent": true, "locked": true,
}

// readCSV sniffs the header row: a source or target column means an edge
// list, anything else is read as a node list.
func readCSV(data []byte) (*graph.Graph, error) {
	rd := csv.NewReader(bytes.NewReader(data))
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true
	records, err := rd.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse csv")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv input is empty")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := cols[h]; !ok {
			cols[h] = i
		}
	}

	if _, ok := cols["source"]; ok {
		return readCSVEdges(header, cols, records[1:])
	}
	if _, ok := cols["target"]; ok {
		return readCSVEdges(header, cols, records[1:])
	}
	return readCSVNodes(header, cols, records[1:])
}

func readCSVNodes(header []string, cols map[string]int, rows [][]string) (*graph.Graph, error) {
	idIdx, ok := cols["id"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv node list needs an id column")
	}

	g := graph.New()
	for i, rec := range rows {
		id := cell(rec, idIdx)
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "csv row %d: empty id", i+2)
		}
		n := &graph.Node{ID: id, Metadata: map[string]string{}}

		if x, xok := cellFloat(rec, cols, "x"); xok {
			if y, yok := cellFloat(rec, cols, "y"); yok {
				n.Position = &graph.Position{X: x, Y: y}
			}
		}
		w, wok := cellFloat(rec, cols, "width")
		if !wok {
			w, wok = cellFloat(rec, cols, "w")
		}
		h, hok := cellFloat(rec, cols, "height")
		if !hok {
			h, hok = cellFloat(rec, cols, "h")
		}
		if wok && hok {
			n.Dimensions = &graph.Dimensions{W: w, H: h}
		}
		if idx, ok := cols["parent"]; ok {
			n.Parent = cell(rec, idx)
		}
		if idx, ok := cols["locked"]; ok {
			if v, err := strconv.ParseBool(cell(rec, idx)); err == nil {
				n.Locked = v
			}
		}
		for j, name := range header {
			if csvNodeCols[name] {
				continue
			}
			if v := cell(rec, j); v != "" {
				n.Metadata[name] = v
			}
		}
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv row %d", i+2)
		}
	}
	return g, nil
}

func readCSVEdges(header []string, cols map[string]int, rows [][]string) (*graph.Graph, error) {
	srcIdx, sok := cols["source"]
	tgtIdx, tok := cols["target"]
	if !sok || !tok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv edge list needs both source and target columns")
	}

	g := graph.New()
	for i, rec := range rows {
		source := cell(rec, srcIdx)
		target := cell(rec, tgtIdx)
		if source == "" || target == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "csv row %d: empty endpoint", i+2)
		}
		for _, nid := range []string{source, target} {
			if g.Node(nid) == nil {
				if err := g.AddNode(&graph.Node{ID: nid}); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv row %d", i+2)
				}
			}
		}

		id := ""
		if idx, ok := cols["id"]; ok {
			id = cell(rec, idx)
		}
		if id == "" {
			id = fmt.Sprintf("e%d", i)
		}
		e := &graph.Edge{ID: id, Source: source, Target: target, Weight: 1, Metadata: map[string]string{}}
		if w, ok := cellFloat(rec, cols, "weight"); ok {
			e.Weight = w
		}
		for j, name := range header {
			switch name {
			case "id", "source", "target", "weight":
				continue
			}
			if v := cell(rec, j); v != "" {
				e.Metadata[name] = v
			}
		}
		if err := g.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "csv row %d", i+2)
		}
	}
	return g, nil
}

// cell returns the trimmed field at idx, or "" when the row is short.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func cellFloat(rec []string, cols map[string]int, name string) (float64, bool) {
	idx, ok := cols[name]
	if !ok {
		return 0, false
	}
	v := cell(rec, idx)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// writeCSV emits the node list: id, geometry, nesting, and one column per
// metadata key seen anywhere in the graph. Edges are not representable in
// a single node table and are dropped.
func writeCSV(g *graph.Graph, w io.Writer) error {
	metaKeys := map[string]bool{}
	for _, n := range g.Nodes {
		for k := range n.Metadata {
			metaKeys[k] = true
		}
	}
	keys := slices.Sorted(maps.Keys(metaKeys))

	cw := csv.NewWriter(w)
	header := append([]string{"id", "x", "y", "width", "height", "parent", "locked"}, keys...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv header")
	}
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		rec := make([]string, 0, len(header))
		rec = append(rec, id)
		if n.Position != nil {
			rec = append(rec, fmtFloat(n.Position.X), fmtFloat(n.Position.Y))
		} else {
			rec = append(rec, "", "")
		}
		if n.Dimensions != nil {
			rec = append(rec, fmtFloat(n.Dimensions.W), fmtFloat(n.Dimensions.H))
		} else {
			rec = append(rec, "", "")
		}
		rec = append(rec, n.Parent)
		if n.Locked {
			rec = append(rec, "true")
		} else {
			rec = append(rec, "")
		}
		for _, k := range keys {
			rec = append(rec, n.Metadata[k])
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "flush csv")
	}
	return nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
