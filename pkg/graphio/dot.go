package graphio

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// Graphviz measures node sizes in inches, positions in points.
const dotPointsPerInch = 72.0

// readDOT builds a graph from DOT source. Graphviz validates the syntax
// first, so malformed input fails with its parser's message; the attribute
// walk below then extracts the subset of the language this schema can
// hold: nodes, edges, cluster nesting, pos/width/height and plain
// string attributes.
func readDOT(data []byte) (*graph.Graph, error) {
	parsed, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse dot")
	}
	defer parsed.Close()

	g, err := parseDOT(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse dot")
	}
	return g, nil
}

type dotParser struct {
	toks    []dotToken
	i       int
	g       *graph.Graph
	edgeSeq map[string]int
}

func parseDOT(src string) (*graph.Graph, error) {
	toks, err := scanDOT(src)
	if err != nil {
		return nil, err
	}
	p := &dotParser{toks: toks, g: graph.New(), edgeSeq: map[string]int{}}

	if t := p.peek(); t != nil && t.kind == tokAtom && strings.EqualFold(t.text, "strict") {
		p.next()
	}
	t := p.next()
	if t == nil || t.kind != tokAtom ||
		!(strings.EqualFold(t.text, "digraph") || strings.EqualFold(t.text, "graph")) {
		return nil, fmt.Errorf("expected graph or digraph header")
	}
	if nt := p.peek(); nt != nil && nt.kind == tokAtom {
		p.next()
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if err := p.body(""); err != nil {
		return nil, err
	}
	return p.g, nil
}

func (p *dotParser) peek() *dotToken {
	if p.i < len(p.toks) {
		return &p.toks[p.i]
	}
	return nil
}

func (p *dotParser) next() *dotToken {
	t := p.peek()
	if t != nil {
		p.i++
	}
	return t
}

func (p *dotParser) acceptPunct(text string) bool {
	if t := p.peek(); t != nil && t.kind == tokPunct && t.text == text {
		p.i++
		return true
	}
	return false
}

func (p *dotParser) expectPunct(text string) error {
	if !p.acceptPunct(text) {
		if t := p.peek(); t != nil {
			return fmt.Errorf("expected %q, found %q", text, t.text)
		}
		return fmt.Errorf("expected %q, found end of input", text)
	}
	return nil
}

// body consumes statements until the scope's closing brace. parent is the
// compound node owning this scope, or "" at the top level.
func (p *dotParser) body(parent string) error {
	for {
		t := p.peek()
		switch {
		case t == nil:
			return fmt.Errorf("unexpected end of input")
		case t.kind == tokPunct && t.text == "}":
			p.next()
			return nil
		case t.kind == tokPunct && (t.text == ";" || t.text == ","):
			p.next()
		case t.kind == tokPunct && t.text == "{":
			p.next()
			if err := p.body(parent); err != nil {
				return err
			}
		case t.kind == tokAtom && strings.EqualFold(t.text, "subgraph"):
			if err := p.subgraph(parent); err != nil {
				return err
			}
		case t.kind == tokAtom && p.isDefaultsStmt(t.text):
			p.next()
			if _, err := p.parseAttrs(); err != nil {
				return err
			}
		case t.kind == tokAtom:
			if err := p.nodeOrEdgeStmt(t.text, parent); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected token %q", t.text)
		}
	}
}

// isDefaultsStmt reports whether the upcoming statement sets node/edge/graph
// defaults ("node [shape=box]" and friends), which carry nothing this
// schema keeps.
func (p *dotParser) isDefaultsStmt(word string) bool {
	switch strings.ToLower(word) {
	case "node", "edge", "graph":
	default:
		return false
	}
	if p.i+1 < len(p.toks) {
		nt := p.toks[p.i+1]
		return nt.kind == tokPunct && nt.text == "["
	}
	return false
}

func (p *dotParser) subgraph(parent string) error {
	p.next() // subgraph keyword
	name := ""
	if nt := p.peek(); nt != nil && nt.kind == tokAtom {
		name = nt.text
		p.next()
	}
	if err := p.expectPunct("{"); err != nil {
		return err
	}
	inner := parent
	if cid, ok := clusterID(name); ok {
		if err := p.ensureNode(cid, parent); err != nil {
			return err
		}
		inner = cid
	}
	return p.body(inner)
}

// clusterID maps a Graphviz cluster name to a compound node id. Any
// subgraph whose name starts with "cluster" nests its members.
func clusterID(name string) (string, bool) {
	if !strings.HasPrefix(name, "cluster") {
		return "", false
	}
	id := strings.TrimPrefix(strings.TrimPrefix(name, "cluster"), "_")
	if id == "" {
		id = name
	}
	return id, true
}

func (p *dotParser) nodeOrEdgeStmt(first string, parent string) error {
	p.next()

	// name = value at statement level is a graph attribute. Inside a
	// cluster, the label names the compound node.
	if p.acceptPunct("=") {
		vt := p.next()
		if vt == nil || vt.kind != tokAtom {
			return fmt.Errorf("bad value for attribute %q", first)
		}
		if parent != "" && strings.EqualFold(first, "label") {
			p.g.Nodes[parent].Metadata["label"] = vt.text
		}
		return nil
	}
	p.skipPort()

	ids := []string{first}
	for {
		t := p.peek()
		if t == nil || t.kind != tokEdgeOp {
			break
		}
		p.next()
		et := p.next()
		if et == nil || et.kind != tokAtom {
			return fmt.Errorf("edge from %q has no right-hand endpoint", ids[len(ids)-1])
		}
		ids = append(ids, et.text)
		p.skipPort()
	}

	var attrs map[string]string
	if t := p.peek(); t != nil && t.kind == tokPunct && t.text == "[" {
		var err error
		attrs, err = p.parseAttrs()
		if err != nil {
			return err
		}
	}

	for _, id := range ids {
		if err := p.ensureNode(id, parent); err != nil {
			return err
		}
	}
	if len(ids) == 1 {
		p.applyNodeAttrs(ids[0], attrs)
		return nil
	}
	for k := 0; k+1 < len(ids); k++ {
		if err := p.addEdge(ids[k], ids[k+1], attrs); err != nil {
			return err
		}
	}
	return nil
}

// skipPort drops :port and :port:compass suffixes after an endpoint.
func (p *dotParser) skipPort() {
	for p.acceptPunct(":") {
		p.next()
	}
}

// parseAttrs consumes one or more bracketed attribute lists into a single
// map.
func (p *dotParser) parseAttrs() (map[string]string, error) {
	attrs := make(map[string]string)
	for p.acceptPunct("[") {
		for {
			if p.acceptPunct("]") {
				break
			}
			if p.acceptPunct(",") || p.acceptPunct(";") {
				continue
			}
			kt := p.next()
			if kt == nil || kt.kind != tokAtom {
				return nil, fmt.Errorf("bad attribute name in list")
			}
			if err := p.expectPunct("="); err != nil {
				return nil, err
			}
			vt := p.next()
			if vt == nil || vt.kind != tokAtom {
				return nil, fmt.Errorf("bad value for attribute %q", kt.text)
			}
			attrs[kt.text] = vt.text
		}
	}
	return attrs, nil
}

// ensureNode creates the node on first mention. Like Graphviz, the scope
// of the first mention decides the parent for good.
func (p *dotParser) ensureNode(id string, parent string) error {
	if p.g.Node(id) != nil {
		return nil
	}
	return p.g.AddNode(&graph.Node{ID: id, Parent: parent})
}

func (p *dotParser) applyNodeAttrs(id string, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	n := p.g.Nodes[id]
	var w, h float64
	var wok, hok bool
	for k, v := range attrs {
		switch strings.ToLower(k) {
		case "pos":
			pinned := strings.HasSuffix(v, "!")
			if x, y, ok := parseDotPos(strings.TrimSuffix(v, "!")); ok {
				n.Position = &graph.Position{X: x, Y: y}
				if pinned {
					n.Locked = true
				}
			}
		case "width":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				w, wok = f*dotPointsPerInch, true
			}
		case "height":
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				h, hok = f*dotPointsPerInch, true
			}
		default:
			n.Metadata[k] = v
		}
	}
	if wok && hok {
		n.Dimensions = &graph.Dimensions{W: w, H: h}
	}
}

func parseDotPos(v string) (float64, float64, bool) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

// addEdge inserts one edge of a chain. Ids follow the e<source>_<target>
// convention with an ordinal suffix for repeats.
func (p *dotParser) addEdge(source, target string, attrs map[string]string) error {
	base := fmt.Sprintf("e%s_%s", source, target)
	id := base
	if seq := p.edgeSeq[base]; seq > 0 {
		id = fmt.Sprintf("%s_%d", base, seq)
	}
	p.edgeSeq[base]++

	e := &graph.Edge{ID: id, Source: source, Target: target, Weight: 1, Metadata: map[string]string{}}
	for k, v := range attrs {
		if strings.EqualFold(k, "weight") {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
				e.Weight = f
				continue
			}
		}
		e.Metadata[k] = v
	}
	return p.g.AddEdge(e)
}

// === Export ===

// writeDOT emits the graph as DOT: clusters for compounds, pos/width/height
// for geometry, a "!" pin for locked nodes. Output order is sorted and
// stable.
func writeDOT(g *graph.Graph, w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")

	var emit func(parent, indent string)
	emit = func(parent, indent string) {
		for _, id := range g.Children(parent) {
			n := g.Nodes[id]
			if g.IsCompound(id) {
				fmt.Fprintf(&buf, "%ssubgraph %q {\n", indent, "cluster_"+id)
				if label, ok := n.Metadata["label"]; ok {
					fmt.Fprintf(&buf, "%s  label=%q;\n", indent, label)
				}
				emit(id, indent+"  ")
				fmt.Fprintf(&buf, "%s}\n", indent)
				continue
			}
			fmt.Fprintf(&buf, "%s%q%s;\n", indent, id, fmtDotAttrs(n))
		}
	}
	emit("", "  ")

	if g.EdgeCount() > 0 {
		buf.WriteString("\n")
	}
	for _, id := range g.EdgeIDs() {
		e := g.Edges[id]
		if e.Weight != 1 {
			fmt.Fprintf(&buf, "  %q -> %q [weight=%s];\n", e.Source, e.Target, fmtFloat(e.Weight))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write dot")
	}
	return nil
}

func fmtDotAttrs(n *graph.Node) string {
	var attrs []string
	if label, ok := n.Metadata["label"]; ok {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if n.Position != nil {
		pin := ""
		if n.Locked {
			pin = "!"
		}
		attrs = append(attrs, fmt.Sprintf("pos=%q", fmt.Sprintf("%s,%s%s",
			fmtFloat(n.Position.X), fmtFloat(n.Position.Y), pin)))
	}
	if n.Dimensions != nil {
		attrs = append(attrs,
			fmt.Sprintf("width=%q", fmtFloat(n.Dimensions.W/dotPointsPerInch)),
			fmt.Sprintf("height=%q", fmtFloat(n.Dimensions.H/dotPointsPerInch)))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Metadata)) {
		if k == "label" {
			continue
		}
		attrs = append(attrs, fmt.Sprintf("%s=%q", k, n.Metadata[k]))
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}
