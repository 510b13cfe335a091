package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] when the edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists. Edge IDs must be unique.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrDanglingEdge is returned by [Graph.AddEdge] and [Graph.Validate]
	// when an edge references a node that does not exist.
	ErrDanglingEdge = errors.New("edge references unknown node")

	// ErrNegativeWeight is returned by [Graph.AddEdge] and [Graph.Validate]
	// when an edge carries a negative weight. Weights scale attraction and
	// must be non-negative.
	ErrNegativeWeight = errors.New("edge weight must be non-negative")

	// ErrUnknownParent is returned by [Graph.Validate] when a node's parent
	// link references a node that does not exist.
	ErrUnknownParent = errors.New("parent references unknown node")

	// ErrCompoundCycle is returned by [Graph.Validate] when the parent links
	// do not form a forest: a node is its own ancestor.
	ErrCompoundCycle = errors.New("compound nesting contains a cycle")
)

// Graph maps node ids to nodes and edge ids to edges. Insertion order is
// irrelevant; all deterministic iteration goes through [Graph.NodeIDs] and
// [Graph.EdgeIDs].
type Graph struct {
	Nodes map[string]*Node `json:"nodes" bson:"nodes"`
	Edges map[string]*Edge `json:"edges" bson:"edges"`
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: make(map[string]*Edge),
	}
}

// AddNode inserts a node. The node's Metadata map is initialized if nil.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.Nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Metadata == nil {
		n.Metadata = make(map[string]string)
	}
	g.Nodes[n.ID] = n
	return nil
}

// AddEdge inserts an edge. Both endpoints must already exist and the weight
// must be non-negative. A zero-valued Weight is taken literally; use 1 for
// the default attraction scale.
func (g *Graph) AddEdge(e *Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := g.Edges[e.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEdgeID, e.ID)
	}
	if _, ok := g.Nodes[e.Source]; !ok {
		return fmt.Errorf("%w: source %s", ErrDanglingEdge, e.Source)
	}
	if _, ok := g.Nodes[e.Target]; !ok {
		return fmt.Errorf("%w: target %s", ErrDanglingEdge, e.Target)
	}
	if e.Weight < 0 {
		return fmt.Errorf("%w: %s has weight %v", ErrNegativeWeight, e.ID, e.Weight)
	}
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	g.Edges[e.ID] = e
	return nil
}

// RemoveNode deletes a node, its incident edges, and re-parents its children
// to the removed node's parent. Removing an unknown id is a no-op.
func (g *Graph) RemoveNode(id string) {
	n, ok := g.Nodes[id]
	if !ok {
		return
	}
	for eid, e := range g.Edges {
		if e.Source == id || e.Target == id {
			delete(g.Edges, eid)
		}
	}
	for _, child := range g.Nodes {
		if child.Parent == id {
			child.Parent = n.Parent
		}
	}
	delete(g.Nodes, id)
}

// RemoveEdge deletes an edge. Removing an unknown id is a no-op.
func (g *Graph) RemoveEdge(id string) {
	delete(g.Edges, id)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node { return g.Nodes[id] }

// Edge returns the edge with the given id, or nil.
func (g *Graph) Edge(id string) *Edge { return g.Edges[id] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// NodeIDs returns all node ids in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EdgeIDs returns all edge ids in sorted order.
func (g *Graph) EdgeIDs() []string {
	ids := make([]string, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns a deep copy of the graph. Mutating the copy never affects
// the original.
func (g *Graph) Clone() *Graph {
	c := New()
	for id, n := range g.Nodes {
		c.Nodes[id] = n.Clone()
	}
	for id, e := range g.Edges {
		c.Edges[id] = e.Clone()
	}
	return c
}

// =============================================================================
// Compound Helpers
// =============================================================================

// Children returns the ids of the direct children of id, sorted.
func (g *Graph) Children(id string) []string {
	var out []string
	for nid, n := range g.Nodes {
		if n.Parent == id {
			out = append(out, nid)
		}
	}
	slices.Sort(out)
	return out
}

// IsCompound reports whether id has at least one child.
func (g *Graph) IsCompound(id string) bool {
	for _, n := range g.Nodes {
		if n.Parent == id {
			return true
		}
	}
	return false
}

// Roots returns the ids of all nodes without a parent, sorted.
func (g *Graph) Roots() []string {
	var out []string
	for id, n := range g.Nodes {
		if n.Parent == "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Depth returns the nesting depth of id: 0 for root-scope nodes, 1 for their
// children, and so on. Unknown ids report 0. Depth assumes the graph has
// passed [Graph.Validate]; a cyclic parent chain would loop forever otherwise.
func (g *Graph) Depth(id string) int {
	d := 0
	n := g.Nodes[id]
	for n != nil && n.Parent != "" {
		d++
		n = g.Nodes[n.Parent]
	}
	return d
}

// Ancestors returns the chain of ancestor ids from id's parent up to its
// root, nearest first.
func (g *Graph) Ancestors(id string) []string {
	var out []string
	n := g.Nodes[id]
	for n != nil && n.Parent != "" {
		out = append(out, n.Parent)
		n = g.Nodes[n.Parent]
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks structural integrity: every edge endpoint exists, weights
// are non-negative, every parent link resolves, and the parent links form a
// forest. It reports the first violation found, with the offending id in the
// message.
func (g *Graph) Validate() error {
	for _, eid := range g.EdgeIDs() {
		e := g.Edges[eid]
		if _, ok := g.Nodes[e.Source]; !ok {
			return fmt.Errorf("edge %s: %w: source %s", eid, ErrDanglingEdge, e.Source)
		}
		if _, ok := g.Nodes[e.Target]; !ok {
			return fmt.Errorf("edge %s: %w: target %s", eid, ErrDanglingEdge, e.Target)
		}
		if e.Weight < 0 {
			return fmt.Errorf("edge %s: %w: %v", eid, ErrNegativeWeight, e.Weight)
		}
	}

	for _, nid := range g.NodeIDs() {
		n := g.Nodes[nid]
		if n.Parent == "" {
			continue
		}
		if _, ok := g.Nodes[n.Parent]; !ok {
			return fmt.Errorf("node %s: %w: %s", nid, ErrUnknownParent, n.Parent)
		}
		// Walk the parent chain; a chain longer than the node count means
		// some ancestor repeats.
		steps := 0
		for cur := n.Parent; cur != ""; cur = g.Nodes[cur].Parent {
			if cur == nid {
				return fmt.Errorf("node %s: %w", nid, ErrCompoundCycle)
			}
			steps++
			if steps > len(g.Nodes) {
				return fmt.Errorf("node %s: %w", nid, ErrCompoundCycle)
			}
			if _, ok := g.Nodes[cur]; !ok {
				return fmt.Errorf("node %s: %w: %s", nid, ErrUnknownParent, cur)
			}
		}
	}

	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// UnmarshalJSON decodes the id-keyed wire format, filling each node's and
// edge's ID field from its map key. An object carrying an id that disagrees
// with its key is rejected.
func (g *Graph) UnmarshalJSON(data []byte) error {
	type wire Graph
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Nodes == nil {
		w.Nodes = make(map[string]*Node)
	}
	if w.Edges == nil {
		w.Edges = make(map[string]*Edge)
	}
	for id, n := range w.Nodes {
		if n == nil {
			return fmt.Errorf("node %s: null entry", id)
		}
		if n.ID == "" {
			n.ID = id
		} else if n.ID != id {
			return fmt.Errorf("node %s: id field %q disagrees with key", id, n.ID)
		}
		if n.Metadata == nil {
			n.Metadata = make(map[string]string)
		}
	}
	for id, e := range w.Edges {
		if e == nil {
			return fmt.Errorf("edge %s: null entry", id)
		}
		if e.ID == "" {
			e.ID = id
		} else if e.ID != id {
			return fmt.Errorf("edge %s: id field %q disagrees with key", id, e.ID)
		}
		if e.Metadata == nil {
			e.Metadata = make(map[string]string)
		}
	}
	*g = Graph(w)
	return nil
}

// MarshalGraph serializes a graph to indented JSON.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes a graph from JSON.
func UnmarshalGraph(data []byte) (*Graph, error) {
	g := New()
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	return g, nil
}

// ReadGraph decodes a graph from r.
func ReadGraph(r io.Reader) (*Graph, error) {
	g := New()
	if err := json.NewDecoder(r).Decode(g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return g, nil
}

// WriteGraph encodes a graph as indented JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// ReadGraphFile reads a graph from a JSON file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}
