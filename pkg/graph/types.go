package graph

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Position & Dimensions - Wire Primitives
// =============================================================================

// Position is a node center in the plane. It serializes to JSON as a
// two-element array [x, y].
type Position struct {
	X float64 `bson:"x"`
	Y float64 `bson:"y"`
}

// MarshalJSON encodes the position as [x, y].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element [x, y] array.
func (p *Position) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(arr) != 2 {
		return fmt.Errorf("position: expected [x, y], got %d elements", len(arr))
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// Dimensions is a node bounding-box size. It serializes to JSON as a
// two-element array [width, height].
type Dimensions struct {
	W float64 `bson:"w"`
	H float64 `bson:"h"`
}

// MarshalJSON encodes the dimensions as [width, height].
func (d Dimensions) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{d.W, d.H})
}

// UnmarshalJSON decodes a two-element [width, height] array.
func (d *Dimensions) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("dimensions: %w", err)
	}
	if len(arr) != 2 {
		return fmt.Errorf("dimensions: expected [w, h], got %d elements", len(arr))
	}
	d.W, d.H = arr[0], arr[1]
	return nil
}

// =============================================================================
// Node
// =============================================================================

// Node is a vertex in the graph.
//
// Position and Dimensions are optional: a nil Position means "not yet
// placed" (the layout engine will seed one), a nil Dimensions means the node
// is point-sized and skips overlap resolution. Parent links nodes into a
// compound nesting forest; an empty Parent means the node is at the root
// scope. Locked nodes are never displaced by a layout run.
type Node struct {
	ID         string            `json:"id" bson:"id"`
	Position   *Position         `json:"position,omitempty" bson:"position,omitempty"`
	Dimensions *Dimensions       `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Parent     string            `json:"parent,omitempty" bson:"parent,omitempty"`
	Locked     bool              `json:"locked,omitempty" bson:"locked,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	if n.Dimensions != nil {
		d := *n.Dimensions
		c.Dimensions = &d
	}
	if n.Metadata != nil {
		c.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// =============================================================================
// Edge
// =============================================================================

// Edge connects two nodes. Weight scales the attraction force and defaults
// to 1 when absent from the wire format; multi-edges between the same pair
// are permitted and each contributes independently.
type Edge struct {
	ID       string            `json:"id" bson:"id"`
	Source   string            `json:"source" bson:"source"`
	Target   string            `json:"target" bson:"target"`
	Weight   float64           `json:"weight" bson:"weight"`
	Metadata map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// UnmarshalJSON decodes an edge, defaulting an absent weight to 1.
// An explicit weight of 0 is preserved.
func (e *Edge) UnmarshalJSON(data []byte) error {
	type wire struct {
		ID       string            `json:"id"`
		Source   string            `json:"source"`
		Target   string            `json:"target"`
		Weight   *float64          `json:"weight"`
		Metadata map[string]string `json:"metadata"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.ID = w.ID
	e.Source = w.Source
	e.Target = w.Target
	e.Metadata = w.Metadata
	e.Weight = 1
	if w.Weight != nil {
		e.Weight = *w.Weight
	}
	return nil
}

// Clone returns a deep copy of the edge.
func (e *Edge) Clone() *Edge {
	c := *e
	if e.Metadata != nil {
		c.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
