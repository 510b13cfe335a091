package fcose

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/ocasazza/graphlayouts/pkg/geo"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// unit is one body in a scope simulation: either a plain node or a
// virtual stand-in for a whole compound subtree.
type unit struct {
	id      string
	pos     geo.Point
	size    geo.Size
	hasDims bool
	placed  bool
	locked  bool
	virtual bool
}

// box returns the unit's bounding box around its current center.
func (u *unit) box() geo.Rect {
	return geo.RectAround(u.pos, u.size)
}

// spring is an attraction constraint between two units of one scope,
// lifted from a graph edge whose endpoints live in or under them.
type spring struct {
	a, b   int
	weight float64
}

// scope is one simulation arena: all children of a single parent, with
// compound children collapsed into virtual units. Scopes run deepest
// first, so a virtual unit's box is always final before its parent's
// scope starts.
type scope struct {
	parent  string // "" for the root scope
	units   []*unit
	springs []spring
	index   map[string]int
}

// scopeOrder returns the component's scope parents deepest first and the
// root scope ("") last.
func (c *component) scopeOrder(g *graph.Graph) []string {
	seen := make(map[string]bool)
	var parents []string
	for _, id := range c.nodes {
		if p := g.Nodes[id].Parent; p != "" && !seen[p] {
			seen[p] = true
			parents = append(parents, p)
		}
	}
	slices.SortFunc(parents, func(a, b string) int {
		if da, db := g.Depth(a), g.Depth(b); da != db {
			return db - da
		}
		return strings.Compare(a, b)
	})
	return append(parents, "")
}

// buildScope assembles the units and springs for one scope.
func (c *component) buildScope(g *graph.Graph, parent string) *scope {
	sc := &scope{parent: parent, index: make(map[string]int)}

	for _, id := range c.nodes {
		n := g.Nodes[id]
		if n.Parent != parent {
			continue
		}
		u := &unit{id: id}
		if g.IsCompound(id) {
			box := c.boxes[id]
			u.pos = box.Center()
			u.size = box.Size()
			u.hasDims = true
			u.placed = true
			u.virtual = true
			u.locked = subtreeLocked(g, id)
		} else {
			if p, ok := c.pos[id]; ok {
				u.pos = p
				u.placed = true
			}
			if n.Dimensions != nil {
				u.size = geo.Size{W: n.Dimensions.W, H: n.Dimensions.H}
				u.hasDims = true
			}
			u.locked = n.Locked
		}
		sc.index[id] = len(sc.units)
		sc.units = append(sc.units, u)
	}

	for _, eid := range c.edges {
		e := g.Edges[eid]
		ai, ok := sc.repr(g, e.Source)
		if !ok {
			continue
		}
		bi, ok := sc.repr(g, e.Target)
		if !ok || ai == bi {
			continue
		}
		sc.springs = append(sc.springs, spring{a: ai, b: bi, weight: e.Weight})
	}
	return sc
}

// repr lifts a node to the scope unit that contains it: the node itself
// when it is a member, otherwise its nearest ancestor that is. Reports
// false for nodes outside the scope's subtrees.
func (sc *scope) repr(g *graph.Graph, id string) (int, bool) {
	for cur := id; ; {
		if i, ok := sc.index[cur]; ok {
			return i, true
		}
		n := g.Nodes[cur]
		if n == nil || n.Parent == "" {
			return 0, false
		}
		cur = n.Parent
	}
}

// layoutScope runs the scope's simulation, resolves overlaps, propagates
// unit movement back to the component frame, and derives the parent's
// box.
func (c *component) layoutScope(ctx context.Context, g *graph.Graph, parent string, opts *layout.FcoseOptions, rng *rand.Rand, deadline time.Time) error {
	sc := c.buildScope(g, parent)

	stats, err := simulate(ctx, sc, opts, rng, deadline)
	if err != nil {
		return err
	}
	c.result.Iterations += stats.iterations
	c.result.Converged = c.result.Converged && stats.converged
	c.result.MaxDisplacement = max(c.result.MaxDisplacement, stats.maxDisplacement)

	// Inside a compound, the resolver may not push anything beyond the
	// settled extent: containment beats overlap, leftover overlap is
	// tolerated. The root scope has no such bound.
	var clip *geo.Rect
	if parent != "" {
		region := unionBoxes(sc)
		clip = &region
	}
	if !resolveOverlaps(sc.units, opts.NodeOverlap, clip) {
		c.result.OverlapResolved = false
	}

	for _, u := range sc.units {
		if u.virtual {
			c.moveSubtree(g, u.id, u.pos.Sub(c.boxes[u.id].Center()))
		} else {
			c.pos[u.id] = u.pos
		}
	}

	if parent != "" {
		box := unionBoxes(sc).Expand(opts.Base.Padding)
		pn := g.Nodes[parent]
		if pn.Locked && !descendantLocked(g, parent) {
			// A locked compound keeps its position: the settled interior
			// is translated under it as one piece.
			want := geo.Point{X: pn.Position.X, Y: pn.Position.Y}
			delta := want.Sub(box.Center())
			for _, u := range sc.units {
				c.moveSubtree(g, u.id, delta)
			}
			box = box.Translate(delta)
		}
		c.boxes[parent] = box
		c.pos[parent] = box.Center()
	}
	return nil
}

// unionBoxes returns the extent of every unit box in the scope.
func unionBoxes(sc *scope) geo.Rect {
	box := sc.units[0].box()
	for _, u := range sc.units[1:] {
		box = box.Union(u.box())
	}
	return box
}

// moveSubtree rigidly translates a node and everything nested under it,
// derived boxes included.
func (c *component) moveSubtree(g *graph.Graph, id string, delta geo.Point) {
	if delta == (geo.Point{}) {
		return
	}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p, ok := c.pos[cur]; ok {
			c.pos[cur] = p.Add(delta)
		}
		if b, ok := c.boxes[cur]; ok {
			c.boxes[cur] = b.Translate(delta)
		}
		stack = append(stack, g.Children(cur)...)
	}
}

// subtreeLocked reports whether id or anything under it is locked.
func subtreeLocked(g *graph.Graph, id string) bool {
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.Nodes[cur].Locked {
			return true
		}
		stack = append(stack, g.Children(cur)...)
	}
	return false
}

// descendantLocked reports whether anything strictly under id is locked.
func descendantLocked(g *graph.Graph, id string) bool {
	for _, child := range g.Children(id) {
		if subtreeLocked(g, child) {
			return true
		}
	}
	return false
}

// seedUnits places units that have no position yet, uniformly inside a
// square sized to the scope's population. Placement order follows the
// sorted unit order, so a given generator always produces the same
// arrangement.
func seedUnits(sc *scope, rng *rand.Rand, ideal float64) {
	side := max(initialSpread, math.Sqrt(float64(len(sc.units)))*ideal)
	for _, u := range sc.units {
		if u.placed {
			continue
		}
		u.pos = geo.Point{
			X: (rng.Float64() - 0.5) * side,
			Y: (rng.Float64() - 0.5) * side,
		}
		u.placed = true
	}
}
