package fcose

import (
	"context"
	"io"
	"math/rand/v2"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/geo"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// Engine runs the force-directed compound layout. A zero-value Engine is
// not usable; construct one with New.
type Engine struct {
	Opts layout.FcoseOptions

	// Logger receives debug-level progress. Defaults to a discard logger so
	// library use stays quiet.
	Logger *log.Logger
}

// New returns an Engine for the given options. The options are validated
// on Apply, not here, so callers can build engines before filling them in.
func New(opts layout.FcoseOptions) *Engine {
	return &Engine{
		Opts:   opts,
		Logger: log.New(io.Discard),
	}
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.New(io.Discard)
}

// Apply positions every node of g in place and reports how the run went.
// On any error the graph is left exactly as it was: all validation happens
// before the first mutation, and simulation works on a private copy of the
// positions that is only committed on success.
func (e *Engine) Apply(ctx context.Context, g *graph.Graph) (layout.Result, error) {
	start := time.Now()

	if err := e.Opts.Validate(); err != nil {
		return layout.Result{}, err
	}
	if err := g.Validate(); err != nil {
		return layout.Result{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph validation failed")
	}
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		if n.Locked && n.Position == nil {
			return layout.Result{}, errors.New(errors.ErrCodeMissingPosition,
				"locked node %q has no position", id)
		}
	}

	result := layout.Result{Converged: true, OverlapResolved: true}
	if g.NodeCount() == 0 {
		result.Elapsed = time.Since(start)
		return result, nil
	}

	comps := splitComponents(g)

	var deadline time.Time
	if e.Opts.TimeBudgetMS > 0 {
		deadline = start.Add(time.Duration(e.Opts.TimeBudgetMS) * time.Millisecond)
	}

	// Components share no state, so they simulate in parallel. Each one
	// gets a seed derived from its ordinal, which keeps the output
	// identical to a sequential run.
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, comp := range comps {
		eg.Go(func() error {
			return comp.layout(gctx, g, &e.Opts, e.Opts.Seed+uint64(i), deadline)
		})
	}
	if err := eg.Wait(); err != nil {
		return layout.Result{}, err
	}

	tileComponents(comps, e.Opts.Base.Padding)

	for _, comp := range comps {
		comp.commit(g)
		result.Merge(comp.result)
	}
	result.Elapsed = time.Since(start)

	e.logger().Debug("fcose layout finished",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"components", result.Components,
		"iterations", result.Iterations,
		"converged", result.Converged,
		"elapsed", result.Elapsed)
	return result, nil
}

// component is an edge-connected set of root subtrees. Each component is
// laid out in its own coordinate frame and tiled against the others
// afterwards.
type component struct {
	key   string   // smallest root id, used for stable ordering
	roots []string // root node ids, sorted
	nodes []string // every node id in the component, sorted
	edges []string // edge ids with both endpoints inside, sorted

	// anchored marks components holding a locked node. The tiler must not
	// translate them.
	anchored bool

	pos    map[string]geo.Point // current center per node
	boxes  map[string]geo.Rect  // derived box per compound, padding included
	bbox   geo.Rect
	result layout.Result
}

// splitComponents groups the graph into edge-connected components. A
// compound subtree is atomic: all nodes under one root belong to the
// root's component, and roots merge only when an edge connects their
// subtrees.
func splitComponents(g *graph.Graph) []*component {
	rootOf := make(map[string]string, len(g.Nodes))
	for _, id := range g.NodeIDs() {
		cur := id
		for g.Nodes[cur].Parent != "" {
			cur = g.Nodes[cur].Parent
		}
		rootOf[id] = cur
	}

	parent := make(map[string]string)
	for _, r := range g.Roots() {
		parent[r] = r
	}
	var find func(string) string
	find = func(x string) string {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, eid := range g.EdgeIDs() {
		e := g.Edges[eid]
		a, b := find(rootOf[e.Source]), find(rootOf[e.Target])
		if a != b {
			// Deterministic union: the smaller id becomes the set leader.
			if a > b {
				a, b = b, a
			}
			parent[b] = a
		}
	}

	byLeader := make(map[string]*component)
	for _, r := range g.Roots() {
		leader := find(r)
		c := byLeader[leader]
		if c == nil {
			c = &component{key: leader}
			byLeader[leader] = c
		}
		c.roots = append(c.roots, r)
	}

	for _, id := range g.NodeIDs() {
		c := byLeader[find(rootOf[id])]
		c.nodes = append(c.nodes, id)
		if g.Nodes[id].Locked {
			c.anchored = true
		}
	}
	for _, eid := range g.EdgeIDs() {
		c := byLeader[find(rootOf[g.Edges[eid].Source])]
		c.edges = append(c.edges, eid)
	}

	comps := make([]*component, 0, len(byLeader))
	for _, c := range byLeader {
		comps = append(comps, c)
	}
	slices.SortFunc(comps, func(a, b *component) int {
		return strings.Compare(a.key, b.key)
	})
	return comps
}

// layout runs the full pipeline for one component: every compound scope
// deepest first, the root scope last, each scope simulated and then
// overlap-resolved.
func (c *component) layout(ctx context.Context, g *graph.Graph, opts *layout.FcoseOptions, seed uint64, deadline time.Time) error {
	c.pos = make(map[string]geo.Point, len(c.nodes))
	c.boxes = make(map[string]geo.Rect)
	for _, id := range c.nodes {
		if p := g.Nodes[id].Position; p != nil {
			c.pos[id] = geo.Point{X: p.X, Y: p.Y}
		}
	}
	c.result = layout.Result{Converged: true, OverlapResolved: true, Components: 1}

	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	for _, parent := range c.scopeOrder(g) {
		if err := c.layoutScope(ctx, g, parent, opts, rng, deadline); err != nil {
			return err
		}
	}

	c.bbox = c.computeBBox(g)
	return nil
}

// computeBBox returns the extent of the component's root-level boxes.
func (c *component) computeBBox(g *graph.Graph) geo.Rect {
	box := c.nodeBox(g, c.roots[0])
	for _, r := range c.roots[1:] {
		box = box.Union(c.nodeBox(g, r))
	}
	return box
}

// nodeBox returns the current box of a node: the derived box for
// compounds, otherwise the dimensioned (or point) box around its center.
func (c *component) nodeBox(g *graph.Graph, id string) geo.Rect {
	if b, ok := c.boxes[id]; ok {
		return b
	}
	n := g.Nodes[id]
	var size geo.Size
	if n.Dimensions != nil {
		size = geo.Size{W: n.Dimensions.W, H: n.Dimensions.H}
	}
	return geo.RectAround(c.pos[id], size)
}

// translate rigidly shifts the whole component.
func (c *component) translate(delta geo.Point) {
	if delta == (geo.Point{}) {
		return
	}
	for id, p := range c.pos {
		c.pos[id] = p.Add(delta)
	}
	for id, b := range c.boxes {
		c.boxes[id] = b.Translate(delta)
	}
	c.bbox = c.bbox.Translate(delta)
}

// commit writes the component's final positions into the graph. Locked
// nodes are skipped: they never moved and keep their original values.
func (c *component) commit(g *graph.Graph) {
	for _, id := range c.nodes {
		n := g.Nodes[id]
		if n.Locked {
			continue
		}
		p := c.pos[id]
		n.Position = &graph.Position{X: p.X, Y: p.Y}
	}
}
