// Package concentric places nodes on rings around the origin, the most
// connected nodes innermost. Nesting is ignored: the graph is treated as
// flat, and locked nodes keep their positions.
package concentric

import (
	"context"
	"math"
	"slices"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// Engine implements the concentric-rings layout.
type Engine struct {
	Opts layout.ConcentricOptions
}

// New returns an Engine for the given options.
func New(opts layout.ConcentricOptions) *Engine {
	return &Engine{Opts: opts}
}

// Apply positions every unlocked node of g in place. Rings are built from
// distinct degree values, highest degree innermost, and each ring is wide
// enough for its population at the configured spacing.
func (e *Engine) Apply(ctx context.Context, g *graph.Graph) (layout.Result, error) {
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
	select {
	case <-ctx.Done():
		return layout.Result{}, errors.Wrap(errors.ErrCodeCancelled, ctx.Err(), "layout cancelled")
	default:
	}

	result := layout.Result{Converged: true, OverlapResolved: true}
	if g.NodeCount() == 0 {
		return result, nil
	}
	result.Components = 1

	degrees := nodeDegrees(g)

	// One ring per distinct degree value, descending: hubs sit inside.
	var free []string
	for _, id := range g.NodeIDs() {
		if !g.Nodes[id].Locked {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return result, nil
	}
	var values []int
	seen := make(map[int]bool)
	for _, id := range free {
		if d := degrees[id]; !seen[d] {
			seen[d] = true
			values = append(values, d)
		}
	}
	slices.SortFunc(values, func(a, b int) int { return b - a })

	rings := make([][]string, len(values))
	level := make(map[int]int, len(values))
	for i, v := range values {
		level[v] = i
	}
	for _, id := range free {
		l := level[degrees[id]]
		rings[l] = append(rings[l], id)
	}

	radius := 0.0
	for i, ring := range rings {
		need := ringRadius(g, ring, e.Opts.MinNodeSpacing)
		switch {
		case i == 0 && len(ring) == 1:
			radius = 0
		case i == 0:
			radius = need
		default:
			radius = max(radius+e.Opts.LevelWidth, need)
		}
		placeRing(g, ring, radius)
	}
	return result, nil
}

// nodeDegrees counts incident edges per node; every parallel edge counts.
func nodeDegrees(g *graph.Graph) map[string]int {
	out := make(map[string]int, len(g.Nodes))
	for _, id := range g.NodeIDs() {
		out[id] = 0
	}
	for _, eid := range g.EdgeIDs() {
		e := g.Edges[eid]
		out[e.Source]++
		out[e.Target]++
	}
	return out
}

// ringRadius returns the radius needed to hold the ring's nodes at the
// given arc spacing.
func ringRadius(g *graph.Graph, ring []string, spacing float64) float64 {
	if len(ring) < 2 {
		return 0
	}
	var arc float64
	for _, id := range ring {
		arc += nodeDiagonal(g.Nodes[id]) + spacing
	}
	return arc / (2 * math.Pi)
}

func nodeDiagonal(n *graph.Node) float64 {
	if n.Dimensions == nil {
		return 0
	}
	return math.Hypot(n.Dimensions.W, n.Dimensions.H)
}

// placeRing spreads the ring's nodes evenly, starting at angle zero.
func placeRing(g *graph.Graph, ring []string, radius float64) {
	step := 2 * math.Pi / float64(len(ring))
	for i, id := range ring {
		angle := step * float64(i)
		g.Nodes[id].Position = &graph.Position{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}
}
