// Package circle places all nodes on a single ring, evenly spaced in id
// order. Nesting is ignored and locked nodes keep their positions.
package circle

import (
	"context"
	"math"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// Engine implements the single-ring layout.
type Engine struct {
	Opts layout.CircleOptions
}

// New returns an Engine for the given options.
func New(opts layout.CircleOptions) *Engine {
	return &Engine{Opts: opts}
}

// Apply positions every unlocked node of g on one ring sized to fit the
// population at the configured spacing.
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

	var free []string
	for _, id := range g.NodeIDs() {
		if !g.Nodes[id].Locked {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return result, nil
	}
	if len(free) == 1 {
		g.Nodes[free[0]].Position = &graph.Position{}
		return result, nil
	}

	var arc float64
	for _, id := range free {
		arc += diagonal(g.Nodes[id]) + e.Opts.Spacing
	}
	radius := arc / (2 * math.Pi)

	step := 2 * math.Pi / float64(len(free))
	for i, id := range free {
		angle := step * float64(i)
		g.Nodes[id].Position = &graph.Position{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}
	return result, nil
}

func diagonal(n *graph.Node) float64 {
	if n.Dimensions == nil {
		return 0
	}
	return math.Hypot(n.Dimensions.W, n.Dimensions.H)
}
