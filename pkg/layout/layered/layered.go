// Package layered assigns nodes to layers by longest path from the
// sources and spreads each layer evenly. Edges point from earlier layers
// to later ones wherever the graph allows it; cycles are tolerated and
// simply stop deepening. Nesting is ignored and locked nodes keep their
// positions.
package layered

import (
	"context"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// Engine implements the layered layout.
type Engine struct {
	Opts layout.LayeredOptions
}

// New returns an Engine for the given options.
func New(opts layout.LayeredOptions) *Engine {
	return &Engine{Opts: opts}
}

// Apply positions every unlocked node of g in place, one row (or column,
// for direction LR) per layer.
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

	layers := assignLayers(g)

	grouped := make(map[int][]string)
	maxLayer := 0
	for _, id := range g.NodeIDs() {
		l := layers[id]
		grouped[l] = append(grouped[l], id)
		maxLayer = max(maxLayer, l)
	}

	for l := 0; l <= maxLayer; l++ {
		e.placeLayer(g, grouped[l], l)
	}
	return result, nil
}

// assignLayers computes the longest-path layer per node by relaxing every
// edge until a fixed point. Passes are capped at the node count, which
// leaves members of a cycle at the depth where the cap found them.
func assignLayers(g *graph.Graph) map[string]int {
	layers := make(map[string]int, len(g.Nodes))
	edgeIDs := g.EdgeIDs()
	for pass := 0; pass < len(g.Nodes); pass++ {
		changed := false
		for _, eid := range edgeIDs {
			e := g.Edges[eid]
			if want := layers[e.Source] + 1; layers[e.Target] < want {
				layers[e.Target] = want
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return layers
}

// placeLayer spreads one layer's unlocked nodes around the layer axis,
// centered on zero.
func (e *Engine) placeLayer(g *graph.Graph, ids []string, level int) {
	var free []string
	for _, id := range ids {
		if !g.Nodes[id].Locked {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return
	}

	horizontal := e.Opts.Direction != layout.DirectionLeftRight

	extent := func(n *graph.Node) float64 {
		if n.Dimensions == nil {
			return 0
		}
		if horizontal {
			return n.Dimensions.W
		}
		return n.Dimensions.H
	}

	var total float64
	for _, id := range free {
		total += extent(g.Nodes[id])
	}
	total += e.Opts.NodeSpacing * float64(len(free)-1)

	cursor := -total / 2
	depth := float64(level) * e.Opts.LayerSpacing
	for _, id := range free {
		n := g.Nodes[id]
		half := extent(n) / 2
		cursor += half
		if horizontal {
			n.Position = &graph.Position{X: cursor, Y: depth}
		} else {
			n.Position = &graph.Position{X: depth, Y: cursor}
		}
		cursor += half + e.Opts.NodeSpacing
	}
}
