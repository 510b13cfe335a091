package pipeline

import (
	"context"
	"encoding/json"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/layout"
	"github.com/ocasazza/graphlayouts/pkg/layout/circle"
	"github.com/ocasazza/graphlayouts/pkg/layout/concentric"
	"github.com/ocasazza/graphlayouts/pkg/layout/fcose"
	"github.com/ocasazza/graphlayouts/pkg/layout/layered"
	"github.com/ocasazza/graphlayouts/pkg/observability"
)

// Apply routes an algorithm selection to its engine and runs it on g,
// mutating node positions in place. This is the single dispatch point for
// all layout execution.
func Apply(ctx context.Context, g *graph.Graph, algo layout.Algorithm) (layout.Result, error) {
	if err := algo.Validate(); err != nil {
		return layout.Result{}, err
	}

	observability.Layout().OnLayoutStart(ctx, algo.Name, len(g.Nodes))

	var res layout.Result
	var err error
	switch algo.Name {
	case layout.AlgorithmFcose:
		res, err = fcose.New(*algo.Fcose).Apply(ctx, g)
	case layout.AlgorithmConcentric:
		res, err = concentric.New(*algo.Concentric).Apply(ctx, g)
	case layout.AlgorithmCircle:
		res, err = circle.New(*algo.Circle).Apply(ctx, g)
	case layout.AlgorithmLayered:
		res, err = layered.New(*algo.Layered).Apply(ctx, g)
	default:
		err = errors.New(errors.ErrCodeInvalidAlgorithm, "unknown layout algorithm: %q", algo.Name)
	}

	observability.Layout().OnLayoutComplete(ctx, algo.Name, res.Converged, res.Elapsed, err)
	return res, err
}

// cachedLayout is the payload stored in the cache for a layout run: the
// computed positions keyed by node id, plus the run summary.
type cachedLayout struct {
	Positions map[string][2]float64 `json:"positions"`
	Result    layout.Result         `json:"result"`
}

// marshalCachedLayout captures the positions currently on g together with
// the layout result.
func marshalCachedLayout(g *graph.Graph, res layout.Result) ([]byte, error) {
	payload := cachedLayout{
		Positions: make(map[string][2]float64, len(g.Nodes)),
		Result:    res,
	}
	for id, n := range g.Nodes {
		if n.Position != nil {
			payload.Positions[id] = [2]float64{n.Position.X, n.Position.Y}
		}
	}
	return json.Marshal(payload)
}

// applyCachedLayout writes cached positions onto g. It reports false when
// the payload cannot be decoded or references a node g no longer has; the
// caller recomputes in that case.
func applyCachedLayout(g *graph.Graph, data []byte) (layout.Result, bool) {
	var payload cachedLayout
	if err := json.Unmarshal(data, &payload); err != nil {
		return layout.Result{}, false
	}
	for id := range payload.Positions {
		if _, ok := g.Nodes[id]; !ok {
			return layout.Result{}, false
		}
	}
	for id, p := range payload.Positions {
		g.Nodes[id].Position = &graph.Position{X: p[0], Y: p[1]}
	}
	return payload.Result, true
}
