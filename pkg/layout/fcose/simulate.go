package fcose

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/geo"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// Simulation tuning shared by every scope.
const (
	// damping converts accumulated force into displacement per step.
	damping = 0.1

	// initialTemperature caps the first step's displacement; the cap decays
	// geometrically with the preset's rate.
	initialTemperature = 100.0

	// initialSpread is the minimum side of the square unplaced units are
	// seeded into.
	initialSpread = 100.0

	// minSeparation guards force terms against near-coincident centers.
	minSeparation = 0.1

	// attractionDivisor softens the spring force so attraction does not
	// overpower repulsion in the first steps.
	attractionDivisor = 3.0
)

// preset bundles the knobs a quality level controls. Budgets are sized so
// the cooling schedule crosses the epsilon before the budget runs out,
// which makes a force-saturated simulation terminate in the Converged
// state rather than oscillate.
type preset struct {
	Iterations int
	Decay      float64
	Epsilon    float64
}

var presets = map[string]preset{
	layout.QualityDraft:   {Iterations: 100, Decay: 0.90, Epsilon: 1.0},
	layout.QualityDefault: {Iterations: 300, Decay: 0.95, Epsilon: 0.1},
	layout.QualityProof:   {Iterations: 1000, Decay: 0.99, Epsilon: 0.01},
}

func presetFor(quality string, override int) preset {
	p, ok := presets[quality]
	if !ok {
		p = presets[layout.QualityDefault]
	}
	if override > 0 {
		p.Iterations = override
	}
	return p
}

// simState tracks the driver through its lifecycle.
type simState int

const (
	stateInitializing simState = iota
	stateIterating
	stateConverged
	stateExhausted
)

type simStats struct {
	iterations      int
	converged       bool
	maxDisplacement float64
}

// simulate runs the force loop for one scope until the largest step drops
// below the preset's epsilon, the budget runs out, or the context is
// cancelled. Locked units contribute forces but never move.
func simulate(ctx context.Context, sc *scope, opts *layout.FcoseOptions, rng *rand.Rand, deadline time.Time) (simStats, error) {
	// Initializing: give every unplaced unit a seeded position.
	seedUnits(sc, rng, opts.IdealEdgeLength)

	var stats simStats
	if len(sc.units) < 2 {
		stats.converged = true
		return stats, nil
	}

	pre := presetFor(opts.Base.Quality, opts.Iterations)
	temperature := initialTemperature
	forces := make([]geo.Point, len(sc.units))

	state := stateIterating
	for iter := 0; iter < pre.Iterations && state == stateIterating; iter++ {
		select {
		case <-ctx.Done():
			return stats, errors.Wrap(errors.ErrCodeCancelled, ctx.Err(), "layout cancelled")
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			state = stateExhausted
			break
		}

		accumulateForces(sc, opts, forces)

		maxDisp := 0.0
		for i, u := range sc.units {
			if u.locked {
				continue
			}
			disp := forces[i].Scale(damping).Clamp(temperature)
			u.pos = u.pos.Add(disp)
			maxDisp = max(maxDisp, disp.Len())
		}
		temperature *= pre.Decay
		stats.iterations++
		stats.maxDisplacement = maxDisp

		if maxDisp < pre.Epsilon {
			state = stateConverged
		}
	}
	if state == stateIterating {
		state = stateExhausted
	}
	stats.converged = state == stateConverged
	return stats, nil
}
