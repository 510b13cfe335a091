package layout

import (
	"fmt"
	"time"
)

// Result reports what a layout run did. Engines return it alongside the
// positioned graph so callers can surface convergence and timing without
// re-deriving them.
type Result struct {
	// Converged is true when the simulation settled below its displacement
	// threshold before exhausting the iteration budget. Non-iterative
	// engines always converge.
	Converged bool `json:"converged" bson:"converged"`

	// Iterations is the number of simulation iterations actually run,
	// summed over components.
	Iterations int `json:"iterations" bson:"iterations"`

	// Components is the number of disconnected components laid out.
	Components int `json:"components" bson:"components"`

	// MaxDisplacement is the largest per-node movement observed in the
	// final iteration, a proxy for how settled the layout is.
	MaxDisplacement float64 `json:"max_displacement" bson:"max_displacement"`

	// OverlapResolved is false when the overlap resolver hit its sweep cap
	// with overlaps still present.
	OverlapResolved bool `json:"overlap_resolved" bson:"overlap_resolved"`

	// Elapsed is the wall-clock time the run took.
	Elapsed time.Duration `json:"-" bson:"-"`
}

// String renders a one-line summary for logs and CLI output.
func (r Result) String() string {
	state := "converged"
	if !r.Converged {
		state = "exhausted budget"
	}
	return fmt.Sprintf("%s after %d iterations (%d components, max displacement %.3f) in %s",
		state, r.Iterations, r.Components, r.MaxDisplacement, r.Elapsed.Round(time.Millisecond))
}

// Merge folds a per-component result into an aggregate. Convergence and
// overlap resolution are AND-ed; iterations sum; displacement takes the
// maximum.
func (r *Result) Merge(other Result) {
	r.Converged = r.Converged && other.Converged
	r.Iterations += other.Iterations
	r.Components += other.Components
	r.MaxDisplacement = max(r.MaxDisplacement, other.MaxDisplacement)
	r.OverlapResolved = r.OverlapResolved && other.OverlapResolved
}
