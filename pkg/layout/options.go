package layout

import (
	"github.com/ocasazza/graphlayouts/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Quality presets trading speed for layout refinement.
const (
	QualityDraft   = "draft"
	QualityDefault = "default"
	QualityProof   = "proof"
)

// ValidQualities is the set of recognized quality presets.
var ValidQualities = map[string]bool{
	QualityDraft:   true,
	QualityDefault: true,
	QualityProof:   true,
}

// Compute locations. Where a layout request executes is a deployment
// decision carried on the request itself, never derived from the
// environment.
const (
	ComputeLocal  = "local"
	ComputeRemote = "remote"
)

// ValidComputeLocations is the set of recognized compute locations.
var ValidComputeLocations = map[string]bool{
	ComputeLocal:  true,
	ComputeRemote: true,
}

// Default option values shared by CLI, API, and tests.
const (
	DefaultPadding           = 30.0
	DefaultAnimationDuration = 500

	DefaultNodeRepulsion   = 4500.0
	DefaultIdealEdgeLength = 50.0
	DefaultNodeOverlap     = 10.0
	DefaultGravity         = 0.25

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	DefaultMinNodeSpacing = 10.0
	DefaultLevelWidth     = 100.0
	DefaultCircleSpacing  = 10.0
	DefaultLayerSpacing   = 50.0
	DefaultNodeSpacing    = 20.0
)

// =============================================================================
// BaseOptions - Shared by Every Engine
// =============================================================================

// BaseOptions carries settings common to all layout algorithms. The
// animation fields are opaque to the engines and pass through to the
// presentation layer unchanged.
type BaseOptions struct {
	Quality           string  `json:"quality,omitempty" bson:"quality,omitempty"`
	Padding           float64 `json:"padding" bson:"padding"`
	Animate           bool    `json:"animate" bson:"animate"`
	AnimationDuration int     `json:"animation_duration,omitempty" bson:"animation_duration,omitempty"`
	Fit               bool    `json:"fit" bson:"fit"`
	ComputeLocation   string  `json:"compute_location,omitempty" bson:"compute_location,omitempty"`
}

// DefaultBaseOptions returns the base options with all defaults applied.
func DefaultBaseOptions() BaseOptions {
	return BaseOptions{
		Quality:           QualityDefault,
		Padding:           DefaultPadding,
		Animate:           true,
		AnimationDuration: DefaultAnimationDuration,
		Fit:               true,
		ComputeLocation:   ComputeLocal,
	}
}

// Validate checks the base options for out-of-range values.
func (o *BaseOptions) Validate() error {
	if o.Quality != "" && !ValidQualities[o.Quality] {
		return errors.New(errors.ErrCodeInvalidOptions,
			"invalid quality: %q (must be one of: draft, default, proof)", o.Quality)
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "padding must be non-negative, got %v", o.Padding)
	}
	if o.ComputeLocation != "" && !ValidComputeLocations[o.ComputeLocation] {
		return errors.New(errors.ErrCodeInvalidOptions,
			"invalid compute_location: %q (must be local or remote)", o.ComputeLocation)
	}
	return nil
}

// =============================================================================
// FcoseOptions - Force-Directed Compound Engine
// =============================================================================

// FcoseOptions configures the force-directed compound spring embedder.
type FcoseOptions struct {
	Base BaseOptions `json:"base" bson:"base"`

	// NodeRepulsion scales the inverse-square repulsion between node pairs.
	NodeRepulsion float64 `json:"node_repulsion" bson:"node_repulsion"`

	// IdealEdgeLength is the rest length the spring attraction pulls
	// every edge toward.
	IdealEdgeLength float64 `json:"ideal_edge_length" bson:"ideal_edge_length"`

	// NodeOverlap is the percentage of a node's extent allowed to overlap
	// a neighbor after layout, in [0, 100].
	NodeOverlap float64 `json:"node_overlap" bson:"node_overlap"`

	// Gravity pulls nodes toward the centroid of their scope, keeping
	// loosely connected structure from drifting apart.
	Gravity float64 `json:"gravity" bson:"gravity"`

	// Iterations overrides the quality preset's iteration budget when
	// positive.
	Iterations int `json:"iterations,omitempty" bson:"iterations,omitempty"`

	// TimeBudgetMS aborts the simulation after the given wall-clock budget
	// when positive. The best-effort result is still returned.
	TimeBudgetMS int64 `json:"time_budget_ms,omitempty" bson:"time_budget_ms,omitempty"`

	// Seed drives all random placement. Identical graph, options, and seed
	// produce identical layouts.
	Seed uint64 `json:"random_seed" bson:"random_seed"`
}

// DefaultFcoseOptions returns the fcose options with all defaults applied.
func DefaultFcoseOptions() FcoseOptions {
	return FcoseOptions{
		Base:            DefaultBaseOptions(),
		NodeRepulsion:   DefaultNodeRepulsion,
		IdealEdgeLength: DefaultIdealEdgeLength,
		NodeOverlap:     DefaultNodeOverlap,
		Gravity:         DefaultGravity,
		Seed:            DefaultSeed,
	}
}

// Validate checks the engine options for out-of-range values.
func (o *FcoseOptions) Validate() error {
	if err := o.Base.Validate(); err != nil {
		return err
	}
	if o.NodeRepulsion <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "node_repulsion must be positive, got %v", o.NodeRepulsion)
	}
	if o.IdealEdgeLength <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "ideal_edge_length must be positive, got %v", o.IdealEdgeLength)
	}
	if o.NodeOverlap < 0 || o.NodeOverlap > 100 {
		return errors.New(errors.ErrCodeInvalidOptions, "node_overlap must be in [0, 100], got %v", o.NodeOverlap)
	}
	if o.Gravity < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "gravity must be non-negative, got %v", o.Gravity)
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "iterations must be non-negative, got %v", o.Iterations)
	}
	if o.TimeBudgetMS < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "time_budget_ms must be non-negative, got %v", o.TimeBudgetMS)
	}
	return nil
}

// =============================================================================
// ConcentricOptions
// =============================================================================

// ConcentricOptions configures the concentric-rings engine.
type ConcentricOptions struct {
	Base BaseOptions `json:"base" bson:"base"`

	// MinNodeSpacing is the minimum arc distance between neighbors on a ring.
	MinNodeSpacing float64 `json:"min_node_spacing" bson:"min_node_spacing"`

	// ConcentricBy selects the node property that assigns ring levels.
	// Currently "degree" is supported: highly connected nodes sit on inner
	// rings.
	ConcentricBy string `json:"concentric_by" bson:"concentric_by"`

	// LevelWidth is the radial distance between consecutive rings.
	LevelWidth float64 `json:"level_width" bson:"level_width"`
}

// DefaultConcentricOptions returns the concentric options with all defaults
// applied.
func DefaultConcentricOptions() ConcentricOptions {
	return ConcentricOptions{
		Base:           DefaultBaseOptions(),
		MinNodeSpacing: DefaultMinNodeSpacing,
		ConcentricBy:   "degree",
		LevelWidth:     DefaultLevelWidth,
	}
}

// Validate checks the concentric options for out-of-range values.
func (o *ConcentricOptions) Validate() error {
	if err := o.Base.Validate(); err != nil {
		return err
	}
	if o.MinNodeSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "min_node_spacing must be non-negative, got %v", o.MinNodeSpacing)
	}
	if o.ConcentricBy != "" && o.ConcentricBy != "degree" {
		return errors.New(errors.ErrCodeInvalidOptions, "unsupported concentric_by: %q", o.ConcentricBy)
	}
	if o.LevelWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "level_width must be positive, got %v", o.LevelWidth)
	}
	return nil
}

// =============================================================================
// CircleOptions
// =============================================================================

// CircleOptions configures the single-ring engine.
type CircleOptions struct {
	Base BaseOptions `json:"base" bson:"base"`

	// Spacing is the minimum arc distance between neighbors on the ring.
	Spacing float64 `json:"spacing" bson:"spacing"`
}

// DefaultCircleOptions returns the circle options with all defaults applied.
func DefaultCircleOptions() CircleOptions {
	return CircleOptions{
		Base:    DefaultBaseOptions(),
		Spacing: DefaultCircleSpacing,
	}
}

// Validate checks the circle options for out-of-range values.
func (o *CircleOptions) Validate() error {
	if err := o.Base.Validate(); err != nil {
		return err
	}
	if o.Spacing < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "spacing must be non-negative, got %v", o.Spacing)
	}
	return nil
}

// =============================================================================
// LayeredOptions
// =============================================================================

// Layer directions.
const (
	DirectionTopBottom = "TB"
	DirectionLeftRight = "LR"
)

// ValidDirections is the set of recognized layer directions.
var ValidDirections = map[string]bool{
	DirectionTopBottom: true,
	DirectionLeftRight: true,
}

// LayeredOptions configures the layered (hierarchical) engine.
type LayeredOptions struct {
	Base BaseOptions `json:"base" bson:"base"`

	// LayerSpacing is the distance between consecutive layers.
	LayerSpacing float64 `json:"layer_spacing" bson:"layer_spacing"`

	// NodeSpacing is the distance between neighbors within a layer.
	NodeSpacing float64 `json:"node_spacing" bson:"node_spacing"`

	// Direction orients the layers: "TB" (top to bottom) or "LR" (left to
	// right).
	Direction string `json:"direction" bson:"direction"`
}

// DefaultLayeredOptions returns the layered options with all defaults
// applied.
func DefaultLayeredOptions() LayeredOptions {
	return LayeredOptions{
		Base:         DefaultBaseOptions(),
		LayerSpacing: DefaultLayerSpacing,
		NodeSpacing:  DefaultNodeSpacing,
		Direction:    DirectionTopBottom,
	}
}

// Validate checks the layered options for out-of-range values.
func (o *LayeredOptions) Validate() error {
	if err := o.Base.Validate(); err != nil {
		return err
	}
	if o.LayerSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "layer_spacing must be positive, got %v", o.LayerSpacing)
	}
	if o.NodeSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "node_spacing must be non-negative, got %v", o.NodeSpacing)
	}
	if o.Direction != "" && !ValidDirections[o.Direction] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid direction: %q (must be TB or LR)", o.Direction)
	}
	return nil
}
