package layout

import (
	"encoding/json"

	"github.com/ocasazza/graphlayouts/pkg/errors"
)

// =============================================================================
// Algorithm Names
// =============================================================================

// Algorithm names. The set is closed: adding an engine means adding a
// constant here, an options field on Algorithm, and a case to every switch
// that dispatches on Name.
const (
	AlgorithmFcose      = "fcose"
	AlgorithmConcentric = "concentric"
	AlgorithmCircle     = "circle"
	AlgorithmLayered    = "layered"
)

// ValidAlgorithms is the set of recognized algorithm names.
var ValidAlgorithms = map[string]bool{
	AlgorithmFcose:      true,
	AlgorithmConcentric: true,
	AlgorithmCircle:     true,
	AlgorithmLayered:    true,
}

// AlgorithmNames returns the recognized algorithm names in a stable order.
func AlgorithmNames() []string {
	return []string{AlgorithmFcose, AlgorithmConcentric, AlgorithmCircle, AlgorithmLayered}
}

// =============================================================================
// Algorithm - Tagged Union over Engine Options
// =============================================================================

// Algorithm selects a layout engine and carries its options. Name is the
// discriminator; exactly the matching options field is set. Use the New*
// constructors to build well-formed values.
type Algorithm struct {
	Name string `json:"name" bson:"name"`

	Fcose      *FcoseOptions      `json:"fcose,omitempty" bson:"fcose,omitempty"`
	Concentric *ConcentricOptions `json:"concentric,omitempty" bson:"concentric,omitempty"`
	Circle     *CircleOptions     `json:"circle,omitempty" bson:"circle,omitempty"`
	Layered    *LayeredOptions    `json:"layered,omitempty" bson:"layered,omitempty"`
}

// NewFcose returns an Algorithm selecting the force-directed compound
// engine.
func NewFcose(opts FcoseOptions) Algorithm {
	return Algorithm{Name: AlgorithmFcose, Fcose: &opts}
}

// NewConcentric returns an Algorithm selecting the concentric-rings engine.
func NewConcentric(opts ConcentricOptions) Algorithm {
	return Algorithm{Name: AlgorithmConcentric, Concentric: &opts}
}

// NewCircle returns an Algorithm selecting the single-ring engine.
func NewCircle(opts CircleOptions) Algorithm {
	return Algorithm{Name: AlgorithmCircle, Circle: &opts}
}

// NewLayered returns an Algorithm selecting the layered engine.
func NewLayered(opts LayeredOptions) Algorithm {
	return Algorithm{Name: AlgorithmLayered, Layered: &opts}
}

// Default returns the default algorithm: fcose with default options.
func Default() Algorithm {
	return NewFcose(DefaultFcoseOptions())
}

// Base returns the base options of the active variant. It panics if the
// Algorithm failed Validate.
func (a *Algorithm) Base() *BaseOptions {
	switch a.Name {
	case AlgorithmFcose:
		return &a.Fcose.Base
	case AlgorithmConcentric:
		return &a.Concentric.Base
	case AlgorithmCircle:
		return &a.Circle.Base
	case AlgorithmLayered:
		return &a.Layered.Base
	default:
		panic("layout: Base called on invalid algorithm " + a.Name)
	}
}

// Validate checks that Name is recognized, that exactly the matching
// options field is set, and that the options themselves are in range.
func (a *Algorithm) Validate() error {
	if a.Name == "" {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "algorithm name is required")
	}
	if !ValidAlgorithms[a.Name] {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm: %q", a.Name)
	}
	set := 0
	for _, p := range []bool{a.Fcose != nil, a.Concentric != nil, a.Circle != nil, a.Layered != nil} {
		if p {
			set++
		}
	}
	if set > 1 {
		return errors.New(errors.ErrCodeInvalidAlgorithm, "algorithm %q carries options for more than one engine", a.Name)
	}

	switch a.Name {
	case AlgorithmFcose:
		if a.Fcose == nil {
			return errors.New(errors.ErrCodeInvalidAlgorithm, "algorithm %q is missing its options", a.Name)
		}
		return a.Fcose.Validate()
	case AlgorithmConcentric:
		if a.Concentric == nil {
			return errors.New(errors.ErrCodeInvalidAlgorithm, "algorithm %q is missing its options", a.Name)
		}
		return a.Concentric.Validate()
	case AlgorithmCircle:
		if a.Circle == nil {
			return errors.New(errors.ErrCodeInvalidAlgorithm, "algorithm %q is missing its options", a.Name)
		}
		return a.Circle.Validate()
	case AlgorithmLayered:
		if a.Layered == nil {
			return errors.New(errors.ErrCodeInvalidAlgorithm, "algorithm %q is missing its options", a.Name)
		}
		return a.Layered.Validate()
	default:
		return errors.New(errors.ErrCodeInvalidAlgorithm, "unknown algorithm: %q", a.Name)
	}
}

// UnmarshalJSON decodes an algorithm selection. Fields absent from the
// options object keep their defaults, so {"name": "fcose", "fcose": {}}
// and {"name": "fcose"} both select the default fcose configuration.
func (a *Algorithm) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name       string          `json:"name"`
		Fcose      json.RawMessage `json:"fcose"`
		Concentric json.RawMessage `json:"concentric"`
		Circle     json.RawMessage `json:"circle"`
		Layered    json.RawMessage `json:"layered"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*a = Algorithm{Name: wire.Name}
	switch wire.Name {
	case AlgorithmFcose:
		opts := DefaultFcoseOptions()
		if len(wire.Fcose) > 0 {
			if err := json.Unmarshal(wire.Fcose, &opts); err != nil {
				return err
			}
		}
		a.Fcose = &opts
	case AlgorithmConcentric:
		opts := DefaultConcentricOptions()
		if len(wire.Concentric) > 0 {
			if err := json.Unmarshal(wire.Concentric, &opts); err != nil {
				return err
			}
		}
		a.Concentric = &opts
	case AlgorithmCircle:
		opts := DefaultCircleOptions()
		if len(wire.Circle) > 0 {
			if err := json.Unmarshal(wire.Circle, &opts); err != nil {
				return err
			}
		}
		a.Circle = &opts
	case AlgorithmLayered:
		opts := DefaultLayeredOptions()
		if len(wire.Layered) > 0 {
			if err := json.Unmarshal(wire.Layered, &opts); err != nil {
				return err
			}
		}
		a.Layered = &opts
	default:
		// Leave the unknown name in place for Validate to reject with a
		// proper error code.
	}
	return nil
}
