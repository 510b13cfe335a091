// Package layout defines the algorithm selection surface shared by every
// layout engine: option records with validated defaults, the Algorithm
// tagged union that picks an engine, and the Result summary engines
// return.
//
// The package holds types only. Engine implementations live in the
// subpackages (fcose, concentric, circle, layered) and the dispatch that
// routes an Algorithm to its engine lives in pkg/pipeline, so importing
// this package never drags in simulation code.
//
// # Choosing an Algorithm
//
//	algo := layout.NewFcose(layout.DefaultFcoseOptions())
//	if err := algo.Validate(); err != nil {
//		return err
//	}
//
// Options follow a prefill-then-override model: start from the Default*
// constructors and change what you need. JSON decoding works the same
// way, so sparse payloads like {"name":"fcose","fcose":{"random_seed":7}}
// keep every other default.
package layout
