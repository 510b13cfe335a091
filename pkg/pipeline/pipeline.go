// Package pipeline provides the core layout pipeline.
//
// This package implements the complete load → layout → export pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Import a graph from a file (JSON, CSV, DOT)
//  2. Layout: Compute positions with the selected algorithm
//  3. Export: Write the positioned graph in the requested format
//
// Each stage can be run independently or as part of the complete pipeline.
// Layout results are cached by graph content hash and algorithm options, so
// repeated runs on an unchanged graph reuse stored positions.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	opts := pipeline.Options{
//	    Input:     "graph.json",
//	    Algorithm: layout.NewFcose(layout.DefaultFcoseOptions()),
//	    Output:    "laid-out.json",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Run individual stages:
//
//	// Load only
//	g, err := runner.Load(ctx, opts)
//
//	// Layout an existing graph in place
//	res, err := runner.Compute(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/graphio"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input  string `json:"input,omitempty"`  // input graph file path
	Format string `json:"format,omitempty"` // input format override; empty detects from the extension

	// Layout options
	Algorithm layout.Algorithm `json:"algorithm"`
	Seed      uint64           `json:"seed,omitempty"`    // overrides the fcose random seed when non-zero
	Refresh   bool             `json:"refresh,omitempty"` // skip cache reads and recompute

	// Export options
	Output string `json:"output,omitempty"` // output file path; empty skips the export stage

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded graph with positions filled in.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph as loaded, before layout.
	GraphHash string

	// LayoutResult summarizes the layout run (convergence, iterations).
	LayoutResult layout.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout result came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input path is required")
	}
	if o.Format != "" {
		if _, err := graphio.ParseFormat(o.Format); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForCompute applies layout defaults and validates the algorithm
// selection. An empty algorithm selects fcose with default options.
func (o *Options) ValidateForCompute() error {
	if o.Algorithm.Name == "" {
		o.Algorithm = layout.Default()
	}
	o.applySeed()
	if err := o.Algorithm.Validate(); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

// applySeed copies the pipeline seed override into the fcose options. The
// options pointer may be shared with the caller, so override a copy.
func (o *Options) applySeed() {
	if o.Seed == 0 {
		return
	}
	if o.Algorithm.Name == layout.AlgorithmFcose && o.Algorithm.Fcose != nil {
		opts := *o.Algorithm.Fcose
		opts.Seed = o.Seed
		o.Algorithm.Fcose = &opts
	}
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
