// Package pkg provides the core libraries for graph layout computation.
//
// # Overview
//
// Graphlayouts positions the nodes of compound graphs: graphs whose nodes
// may nest inside parent nodes, arbitrarily deep. The pkg directory is
// organized into four main areas:
//
//  1. [graph] - The compound graph model (nodes, edges, nesting, validation)
//  2. [layout] - Layout algorithms (fcose, concentric, circle, layered)
//  3. [pipeline] - Orchestration (load → layout → export) used by CLI and API
//  4. [store] / [cache] - Persistence backends and layout result caching
//
// # Architecture
//
// The typical data flow:
//
//	JSON/CSV/DOT input
//	         ↓
//	    [graphio] package (decode into the graph model)
//	         ↓
//	    [graph] package (validate structure, resolve nesting)
//	         ↓
//	    [layout] package (compute node positions)
//	         ↓
//	    JSON/CSV/DOT/SVG output
//
// # Quick Start
//
// Load a graph, lay it out, and write the result:
//
//	import (
//	    "context"
//	    "github.com/ocasazza/graphlayouts/pkg/graphio"
//	    "github.com/ocasazza/graphlayouts/pkg/layout"
//	    "github.com/ocasazza/graphlayouts/pkg/pipeline"
//	)
//
//	g, _ := graphio.ImportFile("graph.json")
//	algo := layout.NewFcose(layout.DefaultFcoseOptions())
//	res, _ := pipeline.Apply(context.Background(), g, algo)
//	fmt.Println(res)
//	graphio.ExportFile(g, "graph.layout.json")
//
// # Main Packages
//
// [graph] - The compound graph model. Nodes carry optional positions and
// dimensions, a parent link for nesting, and a locked flag that pins them
// during layout. The model validates edge endpoints and rejects nesting
// cycles.
//
// [layout] - Algorithm selection and the four engines. [layout/fcose] is
// the force-directed compound engine (spectral seeding, force simulation,
// overlap removal, compound tiling); [layout/concentric], [layout/circle],
// and [layout/layered] are geometric engines for rings and layers.
//
// [graphio] - Interchange formats: JSON (native and node-link array form),
// CSV node and edge lists, Graphviz DOT with cluster nesting, and SVG
// export through go-graphviz.
//
// [pipeline] - The load → layout → export runner shared by the CLI and the
// HTTP API, including cache lookups and stats collection.
//
// [api] - The chi HTTP server exposing graph storage and layout endpoints,
// and the retrying client the CLI uses for --remote runs.
//
// [store] - Graph persistence with memory, file, Redis, MongoDB, and
// Neo4j backends behind one interface.
//
// [cache] - Content-addressed layout result caching keyed by graph hash
// and algorithm options.
//
// [gen] - Seeded random graph generation for demos and benchmarks.
//
// [errors] - Coded errors shared across the module; codes map to HTTP
// status and to user-facing CLI messages.
//
// [observability] - Hook points the pipeline, store, and HTTP layers call
// out to; wire them to metrics or leave the defaults as no-ops.
//
// [geo] - Small planar geometry helpers (points, rectangles, overlap).
//
// [httputil] - Retry with exponential backoff for transient HTTP failures.
//
// [buildinfo] - Version metadata stamped at build time.
//
// [graph]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/graph
// [layout]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/layout
// [layout/fcose]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/layout/fcose
// [layout/concentric]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/layout/concentric
// [layout/circle]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/layout/circle
// [layout/layered]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/layout/layered
// [graphio]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/graphio
// [pipeline]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/api
// [store]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/store
// [cache]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/cache
// [gen]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/gen
// [errors]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/errors
// [observability]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/observability
// [geo]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/geo
// [httputil]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/ocasazza/graphlayouts/pkg/buildinfo
package pkg
