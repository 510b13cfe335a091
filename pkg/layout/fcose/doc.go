// Package fcose implements a force-directed layout for compound graphs
// in the style of the fCoSE spring embedder.
//
// The pipeline for one Apply call:
//
//  1. Validate options, then the graph, then locked-node positions.
//     Nothing is mutated until all three pass.
//  2. Split the graph into edge-connected components. A compound subtree
//     is atomic and always stays in its root's component.
//  3. Per component, simulate each compound scope deepest first: the
//     children of one parent form a scope, nested compounds participate
//     as single virtual units sized to their settled interior plus
//     padding, and springs are lifted from edges crossing the scope.
//  4. After each scope settles, push overlapping boxes apart. Inside a
//     compound the resolver is clipped to the settled extent, so
//     containment always wins over separation.
//  5. Pack the finished components into rows, then commit all positions
//     into the graph in one pass.
//
// Runs are deterministic: identical graph, options, and seed give
// identical positions, including when components are simulated in
// parallel.
package fcose
