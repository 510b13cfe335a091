// Package graphio reads and writes graphs in the supported interchange
// formats.
//
// # Formats
//
// Four formats are recognized, selected explicitly or detected from a file
// extension by [DetectFormat]:
//
//   - json: the native codec (nodes and edges keyed by id). Import also
//     accepts the array form {"nodes": [...], "edges": [...]} produced by
//     other tools, mapping x/y fields onto positions and unknown fields
//     into metadata.
//   - csv: header-sniffed. A source/target header means an edge list with
//     endpoints created on demand; anything else is treated as a node list
//     with an id column. Export writes the node list (edges have no place
//     in a single node table and are dropped).
//   - dot: Graphviz DOT. Subgraphs named cluster_* become compound
//     parents, pos attributes become positions (a trailing "!" pins the
//     node), and width/height convert from inches. Export emits stable,
//     sorted DOT with clusters for compounds.
//   - svg: export only, rendered from the DOT form via Graphviz.
//
// # Import
//
// Use [ImportFile] to read a graph from a path, or [Import] to read from
// any io.Reader with an explicit format:
//
//	g, err := graphio.ImportFile("deps.dot")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Imported graphs are independent instances and can be modified freely.
// Malformed input fails with code INVALID_FORMAT and a message naming the
// offending node, edge, or row.
//
// # Export
//
// Use [ExportFile] to write a graph to a path, or [Export] to write to any
// io.Writer. JSON round-trips losslessly; CSV and DOT preserve what their
// formats can express.
package graphio
