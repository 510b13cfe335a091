// Package graph provides the graph data model shared by every layout engine:
// nodes with optional positions and dimensions, weighted edges, and
// compound-node nesting.
//
// # Overview
//
// A [Graph] maps node ids to [Node] values and edge ids to [Edge] values.
// Nodes may carry a Parent id, which nests them inside a compound node; the
// parent links must form a forest. Positions and dimensions are optional
// until a layout engine fills them in.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode] and edges with
// [Graph.AddEdge]:
//
//	g := graph.New()
//	g.AddNode(&graph.Node{ID: "a"})
//	g.AddNode(&graph.Node{ID: "b"})
//	g.AddEdge(&graph.Edge{ID: "a-b", Source: "a", Target: "b", Weight: 1})
//
// Use [Graph.Validate] to verify structural integrity before handing the
// graph to a layout engine: edge endpoints must exist, weights must be
// non-negative, and compound nesting must be acyclic.
//
// # Wire Format
//
// Graphs serialize to an id-keyed JSON object; positions and dimensions
// serialize as two-element arrays:
//
//	{
//	  "nodes": {
//	    "a": {"id": "a", "position": [0, 0], "dimensions": [40, 20]},
//	    "b": {"id": "b", "parent": "a"}
//	  },
//	  "edges": {
//	    "a-b": {"id": "a-b", "source": "a", "target": "b", "weight": 1}
//	  }
//	}
//
// [MarshalGraph], [UnmarshalGraph], [ReadGraphFile], and [WriteGraphFile]
// round-trip this format. An edge without a weight decodes with weight 1.
//
// All types carry bson tags so graphs can be stored in MongoDB without a
// separate document type.
package graph
