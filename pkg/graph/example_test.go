package graph_test

import (
	"fmt"

	"github.com/ocasazza/graphlayouts/pkg/graph"
)

func ExampleGraph_basic() {
	// Build a small graph: a and b connected by one edge.
	g := graph.New()
	_ = g.AddNode(&graph.Node{ID: "a"})
	_ = g.AddNode(&graph.Node{ID: "b"})
	_ = g.AddEdge(&graph.Edge{ID: "a-b", Source: "a", Target: "b", Weight: 1})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: 2
	// Edges: 1
}

func ExampleGraph_compound() {
	// Nest two children inside a compound parent.
	g := graph.New()
	_ = g.AddNode(&graph.Node{ID: "group"})
	_ = g.AddNode(&graph.Node{ID: "x", Parent: "group"})
	_ = g.AddNode(&graph.Node{ID: "y", Parent: "group"})

	fmt.Println("Children:", g.Children("group"))
	fmt.Println("Depth of x:", g.Depth("x"))
	// Output:
	// Children: [x y]
	// Depth of x: 1
}

func ExampleGraph_Validate() {
	g := graph.New()
	_ = g.AddNode(&graph.Node{ID: "a"})
	_ = g.AddNode(&graph.Node{ID: "b"})
	_ = g.AddEdge(&graph.Edge{ID: "e", Source: "a", Target: "b", Weight: 1})

	// Corrupt the graph behind the API's back, then validate.
	g.Edges["e"].Target = "ghost"

	err := g.Validate()
	fmt.Println(err)
	// Output:
	// edge e: edge references unknown node: target ghost
}
