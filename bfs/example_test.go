// SPDX-License-Identifier: MIT

package bfs_test

import (
	"context"
	"fmt"

	"github.com/soyuz43/hypergraph-cli/bfs"
	"github.com/soyuz43/hypergraph-cli/core"
)

// ExampleComponents groups the concepts of two unrelated clauses.
func ExampleComponents() {
	g := core.NewGraph()
	_, _ = g.AddEdge("fall", "apple")
	_, _ = g.AddEdge("fall", "tree")
	_, _ = g.AddEdge("shine", "sun")

	comps, err := bfs.Components(context.Background(), g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(comps)
	// Output:
	// [[apple fall tree] [shine sun]]
}

// ExampleBFS lists concepts by hop distance from a start concept.
func ExampleBFS() {
	g := core.NewGraph()
	_, _ = g.AddEdge("river", "flow")
	_, _ = g.AddEdge("flow", "sea")
	_, _ = g.AddEdge("river", "bank")

	res, err := bfs.BFS(g, "bank")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, id := range res.Order {
		fmt.Println(id, res.Depth[id])
	}
	// Output:
	// bank 0
	// river 1
	// flow 2
	// sea 3
}
