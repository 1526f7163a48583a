// Package graphutil provides graph algorithms layered on bvgraph.RandomAccessGraph
// and bvgraph.SequentialGraph: BFS order, transpose, a grouping adapter over
// a sorted triple stream, and a permuted graph view.
package graphutil

import "github.com/webgraph-go/bvgraph/bvgraph"

// BFSOrder emits every node id exactly once in BFS order starting from node
// 0; when the queue empties it advances a "start" cursor through unvisited
// nodes to restart BFS from each orphan root, spec §4.6 — avoiding the need
// for a reverse graph (grounded on
// `_examples/original_source/src/algorithms/bfs_order.rs`).
type BFSOrder struct {
	g       bvgraph.RandomAccessGraph
	visited []bool
	queue   []int64
	start   int64
}

// NewBFSOrder builds a BFS iterator over g.
func NewBFSOrder(g bvgraph.RandomAccessGraph) *BFSOrder {
	return &BFSOrder{g: g, visited: make([]bool, g.NumNodes())}
}

func (b *BFSOrder) visit(v int64) {
	b.visited[v] = true
	b.queue = append(b.queue, v)
}

// Next returns the next node in BFS order, or ok=false once every node has
// been emitted.
func (b *BFSOrder) Next() (int64, bool) {
	for len(b.queue) == 0 {
		for b.start < b.g.NumNodes() && b.visited[b.start] {
			b.start++
		}
		if b.start >= b.g.NumNodes() {
			return 0, false
		}
		b.visit(b.start)
	}
	v := b.queue[0]
	b.queue = b.queue[1:]
	for _, w := range b.g.Successors(v) {
		if !b.visited[w] {
			b.visit(w)
		}
	}
	return v, true
}

// Permutation drains b entirely into a new-id -> old-id permutation slice.
func Permutation(b *BFSOrder) []int64 {
	perm := make([]int64, 0, b.g.NumNodes())
	for {
		v, ok := b.Next()
		if !ok {
			break
		}
		perm = append(perm, v)
	}
	return perm
}
