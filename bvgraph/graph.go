package bvgraph

import "sort"

// SuccessorIterator yields a node's successors in strictly increasing
// order, spec §3's "Successors of each node are a strictly increasing
// sequence of ids < N" invariant.
type SuccessorIterator interface {
	// Next returns the next successor id, or ok=false when exhausted.
	Next() (id int64, ok bool)
}

// SequentialGraph is the pull-based, single-pass view spec §3/§4.2
// describe: one NodeIterator walk yields every node 0..N-1 with its
// successor list, in order.
type SequentialGraph interface {
	NumNodes() int64
	// NodeIterator returns an iterator starting at node from.
	NodeIterator(from int64) NodeIterator
}

// NodeIterator walks (node, successors) pairs in ascending node order.
type NodeIterator interface {
	// Next advances to the next node, returning its id, its successors (as
	// a materialized slice, since most callers need random access to them
	// for reference selection or testing), and ok=false at end of stream.
	Next() (node int64, succ []int64, ok bool)
}

// RandomAccessGraph additionally supports direct indexing, used by LLP and
// the permuted-graph view which both need outdegree/successors for an
// arbitrary node without a sequential scan.
type RandomAccessGraph interface {
	NumNodes() int64
	Outdegree(v int64) int
	Successors(v int64) []int64
}

// sliceNodeIterator adapts any RandomAccessGraph to NodeIterator.
type sliceNodeIterator struct {
	g    RandomAccessGraph
	next int64
}

func (it *sliceNodeIterator) Next() (int64, []int64, bool) {
	if it.next >= it.g.NumNodes() {
		return 0, nil, false
	}
	v := it.next
	it.next++
	return v, it.g.Successors(v), true
}

// ArcListGraph is an in-memory SequentialGraph/RandomAccessGraph built from
// a plain arc list, the Go analogue of the original's VecGraph used
// pervasively by its own tests (see original_source's graph/vec_graph.rs).
type ArcListGraph struct {
	n    int64
	succ [][]int64 // succ[v] sorted ascending, deduplicated
}

// NewArcListGraph builds an ArcListGraph over n nodes from an unordered arc
// list; arcs are grouped by source, sorted and deduplicated per node.
func NewArcListGraph(n int64, arcs [][2]int64) *ArcListGraph {
	g := &ArcListGraph{n: n, succ: make([][]int64, n)}
	for _, a := range arcs {
		g.succ[a[0]] = append(g.succ[a[0]], a[1])
	}
	for v := range g.succ {
		g.succ[v] = sortInt64sDedup(g.succ[v])
	}
	return g
}

func sortInt64sDedup(s []int64) []int64 {
	if len(s) < 2 {
		return s
	}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func (g *ArcListGraph) NumNodes() int64 { return g.n }

func (g *ArcListGraph) NodeIterator(from int64) NodeIterator {
	return &sliceNodeIterator{g: g, next: from}
}

func (g *ArcListGraph) Outdegree(v int64) int { return len(g.succ[v]) }

func (g *ArcListGraph) Successors(v int64) []int64 { return g.succ[v] }
