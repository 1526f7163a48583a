package graphutil

import (
	"sort"

	"github.com/webgraph-go/bvgraph/bvgraph"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const permutedOp = "graphutil.PermutedGraph"

// PermutedGraph wraps a RandomAccessGraph and a node permutation, exposing
// the relabeled graph directly as a RandomAccessGraph/SequentialGraph
// without materializing a copy — spec SPEC_FULL §C.6, grounded on
// `_examples/original_source/src/utils/permuted_graph.rs`. Unlike the
// original's lazy-but-unsorted relabeling view (which requires a follow-up
// external sort before it can be walked in ascending node order), this
// keeps an inverse permutation so Successors can be answered, and sorted,
// on demand: LLP's output is a full bijection on [0, N), so building the
// inverse once up front is cheap and avoids ever needing SortPairs here.
type PermutedGraph struct {
	g       bvgraph.RandomAccessGraph
	perm    []int64 // perm[oldID] = newID
	invPerm []int64 // invPerm[newID] = oldID
}

// NewPermutedGraph builds a view of g under perm, a bijection on
// [0, g.NumNodes()) mapping old node ids to new ones.
func NewPermutedGraph(g bvgraph.RandomAccessGraph, perm []int64) *PermutedGraph {
	n := g.NumNodes()
	if int64(len(perm)) != n {
		codeerr.Panic(codeerr.BadArgument, permutedOp, "permutation length %d does not match node count %d", len(perm), n)
	}
	inv := make([]int64, n)
	for old, nw := range perm {
		inv[nw] = int64(old)
	}
	return &PermutedGraph{g: g, perm: perm, invPerm: inv}
}

func (p *PermutedGraph) NumNodes() int64 { return p.g.NumNodes() }

func (p *PermutedGraph) Outdegree(v int64) int {
	return p.g.Outdegree(p.invPerm[v])
}

// Successors returns v's successors under the permutation, in ascending
// order (the underlying graph's successors are ascending by old id, but
// remapping through perm scrambles that order, so this re-sorts).
func (p *PermutedGraph) Successors(v int64) []int64 {
	old := p.g.Successors(p.invPerm[v])
	succ := make([]int64, len(old))
	for i, w := range old {
		succ[i] = p.perm[w]
	}
	sort.Slice(succ, func(i, j int) bool { return succ[i] < succ[j] })
	return succ
}

type permutedNodeIterator struct {
	p    *PermutedGraph
	next int64
}

func (it *permutedNodeIterator) Next() (int64, []int64, bool) {
	if it.next >= it.p.NumNodes() {
		return 0, nil, false
	}
	v := it.next
	it.next++
	return v, it.p.Successors(v), true
}

// NodeIterator walks the permuted graph in ascending new-id order, ready
// for direct re-encoding by bvgraph.CompressSequential.
func (p *PermutedGraph) NodeIterator(from int64) bvgraph.NodeIterator {
	return &permutedNodeIterator{p: p, next: from}
}
