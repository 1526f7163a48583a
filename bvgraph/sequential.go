package bvgraph

import (
	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const seqOp = "bvgraph.SequentialReader"

// SequentialReader decodes a `.graph` bitstream node by node, keeping the
// circular window of W recently decoded adjacency lists spec §3's
// "Lifecycle" section describes, so reference decoding for node v never
// needs to look further than W nodes back.
type SequentialReader struct {
	br     bitio.BitReader
	props  Properties
	window [][]int64
	widx   []int64 // widx[v%W] = v, or -1 if unset; guards stale slots
	cur    int64
}

// NewSequentialReader opens a decoder at the start of the bitstream.
func NewSequentialReader(backend bitio.WordBackend, props Properties) *SequentialReader {
	w := props.WindowSize
	if w < 1 {
		w = 1
	}
	widx := make([]int64, w)
	for i := range widx {
		widx[i] = -1
	}
	return &SequentialReader{
		br:     bitio.NewReader(backend, props.bitOrder()),
		props:  props,
		window: make([][]int64, w),
		widx:   widx,
	}
}

func (r *SequentialReader) getRef(ref int64) ([]int64, error) {
	w := len(r.window)
	slot := int(((ref % int64(w)) + int64(w)) % int64(w))
	if r.widx[slot] != ref {
		return nil, codeerr.New(codeerr.MalformedStream, seqOp, "reference to node %d fell out of the window", ref)
	}
	return r.window[slot], nil
}

// Next decodes the next node's successors, implementing NodeIterator.
func (r *SequentialReader) Next() (int64, []int64, bool) {
	if r.cur >= r.props.Nodes {
		return 0, nil, false
	}
	v := r.cur
	succ, err := decodeList(v, r.br, r.props, r.getRef)
	if err != nil {
		codeerr.Panic(codeerr.MalformedStream, seqOp, "decode node %d: %v", v, err)
	}
	w := len(r.window)
	slot := int(v % int64(w))
	r.window[slot] = succ
	r.widx[slot] = v
	r.cur++
	return v, succ, true
}

// BVGraphSequential is the SequentialGraph view over a `.graph` bitstream.
type BVGraphSequential struct {
	backend bitio.WordBackend
	props   Properties
}

// NewBVGraphSequential wraps backend/props as a SequentialGraph.
func NewBVGraphSequential(backend bitio.WordBackend, props Properties) *BVGraphSequential {
	return &BVGraphSequential{backend: backend, props: props}
}

func (g *BVGraphSequential) NumNodes() int64 { return g.props.Nodes }

// NodeIterator only supports from==0: the bitstream format has no way to
// resume mid-stream without the window state built up from the start (the
// random-access format, BVGraphRandomAccess, supports arbitrary start
// points via the `.ef` offset index).
func (g *BVGraphSequential) NodeIterator(from int64) NodeIterator {
	if from != 0 {
		codeerr.Panic(codeerr.BadArgument, seqOp, "sequential graphs only iterate from node 0, got %d", from)
	}
	return NewSequentialReader(g.backend, g.props)
}

// Decode runs the iterator to completion and recovers any decode panic into
// a returned error, the outermost boundary spec §7 calls for.
func Decode(g *BVGraphSequential) (nodes [][]int64, err error) {
	defer codeerr.Recover(&err)
	it := g.NodeIterator(0)
	out := make([][]int64, 0, g.props.Nodes)
	for {
		_, succ, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, succ)
	}
	return out, nil
}
