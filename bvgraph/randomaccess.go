package bvgraph

import (
	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const raOp = "bvgraph.BVGraphRandomAccess"

// BVGraphRandomAccess is the RandomAccessGraph view over a `.graph`
// bitstream plus its `.ef` offset index (spec §6): Successors(v) seeks
// directly to v's record and recursively re-decodes any reference chain,
// bounded by MaxRefCount.
type BVGraphRandomAccess struct {
	backend bitio.WordBackend
	props   Properties
	offsets *EliasFano
}

// NewBVGraphRandomAccess wraps backend/props/offsets (offsets.Len() must
// equal props.Nodes+1: the i-th value is node i's starting bit offset, and
// the final value is the stream's total bit length).
func NewBVGraphRandomAccess(backend bitio.WordBackend, props Properties, offsets *EliasFano) *BVGraphRandomAccess {
	return &BVGraphRandomAccess{backend: backend, props: props, offsets: offsets}
}

func (g *BVGraphRandomAccess) NumNodes() int64 { return g.props.Nodes }

func (g *BVGraphRandomAccess) decodeAt(v int64, depth int) ([]int64, error) {
	if depth > g.props.MaxRefCount+1 {
		return nil, codeerr.New(codeerr.MalformedStream, raOp, "reference chain exceeds max_ref_count at node %d", v)
	}
	br := bitio.NewReader(g.backend, g.props.bitOrder())
	if err := br.SeekBit(g.offsets.Select(v)); err != nil {
		return nil, codeerr.Wrap(codeerr.BackendIO, raOp, err, "seek to node %d", v)
	}
	return decodeList(v, br, g.props, func(ref int64) ([]int64, error) {
		// The recursive decode seeks the shared backend; restore the word
		// position br left it at so br's later refills read the right words.
		pos := g.backend.Position()
		succ, err := g.decodeAt(ref, depth+1)
		if err != nil {
			return nil, err
		}
		if serr := g.backend.SetPosition(pos); serr != nil {
			return nil, codeerr.Wrap(codeerr.BackendIO, raOp, serr, "restore position after node %d", ref)
		}
		return succ, nil
	})
}

// Successors decodes node v's adjacency list, panicking with a *codeerr.Error
// on malformed input (recovered at Decode-style call boundaries, matching
// the sequential reader's discipline).
func (g *BVGraphRandomAccess) Successors(v int64) []int64 {
	succ, err := g.decodeAt(v, 0)
	if err != nil {
		codeerr.Panic(codeerr.MalformedStream, raOp, "decode node %d: %v", v, err)
	}
	return succ
}

// Outdegree decodes node v's full successor list and returns its length.
func (g *BVGraphRandomAccess) Outdegree(v int64) int {
	return len(g.Successors(v))
}

// BuildOffsets decodes the whole graph sequentially once to record each
// node's starting bit offset, producing the `.ef` index. This mirrors how
// the BVGraph ecosystem itself derives `.ef` from a fresh `.graph`: a single
// forward pass noting bitio.BitReader.Position() before each record.
func BuildOffsets(backend bitio.WordBackend, props Properties) (*EliasFano, error) {
	r := NewSequentialReader(backend, props)
	offsets := make([]int64, 0, props.Nodes+1)
	var err error
	func() {
		defer codeerr.Recover(&err)
		for {
			offsets = append(offsets, r.br.Position())
			if _, _, ok := r.Next(); !ok {
				break
			}
		}
	}()
	if err != nil {
		return nil, err
	}
	return BuildEliasFano(offsets), nil
}
