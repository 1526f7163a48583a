package bvgraph

import (
	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const encodeOp = "bvgraph.Encoder"

// Encoder compresses a SequentialGraph into a BVGraph bitstream, spec
// §4.2's "Encoder": for each node it costs out every candidate reference in
// the trailing window with a mock writer and commits to the cheapest one.
type Encoder struct {
	bw     bitio.BitWriter
	props  Properties
	window [][]int64
	depth  []int // reference chain depth of the node currently in each window slot
	widx   []int64
	arcs   int64
}

// NewEncoder wraps backend/props for writing, starting at bit position 0.
func NewEncoder(backend bitio.WordBackend, props Properties) *Encoder {
	w := props.WindowSize
	if w < 1 {
		w = 1
	}
	widx := make([]int64, w)
	for i := range widx {
		widx[i] = -1
	}
	return &Encoder{
		bw:     bitio.NewWriter(backend, props.bitOrder()),
		props:  props,
		window: make([][]int64, w),
		depth:  make([]int, w),
		widx:   widx,
	}
}

// candidate bundles the precomputed copy/extra split and cost for one
// reference choice.
type candidate struct {
	r        int64
	blocks   []uint64
	extras   []int64
	bits     int64
	chainLen int
}

func (e *Encoder) costNoRef(v int64, succ []int64) candidate {
	mw := &mockWriter{}
	if e.props.WindowSize > 0 {
		_ = writeCode(mw, e.props.CompFlags.References, e.props.ZetaK, 0)
	}
	e.costExtras(mw, v, succ)
	return candidate{r: 0, extras: succ, bits: mw.bits}
}

func (e *Encoder) costRef(v, r int64, succ, refSucc []int64, refDepth int) candidate {
	blocks, extras := diffBlocks(refSucc, succ)
	mw := &mockWriter{}
	_ = writeCode(mw, e.props.CompFlags.References, e.props.ZetaK, uint64(r))
	_ = writeCode(mw, e.props.CompFlags.Blocks, e.props.ZetaK, uint64(len(blocks)))
	for _, b := range blocks {
		_ = writeCode(mw, e.props.CompFlags.Blocks, e.props.ZetaK, b)
	}
	e.costExtras(mw, v, extras)
	return candidate{r: r, blocks: blocks, extras: extras, bits: mw.bits, chainLen: refDepth + 1}
}

// costExtras tallies the interval+residual encoding cost of extras (the
// successors not covered by a reference copy) into mw.
func (e *Encoder) costExtras(mw *mockWriter, v int64, extras []int64) {
	intervals, residual := partitionIntervals(extras, e.props.MinIntervalLength)
	_ = writeCode(mw, e.props.CompFlags.Intervals, e.props.ZetaK, uint64(len(intervals)))
	prevEnd := int64(0)
	for i, iv := range intervals {
		if i == 0 {
			_ = writeCode(mw, e.props.CompFlags.Intervals, e.props.ZetaK, bitio.Int2Nat(iv[0]-v))
		} else {
			_ = writeCode(mw, e.props.CompFlags.Intervals, e.props.ZetaK, uint64(iv[0]-prevEnd))
		}
		_ = writeCode(mw, e.props.CompFlags.Intervals, e.props.ZetaK, uint64(iv[1]-int64(e.props.MinIntervalLength)))
		prevEnd = iv[0] + iv[1]
	}
	if len(residual) > 0 {
		_ = writeCode(mw, e.props.CompFlags.Residuals, e.props.ZetaK, bitio.Int2Nat(residual[0]-v))
		for i := 1; i < len(residual); i++ {
			_ = writeCode(mw, e.props.CompFlags.Residuals, e.props.ZetaK, uint64(residual[i]-residual[i-1]-1))
		}
	}
}

// diffBlocks replays spec §3's copy-mask construction in reverse: given a
// reference successor list and the target list, the copyable subsequence
// is exactly their ordered intersection (both are ascending), so a single
// pass over refSucc flagging membership in succ yields the run-length
// blocks directly. The trailing run is dropped since the decoder infers it
// (see applyBlocks).
func diffBlocks(refSucc, succ []int64) (blocks []uint64, extras []int64) {
	inSucc := make(map[int64]bool, len(succ))
	for _, s := range succ {
		inSucc[s] = true
	}
	copied := make(map[int64]bool, len(refSucc))
	var runs []uint64
	isCopy := true
	runLen := uint64(0)
	for _, rv := range refSucc {
		flag := inSucc[rv]
		if flag {
			copied[rv] = true
		}
		if flag == isCopy {
			runLen++
			continue
		}
		runs = append(runs, runLen)
		isCopy = flag
		runLen = 1
	}
	runs = append(runs, runLen)
	// the final run is implicit (its type is determined by len(blocks)'s
	// parity), so drop it from the explicit list.
	runs = runs[:len(runs)-1]

	for _, s := range succ {
		if !copied[s] {
			extras = append(extras, s)
		}
	}
	return runs, extras
}

// partitionIntervals greedily extracts maximal consecutive runs of length
// >= minLen from an ascending id slice, the same maximal-run extraction the
// BVGraph ecosystem's encoder uses; whatever is left becomes residuals.
func partitionIntervals(nodes []int64, minLen int) (intervals [][2]int64, residual []int64) {
	i := 0
	for i < len(nodes) {
		j := i + 1
		for j < len(nodes) && nodes[j] == nodes[j-1]+1 {
			j++
		}
		runLen := j - i
		if runLen >= minLen && minLen > 0 {
			intervals = append(intervals, [2]int64{nodes[i], int64(runLen)})
			i = j
		} else {
			residual = append(residual, nodes[i])
			i++
		}
	}
	return intervals, residual
}

// EncodeNode costs out every candidate reference for node v's successors
// and commits the cheapest to the bitstream, updating the window.
func (e *Encoder) EncodeNode(v int64, succ []int64) error {
	best := e.costNoRef(v, succ)
	w := int64(len(e.window))
	maxBack := v
	if maxBack > w {
		maxBack = w
	}
	if e.props.WindowSize > 0 {
		for r := int64(1); r <= maxBack; r++ {
			refNode := v - r
			slot := int(refNode % w)
			if e.widx[slot] != refNode {
				continue
			}
			if e.depth[slot]+1 > e.props.MaxRefCount {
				continue
			}
			cand := e.costRef(v, r, succ, e.window[slot], e.depth[slot])
			if cand.bits < best.bits {
				best = cand
			}
		}
	}

	if err := writeCode(e.bw, e.props.CompFlags.Outdegrees, e.props.ZetaK, uint64(len(succ))); err != nil {
		return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write outdegree of node %d", v)
	}
	if len(succ) == 0 {
		e.commitWindow(v, succ, 0)
		return nil
	}
	if e.props.WindowSize > 0 {
		if err := writeCode(e.bw, e.props.CompFlags.References, e.props.ZetaK, uint64(best.r)); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write reference_offset of node %d", v)
		}
	}
	if best.r > 0 {
		if err := writeCode(e.bw, e.props.CompFlags.Blocks, e.props.ZetaK, uint64(len(best.blocks))); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write block_count of node %d", v)
		}
		for _, b := range best.blocks {
			if err := writeCode(e.bw, e.props.CompFlags.Blocks, e.props.ZetaK, b); err != nil {
				return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write block of node %d", v)
			}
		}
	}
	if err := e.writeExtras(v, best.extras); err != nil {
		return err
	}
	e.commitWindow(v, succ, best.chainLen)
	return nil
}

func (e *Encoder) writeExtras(v int64, extras []int64) error {
	intervals, residual := partitionIntervals(extras, e.props.MinIntervalLength)
	if err := writeCode(e.bw, e.props.CompFlags.Intervals, e.props.ZetaK, uint64(len(intervals))); err != nil {
		return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write interval_count of node %d", v)
	}
	prevEnd := int64(0)
	for i, iv := range intervals {
		var gap uint64
		if i == 0 {
			gap = bitio.Int2Nat(iv[0] - v)
		} else {
			gap = uint64(iv[0] - prevEnd)
		}
		if err := writeCode(e.bw, e.props.CompFlags.Intervals, e.props.ZetaK, gap); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write interval start of node %d", v)
		}
		if err := writeCode(e.bw, e.props.CompFlags.Intervals, e.props.ZetaK, uint64(iv[1]-int64(e.props.MinIntervalLength))); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write interval len of node %d", v)
		}
		prevEnd = iv[0] + iv[1]
	}
	if len(residual) > 0 {
		if err := writeCode(e.bw, e.props.CompFlags.Residuals, e.props.ZetaK, bitio.Int2Nat(residual[0]-v)); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write first_residual of node %d", v)
		}
		for i := 1; i < len(residual); i++ {
			if err := writeCode(e.bw, e.props.CompFlags.Residuals, e.props.ZetaK, uint64(residual[i]-residual[i-1]-1)); err != nil {
				return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "write residual of node %d", v)
			}
		}
	}
	return nil
}

func (e *Encoder) commitWindow(v int64, succ []int64, chainLen int) {
	w := int64(len(e.window))
	slot := int(v % w)
	e.window[slot] = succ
	e.widx[slot] = v
	e.depth[slot] = chainLen
	e.arcs += int64(len(succ))
}

// Flush finalizes the bitstream, zero-padding the last partial word.
func (e *Encoder) Flush() error {
	if err := e.bw.Flush(); err != nil {
		return codeerr.Wrap(codeerr.BackendIO, encodeOp, err, "flush")
	}
	return nil
}

// Arcs reports the total number of arcs written so far.
func (e *Encoder) Arcs() int64 { return e.arcs }

// Position reports the current bit length of the stream written so far.
func (e *Encoder) Position() int64 { return e.bw.Position() }

// CompressSequential drives g through an Encoder using props, returning the
// final arc count. Intended for the non-parallel path; parallel.CompressGraph
// builds on the same Encoder per chunk.
func CompressSequential(g SequentialGraph, backend bitio.WordBackend, props Properties) (arcs int64, err error) {
	defer codeerr.Recover(&err)
	enc := NewEncoder(backend, props)
	it := g.NodeIterator(0)
	for {
		v, succ, ok := it.Next()
		if !ok {
			break
		}
		if encErr := enc.EncodeNode(v, succ); encErr != nil {
			return 0, encErr
		}
	}
	if flushErr := enc.Flush(); flushErr != nil {
		return 0, flushErr
	}
	return enc.Arcs(), nil
}
