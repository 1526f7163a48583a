package bvgraph

import (
	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

// FieldStats tallies, for one field, the bit cost the recorded value stream
// would take under every candidate code, the `optimize_codes` advisory
// spec §4.2/§6 and Scenario F call for (grounded on the original's
// code-statistics wrapper around ReadCodes, code_readers.rs).
type FieldStats struct {
	Unary, Gamma, Delta, Zeta int64
	Count                     int64
}

func (s *FieldStats) add(x uint64, zetaK uint) {
	s.Unary += int64(bitio.LenUnary(x))
	s.Gamma += int64(bitio.LenGamma(x))
	s.Delta += int64(bitio.LenDelta(x))
	s.Zeta += int64(bitio.LenZeta(x, zetaK))
	s.Count++
}

// Best returns the cheapest candidate code and its total bit cost, limited
// to the codes legal for that field per spec §4.2's closed set.
func (s *FieldStats) Best(allowUnary, allowZeta bool) (Code, int64) {
	best, bestBits := CodeGamma, s.Gamma
	if s.Delta < bestBits {
		best, bestBits = CodeDelta, s.Delta
	}
	if allowUnary && s.Unary < bestBits {
		best, bestBits = CodeUnary, s.Unary
	}
	if allowZeta && s.Zeta < bestBits {
		best, bestBits = CodeZeta, s.Zeta
	}
	return best, bestBits
}

// CodeStats is the per-field tally across a full decode pass.
type CodeStats struct {
	Outdegrees, References, Blocks, Intervals, Residuals FieldStats
}

// ActualBits returns the total bit cost under the code choices recorded in
// cf/zetaK (the codes the stream was actually written with).
func (s CodeStats) ActualBits(cf CompFlags, zetaK uint) int64 {
	pick := func(fs FieldStats, c Code) int64 {
		switch c {
		case CodeUnary:
			return fs.Unary
		case CodeDelta:
			return fs.Delta
		case CodeZeta:
			return fs.Zeta
		default:
			return fs.Gamma
		}
	}
	return pick(s.Outdegrees, cf.Outdegrees) + pick(s.References, cf.References) +
		pick(s.Blocks, cf.Blocks) + pick(s.Intervals, cf.Intervals) + pick(s.Residuals, cf.Residuals)
}

// Optimum returns, per field, the cheapest code and its bit cost.
type Optimum struct {
	Outdegrees, References, Blocks, Intervals, Residuals Code
	Bits                                                 int64
}

// BestPerField reports the cheapest code for each field and the resulting
// total bit count, the `optimize_codes` advisory spec §6 describes.
func (s CodeStats) BestPerField() Optimum {
	var o Optimum
	var b1, b2, b3, b4, b5 int64
	o.Outdegrees, b1 = s.Outdegrees.Best(false, false)
	o.References, b2 = s.References.Best(true, false)
	o.Blocks, b3 = s.Blocks.Best(false, false)
	o.Intervals, b4 = s.Intervals.Best(false, false)
	o.Residuals, b5 = s.Residuals.Best(false, true)
	o.Bits = b1 + b2 + b3 + b4 + b5
	return o
}

// GatherStats replays g's bitstream through the same decode path
// decodeListStats and SequentialReader use, tallying every field value's
// bit cost under each candidate code as a side effect. The result's
// ActualBits(props.CompFlags, props.ZetaK) equals the stream's bit length up
// to word padding (Scenario F).
func GatherStats(backend bitio.WordBackend, props Properties) (stats CodeStats, err error) {
	defer codeerr.Recover(&err)
	br := bitio.NewReader(backend, props.bitOrder())
	w := props.WindowSize
	if w < 1 {
		w = 1
	}
	window := make([][]int64, w)
	widx := make([]int64, w)
	for i := range widx {
		widx[i] = -1
	}
	getRef := func(ref int64) ([]int64, error) {
		slot := int(((ref % int64(w)) + int64(w)) % int64(w))
		if widx[slot] != ref {
			return nil, codeerr.New(codeerr.MalformedStream, "bvgraph.GatherStats", "reference to node %d fell out of the window", ref)
		}
		return window[slot], nil
	}

	for v := int64(0); v < props.Nodes; v++ {
		succ, derr := decodeListStats(v, br, props, getRef, &stats)
		if derr != nil {
			return stats, derr
		}
		slot := int(v % int64(w))
		window[slot] = succ
		widx[slot] = v
	}
	return stats, nil
}
