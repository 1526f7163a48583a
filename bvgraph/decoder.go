package bvgraph

import (
	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const decodeOp = "bvgraph.decodeList"

// decodeList reconstructs node v's successor list per spec §3/§4.2: an
// optional reference copy (resolved via getRef), then intervals, then
// residuals, merged back into ascending order. getRef abstracts over the
// two ways a referenced node's successors can be obtained: a sequential
// decoder's circular window, or a random-access decoder's recursive
// re-decode from its own `.ef` offset.
func decodeList(v int64, br bitio.BitReader, props Properties, getRef func(ref int64) ([]int64, error)) ([]int64, error) {
	return decodeListStats(v, br, props, getRef, nil)
}

// decodeListStats is decodeList with an optional CodeStats tally: every
// field value is recorded under stats (if non-nil) as it is read, so
// GatherStats can share this one decode path instead of duplicating it.
func decodeListStats(v int64, br bitio.BitReader, props Properties, getRef func(ref int64) ([]int64, error), stats *CodeStats) ([]int64, error) {
	cf := props.CompFlags
	zk := props.ZetaK

	d, err := readCode(br, cf.Outdegrees, zk)
	if err != nil {
		return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read outdegree of node %d", v)
	}
	if stats != nil {
		stats.Outdegrees.add(d, zk)
	}
	degree := int(d)
	if degree == 0 {
		return nil, nil
	}

	var copied []int64
	if props.WindowSize > 0 {
		r, err := readCode(br, cf.References, zk)
		if err != nil {
			return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read reference_offset of node %d", v)
		}
		if stats != nil {
			stats.References.add(r, zk)
		}
		if r > 0 {
			if int64(r) > v {
				return nil, codeerr.New(codeerr.MalformedStream, decodeOp, "reference_offset %d exceeds node %d", r, v)
			}
			refSucc, err := getRef(v - int64(r))
			if err != nil {
				return nil, err
			}
			b, err := readCode(br, cf.Blocks, zk)
			if err != nil {
				return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read block_count of node %d", v)
			}
			if stats != nil {
				stats.Blocks.add(b, zk)
			}
			blocks := make([]uint64, b)
			for i := range blocks {
				blocks[i], err = readCode(br, cf.Blocks, zk)
				if err != nil {
					return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read block %d of node %d", i, v)
				}
				if stats != nil {
					stats.Blocks.add(blocks[i], zk)
				}
			}
			copied, err = applyBlocks(refSucc, blocks)
			if err != nil {
				return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "apply blocks of node %d", v)
			}
		}
	}

	k, err := readCode(br, cf.Intervals, zk)
	if err != nil {
		return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read interval_count of node %d", v)
	}
	if stats != nil {
		stats.Intervals.add(k, zk)
	}
	var intervalNodes []int64
	prevEnd := int64(0)
	for i := uint64(0); i < k; i++ {
		gap, err := readCode(br, cf.Intervals, zk)
		if err != nil {
			return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read interval start %d of node %d", i, v)
		}
		if stats != nil {
			stats.Intervals.add(gap, zk)
		}
		var start int64
		if i == 0 {
			start = v + bitio.Nat2Int(gap)
		} else {
			start = prevEnd + int64(gap)
		}
		lcode, err := readCode(br, cf.Intervals, zk)
		if err != nil {
			return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read interval len %d of node %d", i, v)
		}
		if stats != nil {
			stats.Intervals.add(lcode, zk)
		}
		length := int64(lcode) + int64(props.MinIntervalLength)
		for j := int64(0); j < length; j++ {
			intervalNodes = append(intervalNodes, start+j)
		}
		prevEnd = start + length
	}

	residualCount := degree - len(copied) - len(intervalNodes)
	var residuals []int64
	if residualCount > 0 {
		g0, err := readCode(br, cf.Residuals, zk)
		if err != nil {
			return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read first_residual of node %d", v)
		}
		if stats != nil {
			stats.Residuals.add(g0, zk)
		}
		prev := v + bitio.Nat2Int(g0)
		residuals = append(residuals, prev)
		for i := 1; i < residualCount; i++ {
			g, err := readCode(br, cf.Residuals, zk)
			if err != nil {
				return nil, codeerr.Wrap(codeerr.MalformedStream, decodeOp, err, "read residual %d of node %d", i, v)
			}
			if stats != nil {
				stats.Residuals.add(g, zk)
			}
			prev = prev + int64(g) + 1
			residuals = append(residuals, prev)
		}
	}

	succ := merge3(copied, intervalNodes, residuals)
	if len(succ) != degree {
		return nil, codeerr.New(codeerr.MalformedStream, decodeOp, "node %d: decoded %d successors, outdegree says %d", v, len(succ), degree)
	}
	return succ, nil
}

// applyBlocks replays the copy/skip run-length mask from spec §3 over a
// reference node's successors: even-indexed runs (0-based) copy, odd skip,
// and the implicit run past the explicit list copies iff len(blocks) is
// even.
func applyBlocks(ref []int64, blocks []uint64) ([]int64, error) {
	var out []int64
	idx := 0
	isCopy := true
	for _, blen := range blocks {
		end := idx + int(blen)
		if end > len(ref) {
			return nil, codeerr.New(codeerr.MalformedStream, "bvgraph.applyBlocks", "block run exceeds reference length")
		}
		if isCopy {
			out = append(out, ref[idx:end]...)
		}
		idx = end
		isCopy = !isCopy
	}
	if isCopy {
		out = append(out, ref[idx:]...)
	}
	return out, nil
}

// merge3 merges up to three ascending, disjoint id slices into one ascending
// slice, the three-way min-heap merge spec §4.2 describes (a literal heap
// is unnecessary for three inputs; a direct three-pointer merge is simpler
// and produces the identical result).
func merge3(a, b, c []int64) []int64 {
	total := len(a) + len(b) + len(c)
	if total == 0 {
		return nil
	}
	out := make([]int64, 0, total)
	i, j, k := 0, 0, 0
	for i < len(a) || j < len(b) || k < len(c) {
		var best int64 = -1
		which := -1
		if i < len(a) && (which == -1 || a[i] < best) {
			best, which = a[i], 0
		}
		if j < len(b) && (which == -1 || b[j] < best) {
			best, which = b[j], 1
		}
		if k < len(c) && (which == -1 || c[k] < best) {
			best, which = c[k], 2
		}
		out = append(out, best)
		switch which {
		case 0:
			i++
		case 1:
			j++
		case 2:
			k++
		}
	}
	return out
}
