// Package sortpairs implements the external-memory K-way merge sorter over
// (src, dst, payload) triples described in spec §4.3, grounded on
// `_examples/original_source/src/utils/sort_pairs.rs`.
package sortpairs

import "github.com/webgraph-go/bvgraph/bitio"

// Payload is the codec contract spec §4.3/§8 (testable property #5) names:
// a payload type must round-trip through a bit-level encoding so it can
// ride alongside a (src, dst) pair through the batch files.
type Payload interface {
	ToBitstream(w bitio.BitWriter) error
	FromBitstream(r bitio.BitReader) error
}

// EmptyPayload is the zero-bit payload used when only the arc structure
// matters (e.g. plain transpose).
type EmptyPayload struct{}

func (EmptyPayload) ToBitstream(bitio.BitWriter) error   { return nil }
func (EmptyPayload) FromBitstream(bitio.BitReader) error { return nil }

// Uint64Payload packs a 64-bit label (e.g. an original arc's ordinal) as
// two γ-codes, one for each
// 32-bit half, per spec §4.3's "two γ-codes packing a 64-bit quantity".
type Uint64Payload uint64

func (p Uint64Payload) ToBitstream(w bitio.BitWriter) error {
	if err := bitio.WriteGamma(w, uint64(uint32(p>>32))); err != nil {
		return err
	}
	return bitio.WriteGamma(w, uint64(uint32(p)))
}

func (p *Uint64Payload) FromBitstream(r bitio.BitReader) error {
	hi, err := bitio.ReadGamma(r)
	if err != nil {
		return err
	}
	lo, err := bitio.ReadGamma(r)
	if err != nil {
		return err
	}
	*p = Uint64Payload(hi<<32 | lo)
	return nil
}
