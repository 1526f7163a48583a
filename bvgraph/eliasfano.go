package bvgraph

import (
	"encoding/binary"
	"math/bits"

	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const efOp = "bvgraph.EliasFano"

// sampleRate controls how densely EliasFano.Select's inventory samples the
// high-bits vector: one sample per sampleRate one-bits, bounding the linear
// scan Select falls back to once it lands near the target. This is a
// simplification of the fully succinct rank/select structure the BVGraph
// ecosystem's .ef format uses (a two-level index over broadword popcount);
// it keeps Select O(sampleRate) amortized instead of O(1) worst case, which
// is adequate at the node counts this module is exercised against.
const sampleRate = 64

// EliasFano is the monotone non-decreasing sequence encoding spec §6's
// `.ef` file describes: it maps node id -> bit offset in the `.graph` file,
// supporting random-access decoding.
type EliasFano struct {
	n       int64
	u       int64
	l       uint
	lowBits []byte // packed, l bits per element, L2M
	high    []uint64
	samples []uint64 // samples[j] = bit position of the (j*sampleRate)-th one in high
}

// BuildEliasFano encodes the monotone non-decreasing sequence values (typically
// node id -> bit offset).
func BuildEliasFano(values []int64) *EliasFano {
	n := int64(len(values))
	ef := &EliasFano{n: n}
	if n == 0 {
		return ef
	}
	u := values[n-1] + 1
	if u < 1 {
		u = 1
	}
	ef.u = u
	l := uint(0)
	if n > 0 && u/n > 0 {
		l = uint(bits.Len64(uint64(u/n))) - 1
	}
	ef.l = l

	lowBackend := bitio.NewMemWordWriter(64, false)
	lw := bitio.NewWriter(lowBackend, bitio.L2M)
	highLen := uint64(n) + uint64(u>>l) + 2
	ef.high = make([]uint64, (highLen+63)/64)
	for i, v := range values {
		if l > 0 {
			_ = lw.WriteBits(uint64(v)&((uint64(1)<<l)-1), l)
		}
		high := uint64(v) >> l
		pos := uint64(i) + high
		ef.high[pos/64] |= uint64(1) << (pos % 64)
	}
	if l > 0 {
		lw.Flush()
		ef.lowBits = lowBackend.Bytes()
	}
	ef.buildSamples()
	return ef
}

func (ef *EliasFano) buildSamples() {
	if len(ef.high) == 0 {
		return
	}
	var count uint64
	for w, word := range ef.high {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			pos := uint64(w*64 + bit)
			if count%sampleRate == 0 {
				ef.samples = append(ef.samples, pos)
			}
			count++
			word &= word - 1
		}
	}
}

func (ef *EliasFano) selectHigh(i uint64) uint64 {
	start := uint64(0)
	var word uint64
	wordIdx := 0
	count := uint64(0)
	if len(ef.samples) > 0 {
		si := i / sampleRate
		if si >= uint64(len(ef.samples)) {
			si = uint64(len(ef.samples)) - 1
		}
		start = ef.samples[si]
		count = si * sampleRate
		wordIdx = int(start / 64)
	}
	word = ef.high[wordIdx] &^ ((uint64(1) << (start % 64)) - 1)
	for {
		for word == 0 {
			wordIdx++
			if wordIdx >= len(ef.high) {
				return uint64(len(ef.high)) * 64
			}
			word = ef.high[wordIdx]
		}
		pc := uint64(bits.OnesCount64(word))
		if count+pc > i {
			for {
				bit := bits.TrailingZeros64(word)
				if count == i {
					return uint64(wordIdx*64 + bit)
				}
				word &= word - 1
				count++
			}
		}
		count += pc
		wordIdx++
		if wordIdx >= len(ef.high) {
			return uint64(len(ef.high)) * 64
		}
		word = ef.high[wordIdx]
	}
}

// Select returns the i-th value (0-indexed) of the encoded sequence.
func (ef *EliasFano) Select(i int64) int64 {
	pos := ef.selectHigh(uint64(i))
	high := pos - uint64(i)
	if ef.l == 0 {
		return int64(high)
	}
	r := bitio.NewReader(bitio.NewMemWordBackend(ef.lowBits, 64, false), bitio.L2M)
	if err := r.SeekBit(i * int64(ef.l)); err != nil {
		codeerr.Panic(codeerr.Inconsistency, efOp, "seek low bits: %v", err)
	}
	low, err := r.ReadBits(ef.l)
	if err != nil {
		codeerr.Panic(codeerr.Inconsistency, efOp, "read low bits: %v", err)
	}
	return int64(high<<ef.l | low)
}

// Len returns the number of encoded values.
func (ef *EliasFano) Len() int64 { return ef.n }

// MarshalBinary serializes the structure for the `.ef` file (spec §6:
// "endian-tagged and memory-mappable"). Layout: n, u, l, len(high) words,
// high words, len(lowBits) bytes, lowBits.
func (ef *EliasFano) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 32+len(ef.high)*8+len(ef.lowBits))
	var tmp [8]byte
	put := func(v int64) {
		binary.LittleEndian.PutUint64(tmp[:], uint64(v))
		buf = append(buf, tmp[:]...)
	}
	put(ef.n)
	put(ef.u)
	put(int64(ef.l))
	put(int64(len(ef.high)))
	for _, w := range ef.high {
		binary.LittleEndian.PutUint64(tmp[:], w)
		buf = append(buf, tmp[:]...)
	}
	put(int64(len(ef.lowBits)))
	buf = append(buf, ef.lowBits...)
	return buf, nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (ef *EliasFano) UnmarshalBinary(data []byte) error {
	read := func() int64 {
		v := int64(binary.LittleEndian.Uint64(data[:8]))
		data = data[8:]
		return v
	}
	if len(data) < 32 {
		return codeerr.New(codeerr.MalformedStream, efOp, "truncated .ef header")
	}
	ef.n = read()
	ef.u = read()
	ef.l = uint(read())
	hn := read()
	ef.high = make([]uint64, hn)
	for i := range ef.high {
		ef.high[i] = binary.LittleEndian.Uint64(data[:8])
		data = data[8:]
	}
	ln := read()
	if int64(len(data)) < ln {
		return codeerr.New(codeerr.MalformedStream, efOp, "truncated .ef low bits")
	}
	ef.lowBits = append([]byte(nil), data[:ln]...)
	ef.buildSamples()
	return nil
}
