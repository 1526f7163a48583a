package bitio

import "math/bits"

// This file implements the universal integer codes spec §4.1 builds the
// rest of BVGraph on: unary, γ (gamma), δ (delta) and ζ_k (zeta-k), plus the
// signed/unsigned folding (nat2int/int2nat) used for interval starts and the
// first residual of a gap list.

// unaryTableMSB holds, for each of the 256 possible next 8 bits where the
// next bit to consume is the byte's MSB (M2L order), the unary value if the
// terminating one bit occurs within those 8 bits, or -1 if it doesn't — the
// short-unary acceleration spec §4.1 calls for so the overwhelmingly common
// small-gap case avoids a bit-by-bit scan.
var unaryTableMSB [256]int8

// unaryTableLSB is the same acceleration table for L2M order, where the
// next bit to consume is the byte's LSB.
var unaryTableLSB [256]int8

func init() {
	for b := 0; b < 256; b++ {
		if lz := bits.LeadingZeros8(uint8(b)); lz == 8 {
			unaryTableMSB[b] = -1
		} else {
			unaryTableMSB[b] = int8(lz)
		}
		if tz := bits.TrailingZeros8(uint8(b)); tz == 8 {
			unaryTableLSB[b] = -1
		} else {
			unaryTableLSB[b] = int8(tz)
		}
	}
}

// ReadUnaryFast reads a unary value using an 8-bit lookup table when the
// terminating bit falls within the next byte, falling back to r.ReadUnary
// for longer runs or backends PeekBits can't serve. The table is selected
// by the reader's bit order — M2L's next bit is the peeked byte's MSB,
// L2M's is its LSB — so the fast path is correct under either order.
func ReadUnaryFast(r BitReader) (uint64, error) {
	peek, err := r.PeekBits(8)
	if err != nil {
		return r.ReadUnary()
	}
	table := &unaryTableMSB
	if _, ok := r.(*readerL2M); ok {
		table = &unaryTableLSB
	}
	if v := table[peek]; v >= 0 {
		if err := r.SkipBits(uint(v) + 1); err != nil {
			return 0, err
		}
		return uint64(v), nil
	}
	return r.ReadUnary()
}

// ReadGamma reads Elias γ: unary(⌊log2(x+1)⌋) followed by that many binary
// bits, encoding x+1.
func ReadGamma(r BitReader) (uint64, error) {
	msb, err := ReadUnaryFast(r)
	if err != nil {
		return 0, err
	}
	if msb == 0 {
		return 0, nil
	}
	low, err := r.ReadBits(uint(msb))
	if err != nil {
		return 0, err
	}
	return (uint64(1)<<msb | low) - 1, nil
}

// WriteGamma writes x using Elias γ.
func WriteGamma(w BitWriter, x uint64) error {
	xp1 := x + 1
	msb := uint(bits.Len64(xp1)) - 1
	if err := w.WriteUnary(uint64(msb)); err != nil {
		return err
	}
	if msb == 0 {
		return nil
	}
	return w.WriteBits(xp1&((uint64(1)<<msb)-1), msb)
}

// LenGamma returns the bit length of γ(x), used by the mock writer during
// reference/code-field selection.
func LenGamma(x uint64) uint {
	msb := uint(bits.Len64(x+1)) - 1
	return 2*msb + 1
}

// ReadDelta reads Elias δ: γ(⌊log2(x+1)⌋) followed by the low bits of x+1.
func ReadDelta(r BitReader) (uint64, error) {
	msb, err := ReadGamma(r)
	if err != nil {
		return 0, err
	}
	if msb == 0 {
		return 0, nil
	}
	low, err := r.ReadBits(uint(msb))
	if err != nil {
		return 0, err
	}
	return (uint64(1)<<msb | low) - 1, nil
}

// WriteDelta writes x using Elias δ.
func WriteDelta(w BitWriter, x uint64) error {
	xp1 := x + 1
	msb := uint(bits.Len64(xp1)) - 1
	if err := WriteGamma(w, uint64(msb)); err != nil {
		return err
	}
	if msb == 0 {
		return nil
	}
	return w.WriteBits(xp1&((uint64(1)<<msb)-1), msb)
}

// LenDelta returns the bit length of δ(x).
func LenDelta(x uint64) uint {
	msb := uint(bits.Len64(x+1)) - 1
	return LenGamma(uint64(msb)) + msb
}

// ReadZeta reads ζ_k (k>=1): for k=1 this degenerates to γ. Otherwise it
// reads the unary part h, then h·k+k-1 bits; a value below 2^(h·k) is
// complete, otherwise one more bit is read to finish the (h+1)·k-bit suffix.
func ReadZeta(r BitReader, k uint) (uint64, error) {
	if k == 1 {
		return ReadGamma(r)
	}
	h, err := ReadUnaryFast(r)
	if err != nil {
		return 0, err
	}
	hk := uint(h) * k
	left := uint64(1) << hk
	low, err := r.ReadBits(hk + k - 1)
	if err != nil {
		return 0, err
	}
	if low < left {
		return left + low - 1, nil
	}
	extra, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}
	return ((low << 1) | extra) - 1, nil
}

// WriteZeta writes x using ζ_k (k>=1).
func WriteZeta(w BitWriter, x uint64, k uint) error {
	if k == 1 {
		return WriteGamma(w, x)
	}
	xp1 := x + 1
	h := uint(bits.Len64(xp1)-1) / k
	if err := w.WriteUnary(uint64(h)); err != nil {
		return err
	}
	left := uint64(1) << (h * k)
	if xp1-left < left {
		return w.WriteBits(xp1-left, h*k+k-1)
	}
	// Top h·k+k-1 bits first, then the last bit: the order ReadZeta reads
	// them in, under either bit order.
	if err := w.WriteBits(xp1>>1, h*k+k-1); err != nil {
		return err
	}
	return w.WriteBits(xp1&1, 1)
}

// LenZeta returns the bit length of ζ_k(x).
func LenZeta(x uint64, k uint) uint {
	if k == 1 {
		return LenGamma(x)
	}
	xp1 := x + 1
	h := uint(bits.Len64(xp1)-1) / k
	left := uint64(1) << (h * k)
	if xp1-left < left {
		return h + 1 + (h*k + k - 1)
	}
	return h + 1 + (h*k + k)
}

// LenUnary returns the bit length of unary(x).
func LenUnary(x uint64) uint { return uint(x) + 1 }

// Int2Nat folds a signed delta onto the naturals: 0,-1,1,-2,2,... -> 0,1,2,3,4,...
// Used for interval starts and the first residual of a gap list, both of
// which may legitimately be negative relative to their reference point.
func Int2Nat(x int64) uint64 {
	if x >= 0 {
		return uint64(x) << 1
	}
	return (uint64(-x) << 1) - 1
}

// Nat2Int is the inverse of Int2Nat.
func Nat2Int(x uint64) int64 {
	if x&1 == 0 {
		return int64(x >> 1)
	}
	return -int64((x + 1) >> 1)
}
