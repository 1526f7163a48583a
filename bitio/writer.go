package bitio

import "github.com/webgraph-go/bvgraph/internal/codeerr"

const writerOp = "bitio.Writer"

// BitWriter is the write side of BitReader: buffered, seek-free, append
// only. Flush must be called once writing is complete; it zero-pads the
// final partial word (spec §4.1).
type BitWriter interface {
	// WriteBits writes the low n bits of value, n in [0,64].
	WriteBits(value uint64, n uint) error
	// WriteUnary writes value zero bits followed by a one bit.
	WriteUnary(value uint64) error
	// Flush finalizes the last partial word, zero-padding as needed.
	Flush() error
	// Position reports the number of bits written so far (including any
	// buffered-but-unflushed bits).
	Position() int64
	// WordBits reports the backend's word width.
	WordBits() uint
}

// NewWriter builds the tagged BitWriter variant for order.
func NewWriter(backend WordBackend, order BitOrder) BitWriter {
	if order == M2L {
		return &writerM2L{backend: backend, wordBits: backend.WordBits()}
	}
	return &writerL2M{backend: backend, wordBits: backend.WordBits()}
}

// --- M2L (MSB-first) ---

type writerM2L struct {
	backend    WordBackend
	wordBits   uint
	buf        bits128
	bufferBits uint // number of bits currently sitting in buf, top-justified
	written    int64
}

func (w *writerM2L) WordBits() uint  { return w.wordBits }
func (w *writerM2L) Position() int64 { return w.written }

func (w *writerM2L) drain() error {
	for w.bufferBits >= w.wordBits {
		word := topBits(w.buf, w.wordBits)
		if err := w.backend.WriteWord(word); err != nil {
			return err
		}
		w.buf = shl128(w.buf, w.wordBits)
		w.bufferBits -= w.wordBits
	}
	return nil
}

func (w *writerM2L) WriteBits(value uint64, n uint) error {
	if n > 64 {
		return codeerr.New(codeerr.BadArgument, writerOp, "n_bits must be in [0,64], got %d", n)
	}
	if n == 0 {
		return nil
	}
	if n < 64 {
		value &= (uint64(1) << n) - 1
	}
	w.buf = or128(w.buf, shl128(bits128{lo: value}, 128-w.bufferBits-n))
	w.bufferBits += n
	w.written += int64(n)
	return w.drain()
}

func (w *writerM2L) WriteUnary(value uint64) error {
	for value >= 64 {
		if err := w.WriteBits(0, 64); err != nil {
			return err
		}
		value -= 64
	}
	// value zeros then a one: that's (value+1) bits with only the low bit set.
	return w.WriteBits(1, uint(value)+1)
}

func (w *writerM2L) Flush() error {
	if err := w.drain(); err != nil {
		return err
	}
	if w.bufferBits > 0 {
		pad := w.wordBits - w.bufferBits
		word := topBits(w.buf, w.bufferBits) << pad
		if err := w.backend.WriteWord(word); err != nil {
			return err
		}
		w.buf = bits128{}
		w.bufferBits = 0
	}
	if f, ok := w.backend.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// --- L2M (LSB-first) ---

type writerL2M struct {
	backend    WordBackend
	wordBits   uint
	buf        bits128
	bufferBits uint
	written    int64
}

func (w *writerL2M) WordBits() uint  { return w.wordBits }
func (w *writerL2M) Position() int64 { return w.written }

func (w *writerL2M) drain() error {
	for w.bufferBits >= w.wordBits {
		word := w.buf.lo
		if w.wordBits < 64 {
			word &= (uint64(1) << w.wordBits) - 1
		}
		if err := w.backend.WriteWord(word); err != nil {
			return err
		}
		w.buf = shr128(w.buf, w.wordBits)
		w.bufferBits -= w.wordBits
	}
	return nil
}

func (w *writerL2M) WriteBits(value uint64, n uint) error {
	if n > 64 {
		return codeerr.New(codeerr.BadArgument, writerOp, "n_bits must be in [0,64], got %d", n)
	}
	if n == 0 {
		return nil
	}
	if n < 64 {
		value &= (uint64(1) << n) - 1
	}
	w.buf = or128(w.buf, shl128(bits128{lo: value}, w.bufferBits))
	w.bufferBits += n
	w.written += int64(n)
	return w.drain()
}

func (w *writerL2M) WriteUnary(value uint64) error {
	for value >= 64 {
		if err := w.WriteBits(0, 64); err != nil {
			return err
		}
		value -= 64
	}
	return w.WriteBits(uint64(1)<<value, uint(value)+1)
}

func (w *writerL2M) Flush() error {
	if err := w.drain(); err != nil {
		return err
	}
	if w.bufferBits > 0 {
		word := maskLow(w.buf.lo, w.bufferBits)
		if err := w.backend.WriteWord(word); err != nil {
			return err
		}
		w.buf = bits128{}
		w.bufferBits = 0
	}
	if f, ok := w.backend.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
