// Package bitio is the buffered bit-level I/O layer described in spec §4.1:
// a zero-copy, endian-parametric bit reader/writer over a word-oriented
// backend, supporting the unary/γ/δ/ζ_k universal codes BVGraph uses.
//
// The teacher package's flate.bitReader (see flate/bit_reader.go in the
// example pack) buffers bits in a double-word scratch area and refills from
// an io.Reader one word at a time; this package keeps that buffering idiom
// but generalizes it along two axes the teacher never needed: a pluggable
// word-oriented backend (so the same code works over an in-memory mmap
// slice or a plain file) and a selectable bit order (MSB-first "M2L" or
// LSB-first "L2M"), matching the on-disk format of the BVGraph ecosystem.
package bitio

import (
	"encoding/binary"
	"io"

	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

// BitOrder selects how successive bits are packed within a word.
type BitOrder int

const (
	// M2L ("MSB to LSB") consumes the most significant bit of each word
	// first.
	M2L BitOrder = iota
	// L2M ("LSB to MSB") consumes the least significant bit of each word
	// first.
	L2M
)

func (o BitOrder) String() string {
	if o == M2L {
		return "M2L"
	}
	return "L2M"
}

// WordBackend is the external collaborator spec §1 calls the "word-oriented
// backend": something that can hand back successive fixed-width words and
// reposition itself in word granularity. A read-only in-memory slice (as an
// mmap'd .graph file would supply) satisfies it via MemWordBackend; a plain
// file satisfies it via FileWordBackend.
type WordBackend interface {
	// WordBits is the width of one word: 32 or 64.
	WordBits() uint
	// ReadNextWord returns the next word's value (already corrected for the
	// backend's on-disk byte order) and advances the position by one word.
	ReadNextWord() (uint64, error)
	// WriteWord appends one word (write-only backends only).
	WriteWord(w uint64) error
	// Position reports the current position in words.
	Position() int64
	// SetPosition repositions to word index n.
	SetPosition(n int64) error
}

// MemWordBackend is a read-only WordBackend over an in-memory byte slice,
// exactly what a memory-mapped .graph file provides once mapped by an
// external collaborator (spec §1: "mmap backends supply a read-only word
// slice").
type MemWordBackend struct {
	data     []byte
	wordBits uint
	big      bool // disk byte order: true = big-endian, false = little-endian
	pos      int64
}

// NewMemWordBackend wraps data as a sequence of wordBits-wide words stored
// in the given on-disk byte order. wordBits must be 32 or 64.
func NewMemWordBackend(data []byte, wordBits uint, bigEndian bool) *MemWordBackend {
	if wordBits != 32 && wordBits != 64 {
		codeerr.Panic(codeerr.BadArgument, "bitio.NewMemWordBackend", "wordBits must be 32 or 64, got %d", wordBits)
	}
	return &MemWordBackend{data: data, wordBits: wordBits, big: bigEndian}
}

func (m *MemWordBackend) WordBits() uint { return m.wordBits }
func (m *MemWordBackend) Position() int64 { return m.pos }

func (m *MemWordBackend) SetPosition(n int64) error {
	if n < 0 || n > int64(len(m.data))/int64(m.wordBits/8) {
		return codeerr.New(codeerr.BackendIO, "bitio.MemWordBackend.SetPosition", "position %d out of range", n)
	}
	m.pos = n
	return nil
}

func (m *MemWordBackend) ReadNextWord() (uint64, error) {
	nbytes := int64(m.wordBits / 8)
	off := m.pos * nbytes
	if off+nbytes > int64(len(m.data)) {
		return 0, io.EOF
	}
	b := m.data[off : off+nbytes]
	m.pos++
	if m.wordBits == 32 {
		if m.big {
			return uint64(binary.BigEndian.Uint32(b)), nil
		}
		return uint64(binary.LittleEndian.Uint32(b)), nil
	}
	if m.big {
		return binary.BigEndian.Uint64(b), nil
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *MemWordBackend) WriteWord(uint64) error {
	return codeerr.New(codeerr.BadArgument, "bitio.MemWordBackend.WriteWord", "backend is read-only")
}

// Bytes returns the backing slice, e.g. so a caller can persist it.
func (m *MemWordBackend) Bytes() []byte { return m.data }

// NewMmapWordBackend wraps an already-mapped byte slice as a read-only
// WordBackend. The actual mmap(2) call is the caller's responsibility
// (e.g. via golang.org/x/sys/unix.Mmap); this constructor only owns the
// resulting slice's word-level addressing, identically to MemWordBackend.
func NewMmapWordBackend(mapped []byte, wordBits uint, bigEndian bool) *MemWordBackend {
	return NewMemWordBackend(mapped, wordBits, bigEndian)
}

// MemWordWriter is an append-only, growable in-memory WordBackend, used as
// an in-memory encoder target and by EliasFano for its low-bits array.
type MemWordWriter struct {
	data     []byte
	wordBits uint
	big      bool
	pos      int64
}

// NewMemWordWriter creates an empty append-only word backend.
func NewMemWordWriter(wordBits uint, bigEndian bool) *MemWordWriter {
	if wordBits != 32 && wordBits != 64 {
		codeerr.Panic(codeerr.BadArgument, "bitio.NewMemWordWriter", "wordBits must be 32 or 64, got %d", wordBits)
	}
	return &MemWordWriter{wordBits: wordBits, big: bigEndian}
}

func (m *MemWordWriter) WordBits() uint  { return m.wordBits }
func (m *MemWordWriter) Position() int64 { return m.pos }

func (m *MemWordWriter) SetPosition(n int64) error {
	if n < 0 || n > int64(len(m.data))/int64(m.wordBits/8) {
		return codeerr.New(codeerr.BackendIO, "bitio.MemWordWriter.SetPosition", "position %d out of range", n)
	}
	m.pos = n
	return nil
}

func (m *MemWordWriter) ReadNextWord() (uint64, error) {
	nbytes := int64(m.wordBits / 8)
	off := m.pos * nbytes
	if off+nbytes > int64(len(m.data)) {
		return 0, io.EOF
	}
	b := m.data[off : off+nbytes]
	m.pos++
	if m.wordBits == 32 {
		if m.big {
			return uint64(binary.BigEndian.Uint32(b)), nil
		}
		return uint64(binary.LittleEndian.Uint32(b)), nil
	}
	if m.big {
		return binary.BigEndian.Uint64(b), nil
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (m *MemWordWriter) WriteWord(w uint64) error {
	nbytes := int(m.wordBits / 8)
	off := m.pos * int64(nbytes)
	if off+int64(nbytes) > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, off+int64(nbytes)-int64(len(m.data)))...)
	}
	b := m.data[off : off+int64(nbytes)]
	if m.wordBits == 32 {
		if m.big {
			binary.BigEndian.PutUint32(b, uint32(w))
		} else {
			binary.LittleEndian.PutUint32(b, uint32(w))
		}
	} else {
		if m.big {
			binary.BigEndian.PutUint64(b, w)
		} else {
			binary.LittleEndian.PutUint64(b, w)
		}
	}
	m.pos++
	return nil
}

// Bytes returns the bytes written so far.
func (m *MemWordWriter) Bytes() []byte { return m.data }
