package sortpairs

import (
	"os"
	"sort"

	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const batchOp = "sortpairs.batch"

// Triple is one (src, dst, payload) row, spec §4.3's unit of work.
type Triple struct {
	Src, Dst int64
	Payload  Payload
}

// NewPayload constructs a zero-valued Payload for FromBitstream to fill in;
// callers supply one matching whatever payload type they push.
type NewPayload func() Payload

// writeBatch sorts rows by (src, dst) (payload order is irrelevant and left
// unspecified, per spec §4.3's "K-way merge" note) and writes them as a
// length-prefixed, LSB-first (L2M) bitstream: a 64-bit triple count header,
// then per spec §4.3's batch format: src_gap (γ), a prev_dst reset when
// src_gap>0, dst_gap (γ), and the payload codec.
func writeBatch(path string, rows []Triple) error {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Src != rows[j].Src {
			return rows[i].Src < rows[j].Src
		}
		return rows[i].Dst < rows[j].Dst
	})

	f, err := os.Create(path)
	if err != nil {
		return codeerr.Wrap(codeerr.BackendIO, batchOp, err, "create batch file %s", path)
	}
	defer f.Close()

	backend := bitio.NewFileWordBackendWriter(f, 64, false)
	if err := backend.WriteWord(uint64(len(rows))); err != nil {
		return codeerr.Wrap(codeerr.BackendIO, batchOp, err, "write batch header")
	}
	w := bitio.NewWriter(backend, bitio.L2M)

	var prevSrc, prevDst int64
	for _, row := range rows {
		srcGap := row.Src - prevSrc
		if err := bitio.WriteGamma(w, uint64(srcGap)); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, batchOp, err, "write src_gap")
		}
		if srcGap > 0 {
			prevDst = 0
		}
		dstGap := row.Dst - prevDst
		if err := bitio.WriteGamma(w, uint64(dstGap)); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, batchOp, err, "write dst_gap")
		}
		if row.Payload != nil {
			if err := row.Payload.ToBitstream(w); err != nil {
				return codeerr.Wrap(codeerr.BackendIO, batchOp, err, "write payload")
			}
		}
		prevSrc, prevDst = row.Src, row.Dst
	}
	if err := w.Flush(); err != nil {
		return codeerr.Wrap(codeerr.BackendIO, batchOp, err, "flush batch")
	}
	return backend.Flush()
}

// BatchIterator is a stateful cursor over one batch file, supporting Clone
// (reopen + seek to the same bit position) so one batch can feed multiple
// concurrent merges, per spec §4.3.
type BatchIterator struct {
	path       string
	newPayload NewPayload
	f          *os.File
	backend    *bitio.FileWordBackend
	br         bitio.BitReader
	prevSrc    int64
	prevDst    int64
	remaining  int
}

// OpenBatchIterator opens path at its start.
func OpenBatchIterator(path string, newPayload NewPayload) (*BatchIterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, codeerr.Wrap(codeerr.BackendIO, batchOp, err, "open batch file %s", path)
	}
	backend := bitio.NewFileWordBackendReader(f, 64, false)
	count, err := backend.ReadNextWord()
	if err != nil {
		f.Close()
		return nil, codeerr.Wrap(codeerr.BackendIO, batchOp, err, "read batch header")
	}
	return &BatchIterator{
		path:       path,
		newPayload: newPayload,
		f:          f,
		backend:    backend,
		br:         bitio.NewReader(backend, bitio.L2M),
		remaining:  int(count),
	}, nil
}

// Next returns the next triple, or ok=false once the batch is exhausted.
func (it *BatchIterator) Next() (Triple, bool, error) {
	if it.remaining <= 0 {
		return Triple{}, false, nil
	}
	srcGap, err := bitio.ReadGamma(it.br)
	if err != nil {
		return Triple{}, false, codeerr.Wrap(codeerr.BackendIO, batchOp, err, "read src_gap")
	}
	if srcGap > 0 {
		it.prevDst = 0
	}
	it.prevSrc += int64(srcGap)
	dstGap, err := bitio.ReadGamma(it.br)
	if err != nil {
		return Triple{}, false, codeerr.Wrap(codeerr.BackendIO, batchOp, err, "read dst_gap")
	}
	it.prevDst += int64(dstGap)
	var payload Payload
	if it.newPayload != nil {
		payload = it.newPayload()
		if err := payload.FromBitstream(it.br); err != nil {
			return Triple{}, false, codeerr.Wrap(codeerr.BackendIO, batchOp, err, "read payload")
		}
	}
	it.remaining--
	return Triple{Src: it.prevSrc, Dst: it.prevDst, Payload: payload}, true, nil
}

// Clone reopens the batch file and seeks to this iterator's current bit
// position, producing an independent cursor with the same (prevSrc,
// prevDst, remaining) state.
func (it *BatchIterator) Clone() (*BatchIterator, error) {
	f, err := os.Open(it.path)
	if err != nil {
		return nil, codeerr.Wrap(codeerr.BackendIO, batchOp, err, "reopen batch file %s", it.path)
	}
	backend := bitio.NewFileWordBackendReader(f, 64, false)
	if err := backend.SetPosition(1); err != nil {
		f.Close()
		return nil, err
	}
	br := bitio.NewReader(backend, bitio.L2M)
	if err := br.SeekBit(it.br.Position()); err != nil {
		f.Close()
		return nil, codeerr.Wrap(codeerr.BackendIO, batchOp, err, "seek cloned iterator")
	}
	return &BatchIterator{
		path:       it.path,
		newPayload: it.newPayload,
		f:          f,
		backend:    backend,
		br:         br,
		prevSrc:    it.prevSrc,
		prevDst:    it.prevDst,
		remaining:  it.remaining,
	}, nil
}

// Close releases the underlying file handle.
func (it *BatchIterator) Close() error {
	return it.f.Close()
}
