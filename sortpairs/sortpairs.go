package sortpairs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const spOp = "sortpairs.SortPairs"

// SortPairs ingests an unordered stream of (src, dst, payload) triples and
// produces a sorted stream, spilling to disk in batches — spec §4.3's
// external-memory transpose primitive.
type SortPairs struct {
	batchSize  int
	tempDir    string
	newPayload NewPayload
	buf        []Triple
	batchPaths []string
	nextID     int
}

// New creates a SortPairs spilling batches of batchSize triples into
// tempDir, which must be an empty directory or not exist yet (it is then
// created); a non-empty tempDir is rejected.
func New(batchSize int, tempDir string, newPayload NewPayload) (*SortPairs, error) {
	if batchSize <= 0 {
		return nil, codeerr.New(codeerr.BadArgument, spOp, "batch_size must be positive, got %d", batchSize)
	}
	if entries, err := os.ReadDir(tempDir); err == nil {
		if len(entries) > 0 {
			return nil, codeerr.New(codeerr.BadArgument, spOp, "temp_dir %s is not empty", tempDir)
		}
	} else if !os.IsNotExist(err) {
		return nil, codeerr.Wrap(codeerr.BackendIO, spOp, err, "read temp_dir %s", tempDir)
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, codeerr.Wrap(codeerr.BackendIO, spOp, err, "create temp_dir %s", tempDir)
	}
	return &SortPairs{batchSize: batchSize, tempDir: tempDir, newPayload: newPayload}, nil
}

// Push buffers one triple, dumping a batch once batch_size triples
// accumulate.
func (sp *SortPairs) Push(src, dst int64, payload Payload) error {
	sp.buf = append(sp.buf, Triple{Src: src, Dst: dst, Payload: payload})
	if len(sp.buf) >= sp.batchSize {
		return sp.dumpBatch()
	}
	return nil
}

func (sp *SortPairs) dumpBatch() error {
	if len(sp.buf) == 0 {
		return nil
	}
	path := filepath.Join(sp.tempDir, fmt.Sprintf("batch-%08d.bin", sp.nextID))
	sp.nextID++
	if err := writeBatch(path, sp.buf); err != nil {
		return err
	}
	sp.batchPaths = append(sp.batchPaths, path)
	sp.buf = sp.buf[:0]
	return nil
}

// Iter flushes any partial batch and returns a K-way merge iterator over
// every batch, yielding triples in non-decreasing (src, dst) order.
func (sp *SortPairs) Iter() (*MergeIterator, error) {
	if err := sp.dumpBatch(); err != nil {
		return nil, err
	}
	sources := make([]RowSource, 0, len(sp.batchPaths))
	for _, p := range sp.batchPaths {
		it, err := OpenBatchIterator(p, sp.newPayload)
		if err != nil {
			return nil, err
		}
		sources = append(sources, it)
	}
	return NewMergeIterator(sources)
}

// CancelBatches removes every batch file and the temp directory, the
// explicit early-cleanup spec §4.3 calls for. Nothing else removes them:
// dropping the merge iterator leaves the files on disk.
func (sp *SortPairs) CancelBatches() error {
	if err := os.RemoveAll(sp.tempDir); err != nil {
		return codeerr.Wrap(codeerr.BackendIO, spOp, err, "remove temp_dir %s", sp.tempDir)
	}
	sp.batchPaths = nil
	sp.buf = nil
	return nil
}
