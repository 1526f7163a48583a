package sortpairs

import (
	"path/filepath"
	"testing"
)

func newUint64Payload() Payload {
	var p Uint64Payload
	return &p
}

func TestSortPairsPushAndDrain(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "batches")
	sp, err := New(10, dir, newUint64Payload)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sp.CancelBatches()

	const n = 25
	for i := int64(0); i < n; i++ {
		payload := Uint64Payload(i + 2)
		if err := sp.Push(i, i+1, &payload); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}

	merge, err := sp.Iter()
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	for i := int64(0); i < n; i++ {
		row, ok, err := merge.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if !ok {
			t.Fatalf("Next(%d): exhausted early", i)
		}
		if row.Src != i || row.Dst != i+1 {
			t.Errorf("row %d: got (%d,%d), want (%d,%d)", i, row.Src, row.Dst, i, i+1)
		}
		want := Uint64Payload(i + 2)
		if got := *row.Payload.(*Uint64Payload); got != want {
			t.Errorf("row %d: payload got %d, want %d", i, got, want)
		}
	}
	if _, ok, err := merge.Next(); err != nil || ok {
		t.Errorf("expected exhaustion, got ok=%v err=%v", ok, err)
	}
}

func TestBatchIteratorCloneIndependence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "batches")
	sp, err := New(5, dir, func() Payload { return EmptyPayload{} })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sp.CancelBatches()

	for i := int64(0); i < 5; i++ {
		if err := sp.Push(i, i*2, EmptyPayload{}); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}
	if err := sp.dumpBatch(); err != nil {
		t.Fatalf("dumpBatch: %v", err)
	}

	it, err := OpenBatchIterator(sp.batchPaths[0], func() Payload { return EmptyPayload{} })
	if err != nil {
		t.Fatalf("OpenBatchIterator: %v", err)
	}
	defer it.Close()

	// advance the original past the first row
	if _, _, err := it.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	clone, err := it.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer clone.Close()

	for i := 0; i < 4; i++ {
		a, aok, aerr := it.Next()
		b, bok, berr := clone.Next()
		if aerr != nil || berr != nil {
			t.Fatalf("row %d: errs %v %v", i, aerr, berr)
		}
		if aok != bok || a != b {
			t.Errorf("row %d: original=%v(%v) clone=%v(%v)", i, a, aok, b, bok)
		}
	}
}
