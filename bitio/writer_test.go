package bitio

import (
	"os"
	"testing"

	"github.com/webgraph-go/bvgraph/internal/testutil"
)

func TestWriteBitsReadBitsRoundTrip(t *testing.T) {
	for _, order := range []BitOrder{M2L, L2M} {
		vals := []struct {
			v uint64
			n uint
		}{
			{0, 1}, {1, 1}, {5, 3}, {0xff, 8}, {0x123456789abcdef, 60}, {^uint64(0), 64},
		}

		w := NewMemWordWriter(64, order == M2L)
		bw := NewWriter(w, order)
		for _, tc := range vals {
			if err := bw.WriteBits(tc.v, tc.n); err != nil {
				t.Fatalf("order=%v: WriteBits(%d,%d): %v", order, tc.v, tc.n, err)
			}
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("order=%v: Flush: %v", order, err)
		}

		br := NewReader(NewMemWordBackend(w.Bytes(), 64, order == M2L), order)
		for _, tc := range vals {
			got, err := br.ReadBits(tc.n)
			if err != nil {
				t.Fatalf("order=%v: ReadBits(%d): %v", order, tc.n, err)
			}
			mask := uint64(1)<<tc.n - 1
			if tc.n == 64 {
				mask = ^uint64(0)
			}
			if got != tc.v&mask {
				t.Errorf("order=%v: got %#x, want %#x", order, got, tc.v&mask)
			}
		}
	}
}

func TestFileWordBackendRoundTrip(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "bitio-file-*")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	wb := NewFileWordBackendWriter(f, 64, true)
	bw := NewWriter(wb, M2L)
	if err := WriteGamma(bw, 12345); err != nil {
		t.Fatal(err)
	}
	if err := WriteDelta(bw, 987654321); err != nil {
		t.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := wb.Flush(); err != nil {
		t.Fatal(err)
	}

	rf, err := os.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	rb := NewFileWordBackendReader(rf, 64, true)
	br := NewReader(rb, M2L)
	if got, err := ReadGamma(br); err != nil || got != 12345 {
		t.Errorf("ReadGamma = %d, %v, want 12345", got, err)
	}
	if got, err := ReadDelta(br); err != nil || got != 987654321 {
		t.Errorf("ReadDelta = %d, %v, want 987654321", got, err)
	}
}

func TestRandomBitPayloadRoundTrip(t *testing.T) {
	r := testutil.NewRand(99)
	for _, order := range []BitOrder{M2L, L2M} {
		n := 200
		widths := make([]uint, n)
		vals := make([]uint64, n)
		for i := 0; i < n; i++ {
			width := uint(1 + r.Intn(64))
			widths[i] = width
			v := uint64(r.Int())
			if width < 64 {
				v &= 1<<width - 1
			}
			vals[i] = v
		}

		w := NewMemWordWriter(64, order == M2L)
		bw := NewWriter(w, order)
		for i := range vals {
			if err := bw.WriteBits(vals[i], widths[i]); err != nil {
				t.Fatalf("order=%v: WriteBits #%d: %v", order, i, err)
			}
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("order=%v: Flush: %v", order, err)
		}

		br := NewReader(NewMemWordBackend(w.Bytes(), 64, order == M2L), order)
		for i := range vals {
			got, err := br.ReadBits(widths[i])
			if err != nil {
				t.Fatalf("order=%v: ReadBits #%d: %v", order, i, err)
			}
			if got != vals[i] {
				t.Errorf("order=%v: value #%d got %#x, want %#x", order, i, got, vals[i])
			}
		}
	}
}
