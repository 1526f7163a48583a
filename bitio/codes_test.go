package bitio

import "testing"

func TestGammaRoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 1, 2, 3, 7, 8, 255, 256, 1 << 20, 1 << 40} {
		w := NewMemWordWriter(64, false)
		bw := NewWriter(w, L2M)
		if err := WriteGamma(bw, x); err != nil {
			t.Fatalf("x=%d: WriteGamma: %v", x, err)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("x=%d: Flush: %v", x, err)
		}
		if got := LenGamma(x); got != uint(bw.Position()) {
			t.Errorf("x=%d: LenGamma=%d, written=%d", x, got, bw.Position())
		}

		br := NewReader(NewMemWordBackend(w.Bytes(), 64, false), L2M)
		got, err := ReadGamma(br)
		if err != nil {
			t.Fatalf("x=%d: ReadGamma: %v", x, err)
		}
		if got != x {
			t.Errorf("x=%d: round trip got %d", x, got)
		}
	}
}

func TestDeltaRoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 1, 2, 3, 7, 8, 255, 256, 1 << 20, 1 << 40} {
		w := NewMemWordWriter(64, true)
		bw := NewWriter(w, M2L)
		if err := WriteDelta(bw, x); err != nil {
			t.Fatalf("x=%d: WriteDelta: %v", x, err)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("x=%d: Flush: %v", x, err)
		}
		if got := LenDelta(x); got != uint(bw.Position()) {
			t.Errorf("x=%d: LenDelta=%d, written=%d", x, got, bw.Position())
		}

		br := NewReader(NewMemWordBackend(w.Bytes(), 64, true), M2L)
		got, err := ReadDelta(br)
		if err != nil {
			t.Fatalf("x=%d: ReadDelta: %v", x, err)
		}
		if got != x {
			t.Errorf("x=%d: round trip got %d", x, got)
		}
	}
}

func TestZetaRoundTrip(t *testing.T) {
	for _, k := range []uint{1, 2, 3, 4} {
		for _, x := range []uint64{0, 1, 2, 3, 7, 8, 255, 256, 1 << 20} {
			w := NewMemWordWriter(32, false)
			bw := NewWriter(w, L2M)
			if err := WriteZeta(bw, x, k); err != nil {
				t.Fatalf("k=%d x=%d: WriteZeta: %v", k, x, err)
			}
			if err := bw.Flush(); err != nil {
				t.Fatalf("k=%d x=%d: Flush: %v", k, x, err)
			}
			if got := LenZeta(x, k); got != uint(bw.Position()) {
				t.Errorf("k=%d x=%d: LenZeta=%d, written=%d", k, x, got, bw.Position())
			}

			br := NewReader(NewMemWordBackend(w.Bytes(), 32, false), L2M)
			got, err := ReadZeta(br, k)
			if err != nil {
				t.Fatalf("k=%d x=%d: ReadZeta: %v", k, x, err)
			}
			if got != x {
				t.Errorf("k=%d x=%d: round trip got %d", k, x, got)
			}
		}
	}
}

func TestUnaryRoundTripAndFastPath(t *testing.T) {
	for _, x := range []uint64{0, 1, 5, 7, 8, 9, 100} {
		w := NewMemWordWriter(64, false)
		bw := NewWriter(w, M2L)
		if err := bw.WriteUnary(x); err != nil {
			t.Fatalf("x=%d: WriteUnary: %v", x, err)
		}
		if err := bw.Flush(); err != nil {
			t.Fatalf("x=%d: Flush: %v", x, err)
		}
		if got := LenUnary(x); got != uint(bw.Position()) {
			t.Errorf("x=%d: LenUnary=%d, written=%d", x, got, bw.Position())
		}

		br := NewReader(NewMemWordBackend(w.Bytes(), 64, false), M2L)
		got, err := ReadUnaryFast(br)
		if err != nil {
			t.Fatalf("x=%d: ReadUnaryFast: %v", x, err)
		}
		if got != x {
			t.Errorf("x=%d: round trip got %d", x, got)
		}
	}
}

func TestNat2IntInt2NatBijection(t *testing.T) {
	for _, x := range []int64{0, -1, 1, -2, 2, -1000, 1000} {
		n := Int2Nat(x)
		got := Nat2Int(n)
		if got != x {
			t.Errorf("x=%d: Int2Nat=%d, Nat2Int back=%d", x, n, got)
		}
	}
	// The bijection must hit every natural in order: 0,-1,1,-2,2,...
	want := []int64{0, -1, 1, -2, 2, -3, 3}
	for n, w := range want {
		if got := Nat2Int(uint64(n)); got != w {
			t.Errorf("Nat2Int(%d) = %d, want %d", n, got, w)
		}
	}
}
