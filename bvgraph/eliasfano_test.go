package bvgraph

import "testing"

func TestEliasFanoSelectAndMarshal(t *testing.T) {
	values := []int64{0, 3, 3, 7, 12, 12, 12, 20, 21, 1000}
	ef := BuildEliasFano(values)
	if ef.Len() != int64(len(values)) {
		t.Fatalf("Len() = %d, want %d", ef.Len(), len(values))
	}
	for i, want := range values {
		if got := ef.Select(int64(i)); got != want {
			t.Errorf("Select(%d) = %d, want %d", i, got, want)
		}
	}

	data, err := ef.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var restored EliasFano
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if restored.Len() != ef.Len() {
		t.Fatalf("restored Len() = %d, want %d", restored.Len(), ef.Len())
	}
	for i, want := range values {
		if got := restored.Select(int64(i)); got != want {
			t.Errorf("restored Select(%d) = %d, want %d", i, got, want)
		}
	}
}
