package bvgraph

import (
	"bytes"
	"testing"
)

func TestPropertiesSaveLoadRoundTrip(t *testing.T) {
	want := Properties{
		Nodes:             100,
		Arcs:              250,
		CompFlags:         DefaultCompFlags(),
		WindowSize:        7,
		MaxRefCount:       3,
		MinIntervalLength: 4,
		BigEndian:         true,
		ZetaK:             3,
	}

	var buf bytes.Buffer
	if err := Save(&buf, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestPropertiesLoadRequiresZetaKOnlyForZetaResiduals(t *testing.T) {
	p := DefaultProperties()
	p.Nodes, p.Arcs = 5, 5
	p.CompFlags.Residuals = CodeDelta

	var buf bytes.Buffer
	if err := Save(&buf, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.CompFlags.Residuals != CodeDelta {
		t.Errorf("Residuals = %v, want DELTA", got.CompFlags.Residuals)
	}
}
