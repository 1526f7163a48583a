package bvgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/webgraph-go/bvgraph/bitio"
)

func scenarioAGraph() *ArcListGraph {
	arcs := [][2]int64{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 4}, {3, 4}}
	return NewArcListGraph(5, arcs)
}

func TestEncodeDecodeSequentialRoundTrip(t *testing.T) {
	g := scenarioAGraph()
	props := DefaultProperties()

	w := bitio.NewMemWordWriter(64, props.BigEndian)
	arcs, err := CompressSequential(g, w, props)
	if err != nil {
		t.Fatalf("CompressSequential: %v", err)
	}
	if arcs != 6 {
		t.Fatalf("arcs = %d, want 6", arcs)
	}
	props.Nodes, props.Arcs = g.NumNodes(), arcs

	backend := bitio.NewMemWordBackend(w.Bytes(), 64, props.BigEndian)
	decoded, err := Decode(NewBVGraphSequential(backend, props))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for v := int64(0); v < g.NumNodes(); v++ {
		if diff := cmp.Diff(g.Successors(v), decoded[v]); diff != "" {
			t.Errorf("node %d: successors mismatch (-want +got):\n%s", v, diff)
		}
	}
}

func TestEncodeDecodeRandomAccess(t *testing.T) {
	g := scenarioAGraph()
	props := DefaultProperties()

	w := bitio.NewMemWordWriter(64, props.BigEndian)
	arcs, err := CompressSequential(g, w, props)
	if err != nil {
		t.Fatalf("CompressSequential: %v", err)
	}
	props.Nodes, props.Arcs = g.NumNodes(), arcs

	backend := bitio.NewMemWordBackend(w.Bytes(), 64, props.BigEndian)
	offsets, err := BuildOffsets(backend, props)
	if err != nil {
		t.Fatalf("BuildOffsets: %v", err)
	}
	if offsets.Len() != g.NumNodes()+1 {
		t.Fatalf("offsets.Len() = %d, want %d", offsets.Len(), g.NumNodes()+1)
	}

	ra := NewBVGraphRandomAccess(backend, props, offsets)
	for v := int64(0); v < g.NumNodes(); v++ {
		got := ra.Successors(v)
		want := g.Successors(v)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("node %d: Successors mismatch (-want +got):\n%s", v, diff)
		}
		if got, want := ra.Outdegree(v), len(want); got != want {
			t.Errorf("node %d: Outdegree got %d, want %d", v, got, want)
		}
	}
}

func TestGatherStatsMatchesStreamLength(t *testing.T) {
	g := scenarioAGraph()
	props := DefaultProperties()

	w := bitio.NewMemWordWriter(64, props.BigEndian)
	arcs, err := CompressSequential(g, w, props)
	if err != nil {
		t.Fatalf("CompressSequential: %v", err)
	}
	props.Nodes, props.Arcs = g.NumNodes(), arcs

	backend := bitio.NewMemWordBackend(w.Bytes(), 64, props.BigEndian)
	stats, err := GatherStats(backend, props)
	if err != nil {
		t.Fatalf("GatherStats: %v", err)
	}

	actual := stats.ActualBits(props.CompFlags, props.ZetaK)
	streamBits := int64(len(w.Bytes())) * 8
	if actual > streamBits || actual <= streamBits-64 {
		t.Errorf("ActualBits = %d, expected within one word of stream length %d", actual, streamBits)
	}

	opt := stats.BestPerField()
	if opt.Outdegrees != props.CompFlags.Outdegrees &&
		opt.References != props.CompFlags.References &&
		opt.Blocks != props.CompFlags.Blocks &&
		opt.Intervals != props.CompFlags.Intervals &&
		opt.Residuals != props.CompFlags.Residuals {
		t.Errorf("expected at least one field's optimum to match the recorded code")
	}
}
