package parallel

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/bvgraph"
)

// lineGraph builds a graph on n nodes where each node points to the next
// few nodes, enough of a spread to exercise references/intervals/residuals.
func lineGraph(n int64) *bvgraph.ArcListGraph {
	var arcs [][2]int64
	for v := int64(0); v < n; v++ {
		for d := int64(1); d <= 3 && v+d < n; d++ {
			arcs = append(arcs, [2]int64{v, v + d})
		}
	}
	return bvgraph.NewArcListGraph(n, arcs)
}

func TestParallelMatchesSequential(t *testing.T) {
	const n = 10
	g := lineGraph(n)
	props := bvgraph.DefaultProperties()

	seqBuf := bitio.NewMemWordWriter(64, props.BigEndian)
	seqArcs, err := bvgraph.CompressSequential(g, seqBuf, props)
	if err != nil {
		t.Fatalf("CompressSequential: %v", err)
	}
	seqProps := props
	seqProps.Nodes, seqProps.Arcs = n, seqArcs
	seqBackend := bitio.NewMemWordBackend(seqBuf.Bytes(), 64, seqProps.BigEndian)
	seqDecoded, err := bvgraph.Decode(bvgraph.NewBVGraphSequential(seqBackend, seqProps))
	if err != nil {
		t.Fatalf("Decode sequential: %v", err)
	}

	for _, numChunks := range []int{1, 2, 3, 5, 7, 9} {
		basename := filepath.Join(t.TempDir(), "g")
		err := CompressGraph(g, basename, props, Config{NumChunks: numChunks})
		if err != nil {
			t.Fatalf("chunks=%d: CompressGraph: %v", numChunks, err)
		}

		pf, err := os.Open(basename + ".properties")
		if err != nil {
			t.Fatalf("chunks=%d: open properties: %v", numChunks, err)
		}
		parProps, err := bvgraph.Load(pf)
		pf.Close()
		if err != nil {
			t.Fatalf("chunks=%d: load properties: %v", numChunks, err)
		}

		gf, err := os.Open(basename + ".graph")
		if err != nil {
			t.Fatalf("chunks=%d: open graph: %v", numChunks, err)
		}
		backend := bitio.NewFileWordBackendReader(gf, 64, parProps.BigEndian)
		decoded, err := bvgraph.Decode(bvgraph.NewBVGraphSequential(backend, parProps))
		gf.Close()
		if err != nil {
			t.Fatalf("chunks=%d: Decode: %v", numChunks, err)
		}

		for v := int64(0); v < n; v++ {
			if !reflect.DeepEqual(decoded[v], seqDecoded[v]) {
				t.Errorf("chunks=%d node %d: got %v, want %v", numChunks, v, decoded[v], seqDecoded[v])
			}
			if !reflect.DeepEqual(decoded[v], g.Successors(v)) {
				t.Errorf("chunks=%d node %d: got %v, want original %v", numChunks, v, decoded[v], g.Successors(v))
			}
		}
	}
}
