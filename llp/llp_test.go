package llp

import (
	"testing"

	"github.com/webgraph-go/bvgraph/bvgraph"
)

// twoCliquesGraph builds a disjoint union of two 5-cliques: nodes 0..4 and
// 5..9, each fully connected within itself, spec §8 Scenario E.
func twoCliquesGraph() *bvgraph.ArcListGraph {
	var arcs [][2]int64
	clique := func(base int64) {
		for i := base; i < base+5; i++ {
			for j := base; j < base+5; j++ {
				if i != j {
					arcs = append(arcs, [2]int64{i, j})
				}
			}
		}
	}
	clique(0)
	clique(5)
	return bvgraph.NewArcListGraph(10, arcs)
}

func TestLLPConvergesTwoCliquesToTwoLabels(t *testing.T) {
	g := twoCliquesGraph()
	cfg := DefaultConfig()
	cfg.Gamma = 0.1
	cfg.MaxIters = 20
	cfg.Granularity = 2
	cfg.NumWorkers = 2
	cfg.Seed = 42

	perm, labels, err := Run(g, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(perm) != 10 || len(labels) != 10 {
		t.Fatalf("len(perm)=%d len(labels)=%d, want 10/10", len(perm), len(labels))
	}

	distinct := make(map[int64]bool)
	for _, l := range labels {
		distinct[l] = true
	}
	if len(distinct) != 2 {
		t.Fatalf("got %d distinct labels, want 2 (labels=%v)", len(distinct), labels)
	}

	// Every node must share its label with exactly its own clique.
	for i := int64(0); i < 5; i++ {
		for j := int64(0); j < 5; j++ {
			if labels[i] != labels[j] {
				t.Errorf("clique-1 nodes %d and %d have different labels", i, j)
			}
		}
	}
	for i := int64(5); i < 10; i++ {
		for j := int64(5); j < 10; j++ {
			if labels[i] != labels[j] {
				t.Errorf("clique-2 nodes %d and %d have different labels", i, j)
			}
		}
	}
	if labels[0] == labels[5] {
		t.Errorf("the two cliques converged to the same label")
	}

	// The permutation must group each clique into a contiguous run.
	firstCliqueRun := make(map[int64]bool)
	for _, v := range perm[:5] {
		firstCliqueRun[v] = true
	}
	sameClique := func(m map[int64]bool) bool {
		inFirst, inSecond := 0, 0
		for v := range m {
			if v < 5 {
				inFirst++
			} else {
				inSecond++
			}
		}
		return inFirst == 0 || inSecond == 0
	}
	if !sameClique(firstCliqueRun) {
		t.Errorf("permutation's first 5 entries mix both cliques: %v", perm)
	}
}
