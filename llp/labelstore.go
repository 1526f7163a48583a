// Package llp implements Layered Label Propagation, spec §4.5: a parallel
// clustering heuristic that produces a node permutation grouping
// topologically related nodes into contiguous runs, improving the
// compression ratio of a subsequent bvgraph encode. Grounded on
// `_examples/original_source/src/algorithms/llp.rs`.
package llp

import "sync/atomic"

// LabelStore holds each node's current label and a running volume (count of
// nodes currently carrying each label), both updated with relaxed atomics —
// spec §4.5's "Concurrency notes": stale reads are tolerated since the
// algorithm is a heuristic, and Set's swap/sub/add sequence can momentarily
// drift but sums to the correct total over an iteration.
type LabelStore struct {
	labels  []atomic.Int64
	volumes []atomic.Int64
}

// NewLabelStore builds a store over n nodes, each initially labeled with
// its own id and volume 1.
func NewLabelStore(n int64) *LabelStore {
	ls := &LabelStore{labels: make([]atomic.Int64, n), volumes: make([]atomic.Int64, n)}
	for i := int64(0); i < n; i++ {
		ls.labels[i].Store(i)
		ls.volumes[i].Store(1)
	}
	return ls
}

// Label returns node's current label.
func (ls *LabelStore) Label(node int64) int64 { return ls.labels[node].Load() }

// Volume returns the number of nodes currently carrying label.
func (ls *LabelStore) Volume(label int64) int64 { return ls.volumes[label].Load() }

// Set moves node from its current label to newLabel, adjusting both
// volumes. A no-op if newLabel equals the current label.
func (ls *LabelStore) Set(node, newLabel int64) {
	old := ls.labels[node].Swap(newLabel)
	if old == newLabel {
		return
	}
	ls.volumes[old].Add(-1)
	ls.volumes[newLabel].Add(1)
}
