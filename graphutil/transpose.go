package graphutil

import (
	"github.com/webgraph-go/bvgraph/bvgraph"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
	"github.com/webgraph-go/bvgraph/sortpairs"
)

const transposeOp = "graphutil.Transpose"

// Transpose builds the reverse of g using an external-memory sort: for each
// arc (src, dst) it pushes (dst, src) into a sortpairs.SortPairs, then groups
// the sorted result back into one row per node — spec §4.3: "Iterate over
// (src, succ_list); push (dst, src, label) for each arc; the merge yields
// rows of the transposed graph grouped by new-source." No payload is needed
// here, so EmptyPayload is used throughout.
//
// The returned graph owns sp's temp directory; call Close on the result (or
// CancelBatches on the SortPairs you no longer have a handle to) once done
// reading it.
func Transpose(g bvgraph.SequentialGraph, batchSize int, tempDir string) (*TransposedGraph, error) {
	sp, err := sortpairs.New(batchSize, tempDir, func() sortpairs.Payload { return sortpairs.EmptyPayload{} })
	if err != nil {
		return nil, err
	}

	it := g.NodeIterator(0)
	for {
		v, succ, ok := it.Next()
		if !ok {
			break
		}
		for _, w := range succ {
			if err := sp.Push(w, v, sortpairs.EmptyPayload{}); err != nil {
				sp.CancelBatches()
				return nil, codeerr.Wrap(codeerr.BackendIO, transposeOp, err, "push arc (%d, %d)", w, v)
			}
		}
	}

	merge, err := sp.Iter()
	if err != nil {
		sp.CancelBatches()
		return nil, err
	}
	return &TransposedGraph{GroupedGraph: NewGroupedGraph(g.NumNodes(), merge), sp: sp}, nil
}

// TransposedGraph is the SequentialGraph Transpose returns; Close must be
// called once the caller is done reading it to remove the backing batch
// files (Go has no destructors to do this automatically).
type TransposedGraph struct {
	*GroupedGraph
	sp *sortpairs.SortPairs
}

// Close removes the temp directory backing this transpose.
func (t *TransposedGraph) Close() error {
	return t.sp.CancelBatches()
}
