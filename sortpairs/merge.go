package sortpairs

import "container/heap"

// RowSource is anything a K-way merge can pull triples from; BatchIterator
// is the concrete case.
type RowSource interface {
	Next() (Triple, bool, error)
}

// headTail pairs a source's already-peeked head row with the source itself,
// spec §4.3's "HeadTail{head, payload, tail_iter}" entry.
type headTail struct {
	head   Triple
	source RowSource
}

type mergeHeap []*headTail

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	a, b := h[i].head, h[j].head
	if a.Src != b.Src {
		return a.Src < b.Src
	}
	return a.Dst < b.Dst
}
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(*headTail)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MergeIterator is the K-ary min-heap merge spec §4.3 describes: pop yields
// one triple, advances that source's tail, and reinserts or drops the
// entry. Ordering between equal (src, dst) heads is unspecified.
type MergeIterator struct {
	h   mergeHeap
	err error
}

// NewMergeIterator builds a merge over sources, pre-loading one row from
// each (sources that are already empty are dropped silently).
func NewMergeIterator(sources []RowSource) (*MergeIterator, error) {
	m := &MergeIterator{}
	for _, s := range sources {
		row, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		m.h = append(m.h, &headTail{head: row, source: s})
	}
	heap.Init(&m.h)
	return m, nil
}

// Next returns the next triple in non-decreasing (src, dst) order, or
// ok=false once every source is exhausted.
func (m *MergeIterator) Next() (Triple, bool, error) {
	if m.err != nil {
		return Triple{}, false, m.err
	}
	if len(m.h) == 0 {
		return Triple{}, false, nil
	}
	top := m.h[0]
	result := top.head
	next, ok, err := top.source.Next()
	if err != nil {
		m.err = err
		return Triple{}, false, err
	}
	if ok {
		top.head = next
		heap.Fix(&m.h, 0)
	} else {
		heap.Pop(&m.h)
	}
	return result, true, nil
}
