package crossmwm

import "mwmgraph/pkg/indexgraph"

// waveHeapItem is an entry in the leap-weight wave's priority queue.
type waveHeapItem struct {
	joint indexgraph.JointID
	dist  float64
}

// less orders two items by (dist, joint) — the Segment-order tie-break
// collapses to joint id at this level, since joints rather than
// Segments are the wave's nodes.
func (a waveHeapItem) less(b waveHeapItem) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.joint < b.joint
}

// waveHeap is a concrete-typed binary min-heap, grounded on the same
// hole-sift technique used for witness search and query-time Dijkstra:
// the floating item is saved once and moved down the path with a single
// assignment per level instead of a full swap.
type waveHeap struct {
	items []waveHeapItem
}

func (h *waveHeap) Len() int { return len(h.items) }

func (h *waveHeap) Push(item waveHeapItem) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

func (h *waveHeap) Pop() waveHeapItem {
	top := h.items[0]
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *waveHeap) Reset() { h.items = h.items[:0] }

func (h *waveHeap) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if !item.less(h.items[parent]) {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *waveHeap) siftDown(i int) {
	n := len(h.items)
	item := h.items[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.items[right].less(h.items[child]) {
			child = right
		}
		if !h.items[child].less(item) {
			break
		}
		h.items[i] = h.items[child]
		i = child
	}
	h.items[i] = item
}
