package hnsw

// item is one entry of the binary heap used during beam search: a
// candidate row id with its similarity score (larger is better).
type item struct {
	id    int
	score float32
}

// maxHeap is a small binary max-heap over item.score, used both as the
// candidate frontier and the result set during searchLayer.
type maxHeap struct {
	items []item
}

func (h *maxHeap) Len() int { return len(h.items) }

func (h *maxHeap) push(it item) {
	h.items = append(h.items, it)
	h.bubbleUp(len(h.items) - 1)
}

func (h *maxHeap) pop() item {
	if len(h.items) == 0 {
		return item{}
	}
	top := h.items[0]
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.bubbleDown(0)
	}
	return top
}

func (h *maxHeap) peek() item {
	if len(h.items) == 0 {
		return item{}
	}
	return h.items[0]
}

// popWorst removes and returns the lowest-scoring entry, used to evict the
// current worst result once the beam exceeds its width.
func (h *maxHeap) popWorst() item {
	if len(h.items) == 0 {
		return item{}
	}
	worst := 0
	for i := 1; i < len(h.items); i++ {
		if h.items[i].score < h.items[worst].score {
			worst = i
		}
	}
	it := h.items[worst]
	h.items = append(h.items[:worst], h.items[worst+1:]...)
	return it
}

func (h *maxHeap) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].score <= h.items[parent].score {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *maxHeap) bubbleDown(i int) {
	n := len(h.items)
	for {
		largest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].score > h.items[largest].score {
			largest = left
		}
		if right < n && h.items[right].score > h.items[largest].score {
			largest = right
		}
		if largest == i {
			break
		}
		h.items[i], h.items[largest] = h.items[largest], h.items[i]
		i = largest
	}
}
