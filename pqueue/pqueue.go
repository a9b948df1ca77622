// Package pqueue provides an indexable max-heap: a fixed set of indices
// 0..n-1, each with a priority that can be changed in place while the index
// with the highest priority stays available in O(1).
package pqueue

// Array is a binary max-heap over indices. heap holds indices in heap order
// and slot maps an index back to its heap position, so Set re-bubbles a
// single entry instead of rebuilding the heap.
type Array struct {
	priorities []float64
	slot       []int // index -> heap position
	heap       []int // heap position -> index
}

// New returns an Array of n indices, all with priority 1.
func New(n int) *Array {
	a := &Array{
		priorities: make([]float64, n),
		slot:       make([]int, n),
		heap:       make([]int, n),
	}
	for i := 0; i < n; i++ {
		a.priorities[i] = 1
		a.slot[i] = i
		a.heap[i] = i
	}
	return a
}

// Fill sets every priority to v. Equal priorities keep the heap valid.
func (a *Array) Fill(v float64) *Array {
	for i := range a.priorities {
		a.priorities[i] = v
	}
	return a
}

func (a *Array) Len() int { return len(a.priorities) }

// Max returns the index with the highest priority. Ties go to whichever
// index currently sits at the root.
func (a *Array) Max() int { return a.heap[0] }

func (a *Array) Get(i int) float64 { return a.priorities[i] }

// Set changes the priority of index i and restores heap order.
func (a *Array) Set(i int, v float64) {
	a.priorities[i] = v
	h := a.slot[i]
	if !a.up(h) {
		a.down(h)
	}
}

func (a *Array) swap(h1, h2 int) {
	i1, i2 := a.heap[h1], a.heap[h2]
	a.slot[i1], a.slot[i2] = a.slot[i2], a.slot[i1]
	a.heap[h1], a.heap[h2] = a.heap[h2], a.heap[h1]
}

// up moves heap entry h toward the root while it beats its parent. It
// reports whether anything moved.
func (a *Array) up(h int) bool {
	moved := false
	for h > 0 {
		parent := (h+1)/2 - 1
		if a.priorities[a.heap[h]] <= a.priorities[a.heap[parent]] {
			break
		}
		a.swap(h, parent)
		h = parent
		moved = true
	}
	return moved
}

// down moves heap entry h toward the leaves while a child beats it,
// preferring the left child on ties.
func (a *Array) down(h int) {
	n := len(a.heap)
	for {
		left := (h+1)*2 - 1
		right := left + 1
		if left >= n {
			return
		}
		v := a.priorities[a.heap[h]]
		vl := a.priorities[a.heap[left]]
		child := left
		if right < n {
			vr := a.priorities[a.heap[right]]
			if v >= vl && v >= vr {
				return
			}
			if vl < vr {
				child = right
			}
		} else if v >= vl {
			return
		}
		a.swap(h, child)
		h = child
	}
}
