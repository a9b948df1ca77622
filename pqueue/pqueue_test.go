package pqueue

import (
	"math"
	"testing"

	"github.com/nstehr/vimy/vimy-mapgen/random"
)

var readbackPriorities = []float64{1, 5, 3, 2, 8, 7, 4, 6}

var wantReadback = [][2]float64{
	{4, 8}, {5, 7}, {7, 6}, {1, 5}, {6, 4}, {2, 3}, {3, 2}, {0, 1},
}

func readback(a *Array) [][2]float64 {
	var out [][2]float64
	for range a.Len() {
		i := a.Max()
		out = append(out, [2]float64{float64(i), a.Get(i)})
		a.Set(i, 0)
	}
	return out
}

func checkReadback(t *testing.T, label string, got [][2]float64) {
	t.Helper()
	for i := range wantReadback {
		if got[i] != wantReadback[i] {
			t.Fatalf("%s: readback = %v, want %v", label, got, wantReadback)
		}
	}
}

func TestReadback(t *testing.T) {
	a := New(8)
	for i, p := range readbackPriorities {
		a.Set(i, p)
	}
	checkReadback(t, "fresh", readback(a))

	for i := range 8 {
		a.Set(i, 5)
	}
	for i, p := range readbackPriorities {
		a.Set(i, p)
	}
	checkReadback(t, "reused", readback(a))
}

func TestFillNegativeInfinity(t *testing.T) {
	a := New(5).Fill(math.Inf(-1))
	if !math.IsInf(a.Get(a.Max()), -1) {
		t.Fatalf("Max priority after Fill = %v", a.Get(a.Max()))
	}
	a.Set(3, -2)
	a.Set(1, -7)
	if a.Max() != 3 {
		t.Errorf("Max() = %d, want 3", a.Max())
	}
	a.Set(3, math.Inf(-1))
	if a.Max() != 1 {
		t.Errorf("Max() after retiring 3 = %d, want 1", a.Max())
	}
}

func TestHeapOrderUnderRandomUpdates(t *testing.T) {
	const n = 64
	r := random.New(23)
	a := New(n)
	want := make([]float64, n)
	for i := range want {
		want[i] = 1
	}
	for step := 0; step < 2000; step++ {
		i := r.Intn(n)
		v := float64(r.Intn(1000)) - 500
		a.Set(i, v)
		want[i] = v
		best := math.Inf(-1)
		for _, w := range want {
			best = math.Max(best, w)
		}
		if got := a.Get(a.Max()); got != best {
			t.Fatalf("step %d: Max priority = %v, want %v", step, got, best)
		}
	}
	for i := range n {
		if a.heap[a.slot[i]] != i {
			t.Fatalf("slot/heap maps disagree at index %d", i)
		}
	}
}
