// Package random is the deterministic generator threaded through every stage
// of map generation. It is an additive lagged generator in the style of the
// BSD/glibc random(3) TYPE_3 generator, except that it emits all 32 bits.
//
// Call order is part of the output contract: for a given seed, every consumer
// must draw values in the same order to reproduce the same map.
package random

import (
	mrand "math/rand/v2"
)

const (
	ringSize  = 32
	ringMask  = ringSize - 1
	warmup    = 344
	lcgMul    = 16807
	lcgModulo = 2147483647
)

// Random is not safe for concurrent use. One instance belongs to one run.
type Random struct {
	h    [ringSize]uint32
	cr   int
	seed int32
}

// New seeds a generator. A zero seed is replaced by a random one, which can be
// recovered with Seed.
func New(seed int32) *Random {
	r := &Random{}
	r.SetSeed(seed)
	return r
}

// Seed returns the effective seed.
func (r *Random) Seed() int32 { return r.seed }

// SetSeed reinitialises the ring from seed.
func (r *Random) SetSeed(seed int32) {
	for seed == 0 {
		seed = int32(mrand.Uint32())
	}
	r.seed = seed

	var w [warmup]uint32
	w[0] = uint32(seed)
	for i := 1; i < 31; i++ {
		w[i] = uint32((lcgMul * uint64(w[i-1])) % lcgModulo)
	}
	for i := 31; i < 34; i++ {
		w[i] = w[i-31]
	}
	for i := 34; i < warmup; i++ {
		w[i] = w[i-31] + w[i-3]
	}
	copy(r.h[:], w[warmup-ringSize:])
	r.cr = 0
}

// Uint32 returns the next word.
func (r *Random) Uint32() uint32 {
	r.cr = (r.cr + 1) & ringMask
	lr := (r.cr + 1) & ringMask
	hr := (r.cr + 29) & ringMask
	r.h[r.cr] = r.h[lr] + r.h[hr]
	return r.h[r.cr]
}

// Float64 returns a value in [0, 1) with 32 bits of entropy.
func (r *Random) Float64() float64 {
	return float64(r.Uint32()) / (1 << 32)
}

// Intn returns Uint32() % n. It is biased when n does not divide 2^32, which
// is accepted: changing it would change every map for a given seed.
func (r *Random) Intn(n int) int {
	if n <= 0 {
		panic("random: Intn with non-positive n")
	}
	return int(r.Uint32() % uint32(n))
}

// Pick returns a uniformly (modulo bias) chosen element of items.
func Pick[T any](r *Random, items []T) T {
	return items[r.Intn(len(items))]
}

// PickWeighted draws an element with probability proportional to its weight.
// Floating point leftovers fall back to the first positive weight, and all
// non-positive weights fall back to Pick.
func PickWeighted[T any](r *Random, items []T, weights []float64) T {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	spin := r.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if spin < acc {
			return items[i]
		}
	}
	for i, w := range weights {
		if w > 0 {
			return items[i]
		}
	}
	return Pick(r, items)
}

// Shuffle permutes items in place.
func Shuffle[T any](r *Random, items []T) {
	ShuffleN(r, items, len(items))
}

// ShuffleN permutes the first n items in place (Fisher-Yates from the top).
func ShuffleN[T any](r *Random, items []T, n int) {
	for i := n; i > 1; i-- {
		j := r.Intn(i)
		items[i-1], items[j] = items[j], items[i-1]
	}
}
