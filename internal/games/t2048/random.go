package t2048

import (
	"math/rand"
	"time"
)

// RandomSource returns uniform values in [0, 1).
// The engine draws one value for the spawn cell and one for the spawn value.
type RandomSource func() float64

// NewSeededSource returns a reproducible source for the given seed.
func NewSeededSource(seed int64) RandomSource {
	rng := rand.New(rand.NewSource(seed))
	return rng.Float64
}

// timeSource is used when no source is injected.
func timeSource() RandomSource {
	return NewSeededSource(time.Now().UnixNano())
}

// pick maps a uniform value onto an index in [0, n).
func pick(r float64, n int) int {
	idx := int(r * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
