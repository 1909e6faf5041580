package utils

import (
	"math/rand"
	"time"
)

// RandSource is a seedable random number generator owned by one search
// backend. Each backend instance holds its own source, so concurrent
// optimizer runs never contend on shared generator state.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a new random source with the given seed.
// Seed 0 selects a time-based seed.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// UniformFloat64 returns a uniformly distributed random number in [min, max)
func (r *RandSource) UniformFloat64(min, max float64) float64 {
	return min + r.rng.Float64()*(max-min)
}
