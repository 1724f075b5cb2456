package kmc

import (
	"math"
	"math/rand"
)

// RandomSource supplies the two uniform variates a selector consumes per
// step. *RandomGenerator is the standard implementation; tests substitute
// scripted sources to force specific draws.
type RandomSource interface {
	// UnitInterval returns a uniform variate on [0, 1).
	UnitInterval() float64
	// OpenUnitInterval returns a uniform variate on (0, 1].
	OpenUnitInterval() float64
}

// RandomGenerator is a seedable uniform random number generator backed by a
// dedicated math/rand engine. It remembers the seed it was last given so a
// run can be reproduced, and it is shareable: passing the same generator to
// several selectors interleaves their draws in call order.
//
// Not safe for concurrent use.
type RandomGenerator struct {
	seed   uint64
	engine *rand.Rand
}

// NewRandomGenerator creates a generator seeded from process entropy. The
// default seed is not fixed: two generators created this way almost surely
// produce different streams. Use Seed to record it for reproduction.
func NewRandomGenerator() *RandomGenerator {
	return NewSeededRandomGenerator(rand.Uint64())
}

// NewSeededRandomGenerator creates a generator with the given seed.
func NewSeededRandomGenerator(seed uint64) *RandomGenerator {
	g := &RandomGenerator{}
	g.Reseed(seed)
	return g
}

// Reseed resets the generator's stream to the one identified by seed.
func (g *RandomGenerator) Reseed(seed uint64) {
	g.seed = seed
	g.engine = rand.New(rand.NewSource(int64(seed)))
}

// Seed returns the seed the generator was last seeded with.
func (g *RandomGenerator) Seed() uint64 {
	return g.seed
}

// UnitInterval returns a uniform variate on the half-open interval [0, 1).
func (g *RandomGenerator) UnitInterval() float64 {
	return g.engine.Float64()
}

// OpenUnitInterval returns a uniform variate on (0, 1], obtained by
// reflecting the half-open primitive. The result is never zero, so it is
// safe to pass to math.Log.
func (g *RandomGenerator) OpenUnitInterval() float64 {
	return 1.0 - g.engine.Float64()
}

// IntegerRange returns a uniform integer on [0, max] inclusive. Sampling
// rejects the biased tail of the engine's 64-bit output, so the result is
// exactly uniform for every max.
func (g *RandomGenerator) IntegerRange(max uint64) uint64 {
	if max == math.MaxUint64 {
		return g.engine.Uint64()
	}
	n := max + 1
	bound := math.MaxUint64 - math.MaxUint64%n
	for {
		v := g.engine.Uint64()
		if v < bound {
			return v % n
		}
	}
}
