// Package scenario provides canned and randomized instruction streams
// for exercising a system.System end to end. The canned scripts are
// grounded literally on runReadWriteTest/runAtomicADDTest in
// original_source/moesi.cpp; the address generator is grounded on that
// file's addr_gen, reworked from a global-RNG free function into a
// seedable generator so scripted runs stay reproducible.
package scenario

import (
	"math/rand"

	"github.com/example/moesi-sim/coherence"
)

// AddressGenerator produces word-aligned byte addresses within
// [0, words*wordSize).
type AddressGenerator struct {
	rng      *rand.Rand
	words    int
	wordSize int
}

// NewAddressGenerator returns a generator seeded deterministically
// from seed, mirroring the teacher's request_generator.go pattern of a
// generator type wrapping a *rand.Rand rather than the global source.
func NewAddressGenerator(seed int64, words, wordSize int) *AddressGenerator {
	if wordSize <= 0 {
		wordSize = 4
	}
	return &AddressGenerator{rng: rand.New(rand.NewSource(seed)), words: words, wordSize: wordSize}
}

// Next returns a uniformly random, word-aligned address.
func (g *AddressGenerator) Next() int {
	return g.rng.Intn(g.words) * g.wordSize
}

// randomOps is the mix of opcodes RandomSteps draws from: plain
// read/write traffic plus the two atomics most likely to surface
// ordering bugs (CAS's compare, ADD's read-modify-write).
var randomOps = []coherence.CpuOp{coherence.Read, coherence.Write, coherence.AtomicADD, coherence.AtomicCAS}

// RandomSteps generates n random CPU operations scattered across the
// given core count, for property-testing the invariants in package
// invariant against unscripted traffic rather than only the canned
// scenarios. It extends addr_gen's role — a single random address
// source — into a full random instruction stream, reusing the same
// generator for op/core/operand selection so a given seed always
// reproduces the same stream.
func RandomSteps(seed int64, n, cores, words, wordSize int) []Step {
	g := NewAddressGenerator(seed, words, wordSize)
	steps := make([]Step, n)
	for i := range steps {
		op := randomOps[g.rng.Intn(len(randomOps))]
		step := Step{
			CoreID:  g.rng.Intn(cores),
			Op:      op,
			Address: g.Next(),
			Value:   g.rng.Intn(1 << 16),
		}
		if op == coherence.AtomicCAS {
			step.Expected = g.rng.Intn(1 << 16)
		}
		steps[i] = step
	}
	return steps
}
