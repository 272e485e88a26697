// Package sequence produces the shuffled permutations that the sort engine animates.
package sequence

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	MinSize     = 10
	MaxSize     = 200
	DefaultSize = 50
)

var (
	// ErrInvalidSize is returned for a requested length of zero or less.
	ErrInvalidSize = errors.New("sequence: size must be positive")

	// ErrNotPermutation indicates a sequence that is not exactly 1..n in some order.
	ErrNotPermutation = errors.New("sequence: not a permutation of 1..n")
)

// Generator draws uniformly shuffled permutations of 1..n. Every array comes
// from its own seed, reported by Seed, so any array can be rebuilt with
// Permutation. A Generator is not safe for concurrent use.
type Generator struct {
	rng        *rand.Rand
	next, last int64
	min, max   int
}

// NewGenerator returns a generator whose array seeds are drawn from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src), min: MinSize, max: MaxSize}
}

// NewSeeded returns a reproducible generator whose first array is
// Permutation(seed, n). A zero seed uses the wall clock.
func NewSeeded(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := NewGenerator(newPCG(seed))
	g.next = seed
	return g
}

func newPCG(seed int64) *rand.PCG {
	return rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
}

// Seed returns the seed of the last generated array, or 0 before the first.
func (g *Generator) Seed() int64 { return g.last }

// Clamp bounds n to the generator range without validating it.
func (g *Generator) Clamp(n int) int {
	if n < g.min {
		return g.min
	}
	if n > g.max {
		return g.max
	}
	return n
}

// Generate returns a shuffled permutation of 1..n, n clamped to [MinSize, MaxSize].
func (g *Generator) Generate(n int) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	n = g.Clamp(n)

	seed := g.next
	g.next = 0
	for seed == 0 {
		seed = g.rng.Int64()
	}
	g.last = seed
	return Permutation(seed, n), nil
}

// Permutation returns the shuffle of 1..n determined by seed, without clamping.
func Permutation(seed int64, n int) []int {
	seq := Sorted(max(n, 0))
	rand.New(newPCG(seed)).Shuffle(len(seq), func(i, j int) { seq[i], seq[j] = seq[j], seq[i] })
	return seq
}

// IsPermutation reports whether seq holds each of 1..len(seq) exactly once.
func IsPermutation(seq []int) bool {
	seen := make([]bool, len(seq)+1)
	for _, v := range seq {
		if v < 1 || v > len(seq) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Sorted returns 1..n in order.
func Sorted(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i + 1
	}
	return seq
}
