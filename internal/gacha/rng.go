package gacha

import (
	"math/rand/v2"
)

// RandomSource is the injectable randomness seam for rolls. The engine only
// ever needs uniform integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// defaultRNG delegates to math/rand/v2's process-wide generator, which is
// safe for concurrent use.
type defaultRNG struct{}

func (defaultRNG) IntN(n int) int { return rand.IntN(n) }

// DefaultRNG returns the production random source.
func DefaultRNG() RandomSource { return defaultRNG{} }

// seededRNG is a reproducible source for tests and drop-rate audits. It is
// not safe for concurrent use.
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a deterministic source seeded with the given value.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) IntN(n int) int { return s.r.IntN(n) }

// fixedRNG replays a scripted sequence of draw values; used by tests that
// pin exact roll outcomes.
type fixedRNG struct {
	values []int
	pos    int
}

// NewFixedRNG returns a source that yields the given values in order and
// panics when exhausted.
func NewFixedRNG(values ...int) RandomSource {
	return &fixedRNG{values: values}
}

func (f *fixedRNG) IntN(n int) int {
	if f.pos >= len(f.values) {
		panic("fixedRNG: out of scripted values")
	}
	v := f.values[f.pos] % n
	f.pos++
	return v
}
