package game

import (
	"math/rand"
	"time"
)

// randomizer wraps math/rand for a single room. Each room gets its own
// instance so the game loops never contend on a shared source.
type randomizer struct {
	rng *rand.Rand
}

func NewRandomizer() *randomizer {
	return &randomizer{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *randomizer) Perm(n int) []int {
	return r.rng.Perm(n)
}

func (r *randomizer) Intn(n int) int {
	return r.rng.Intn(n)
}
