package question

import (
	"math/rand/v2"
	"time"
)

// RandomSource picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// NewRandomSource returns a freshly seeded generator for a single request.
func NewRandomSource() RandomSource {
	return rand.New(rand.NewPCG(rand.Uint64(), uint64(time.Now().UnixNano())))
}

// NextQuestion picks one question from pool whose id is not in excluded.
// It reports false once every question has been seen. The caller appends the
// returned id to excluded before asking again.
func NextQuestion(pool []Question, excluded []int64, rng RandomSource) (Question, bool) {
	seen := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		seen[id] = struct{}{}
	}

	candidates := make([]Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := seen[q.ID]; !ok {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return Question{}, false
	}
	return candidates[rng.IntN(len(candidates))], true
}
