package question

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

func TestNextQuestionSkipsExcluded(t *testing.T) {
	pool := []Question{{ID: 5, Category: 1}, {ID: 6, Category: 1}}

	q, ok := NextQuestion(pool, []int64{5}, fixedSource(0))
	require.True(t, ok)
	assert.Equal(t, int64(6), q.ID)

	_, ok = NextQuestion(pool, []int64{5, 6}, fixedSource(0))
	assert.False(t, ok)
}

func TestNextQuestionEmptyPool(t *testing.T) {
	_, ok := NextQuestion(nil, []int64{}, fixedSource(0))
	assert.False(t, ok)
}

func TestNextQuestionTerminatesWithoutRepeats(t *testing.T) {
	pool := numbered(17)
	rng := rand.New(rand.NewPCG(42, 7))

	seen := []int64{}
	for calls := 0; calls <= len(pool); calls++ {
		q, ok := NextQuestion(pool, seen, rng)
		if !ok {
			break
		}
		assert.NotContains(t, seen, q.ID)
		seen = append(seen, q.ID)
	}
	assert.Len(t, seen, len(pool))

	_, ok := NextQuestion(pool, seen, rng)
	assert.False(t, ok)
}

func TestNextQuestionSeededIsDeterministic(t *testing.T) {
	pool := numbered(50)
	a, _ := NextQuestion(pool, []int64{1, 2}, rand.New(rand.NewPCG(1, 2)))
	b, _ := NextQuestion(pool, []int64{1, 2}, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b)
}

func TestNextQuestionPicksByIndex(t *testing.T) {
	pool := []Question{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	q, ok := NextQuestion(pool, []int64{2}, fixedSource(2))
	require.True(t, ok)
	assert.Equal(t, int64(4), q.ID)
}
