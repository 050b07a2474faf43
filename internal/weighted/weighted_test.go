package weighted

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	_, err := Index(rng, []float64{})
	assert.ErrorIs(t, err, ErrNoWeight)
	_, err = Index(rng, []float64{0, -1, 0})
	assert.ErrorIs(t, err, ErrNoWeight)
}

func TestIndexSkipsNonPositive(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	for i := 0; i < 100; i++ {
		idx, err := Index(rng, []float64{0, 3, -2, 5})
		require.NoError(t, err)
		assert.Contains(t, []int{1, 3}, idx)
	}
}

func TestIndexProportions(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	counts := make([]int, 2)
	const n = 10000
	for i := 0; i < n; i++ {
		idx, err := Index(rng, []float64{1, 3})
		require.NoError(t, err)
		counts[idx]++
	}
	// Expect roughly 25% / 75%; allow generous slack.
	assert.InDelta(t, 0.25, float64(counts[0])/n, 0.05)
	assert.InDelta(t, 0.75, float64(counts[1])/n, 0.05)
}

func TestIndexSingleEntry(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	idx, err := Index(rng, []float64{2.5})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}
