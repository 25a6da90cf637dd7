package scorer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderSetWeights(t *testing.T) {
	h := NewHolder(DefaultConfig())

	w := h.Get().Weights
	w.MinMatch = 0.95
	require.NoError(t, h.SetWeights(w))
	assert.Equal(t, 0.95, h.Get().Weights.MinMatch)
}

func TestHolderRejectsInvalidWeights(t *testing.T) {
	h := NewHolder(DefaultConfig())
	before := h.Get()

	w := before.Weights
	w.NameWeight = -1
	err := h.SetWeights(w)
	require.Error(t, err)
	assert.Same(t, before, h.Get(), "a rejected update must leave the snapshot untouched")

	w = before.Weights
	w.MinMatch = 1.5
	require.Error(t, h.SetWeights(w))
}

func TestHolderRejectsInvalidSimilarity(t *testing.T) {
	h := NewHolder(DefaultConfig())

	s := h.Get().Similarity
	s.JaroWinklerPrefixSize = 11
	require.Error(t, h.SetSimilarity(s))

	s = h.Get().Similarity
	s.JaroWinklerPrefixSize = 0
	require.Error(t, h.SetSimilarity(s))
}

func TestHolderReset(t *testing.T) {
	h := NewHolder(DefaultConfig())

	w := h.Get().Weights
	w.MinMatch = 0.5
	require.NoError(t, h.SetWeights(w))

	h.Reset()
	assert.Equal(t, DefaultConfig().Weights.MinMatch, h.Get().Weights.MinMatch)
}

func TestHolderConcurrentEdits(t *testing.T) {
	h := NewHolder(DefaultConfig())
	valid := map[float64]bool{0.88: true, 0.90: true, 0.92: true}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		target := 0.90
		if i%2 == 0 {
			target = 0.92
		}
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				w := h.Get().Weights
				w.MinMatch = target
				if err := h.SetWeights(w); err != nil {
					t.Error(err)
					return
				}
				snap := h.Get()
				if !valid[snap.Weights.MinMatch] {
					t.Errorf("torn snapshot: MinMatch = %v", snap.Weights.MinMatch)
					return
				}
			}
		}()
	}
	wg.Wait()
}
