package service

import (
	"testing"

	"expertmatch/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordSimilarity(t *testing.T) {
	provider := NewKeywordSimilarityProvider()
	ctx := t.Context()

	t.Run("identical texts", func(t *testing.T) {
		got, err := provider.Similarity(ctx, "distributed systems", "distributed systems")
		require.NoError(t, err)
		assert.Equal(t, 1.0, got)
	})

	t.Run("case and punctuation are ignored", func(t *testing.T) {
		got, err := provider.Similarity(ctx, "Distributed Systems!", "distributed systems")
		require.NoError(t, err)
		assert.Equal(t, 1.0, got)
	})

	t.Run("disjoint texts", func(t *testing.T) {
		got, err := provider.Similarity(ctx, "frontend react", "kernel drivers")
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("partial overlap", func(t *testing.T) {
		// {a, b} vs {b, c}: 1 shared of 3 distinct words.
		got, err := provider.Similarity(ctx, "go backend", "go frontend")
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, got, 1e-9)
	})

	t.Run("empty text scores zero", func(t *testing.T) {
		got, err := provider.Similarity(ctx, "", "anything")
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})
}

func TestKeywordBatchSimilarities(t *testing.T) {
	provider := NewKeywordSimilarityProvider()

	got, err := provider.BatchSimilarities(t.Context(), "go backend",
		[]string{"go backend", "python frontend", ""})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0])
	assert.Equal(t, 0.0, got[1])
	assert.Equal(t, 0.0, got[2])
}

func TestNormalizedCosine(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		assert.InDelta(t, 1.0, normalizedCosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, normalizedCosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	})

	t.Run("orthogonal vectors map to the midpoint", func(t *testing.T) {
		assert.InDelta(t, 0.5, normalizedCosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("degenerate input", func(t *testing.T) {
		assert.Equal(t, 0.0, normalizedCosine(nil, nil))
		assert.Equal(t, 0.0, normalizedCosine([]float32{1}, []float32{1, 2}))
		assert.Equal(t, 0.0, normalizedCosine([]float32{0, 0}, []float32{1, 2}))
	})
}

func TestNewSimilarityProviderSelection(t *testing.T) {
	provider, err := NewSimilarityProvider(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &KeywordSimilarityProvider{}, provider)
}
