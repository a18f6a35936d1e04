package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/demo/embedder"
	"github.com/w-h-a/demo/storer"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "punctuation and case",
			input:    "The weather today is sunny, and WARM.",
			expected: []string{"weather", "today", "sunny", "warm"},
		},
		{
			name:     "only stop words",
			input:    "what is the",
			expected: []string{},
		},
		{
			name:     "digits kept",
			input:    "gpt-3 models",
			expected: []string{"gpt", "3", "models"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tokenize(tc.input))
		})
	}
}

func TestEmbedNormalised(t *testing.T) {
	e := NewEmbedder(embedder.WithDimensions(64))

	vec, err := e.Embed(context.Background(), "The cat is sleeping soundly on the couch.")
	require.NoError(t, err)
	require.Len(t, vec, 64)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbedDeterministic(t *testing.T) {
	e := NewEmbedder()

	a, err := e.Embed(context.Background(), "machine learning models")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "Machine learning, models!")
	require.NoError(t, err)

	assert.Len(t, a, defaultDimensions)
	assert.Equal(t, a, b)
}

func TestEmbedEmptyText(t *testing.T) {
	e := NewEmbedder(embedder.WithDimensions(8))

	vec, err := e.Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), vec)
}

func TestSharedVocabularyIsCloser(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()

	query, err := e.Embed(ctx, "What is the weather like?")
	require.NoError(t, err)
	weather, err := e.Embed(ctx, "The weather today is sunny and warm.")
	require.NoError(t, err)
	cat, err := e.Embed(ctx, "The cat is sleeping soundly on the couch.")
	require.NoError(t, err)

	assert.Less(t, storer.CosineDistance(query, weather), storer.CosineDistance(query, cat))
}

func TestTopicLexiconLinksRelatedWords(t *testing.T) {
	ctx := context.Background()
	e := NewEmbedder()

	query, err := e.Embed(ctx, "What is the weather like?")
	require.NoError(t, err)

	documents := []string{
		"The weather today is sunny and warm.",
		"The cat is sleeping soundly on the couch.",
		"This is a document about machine learning models.",
		"The sky is clear, and the birds are singing.",
	}

	distances := make([]float32, len(documents))
	for i, doc := range documents {
		vec, err := e.Embed(ctx, doc)
		require.NoError(t, err)
		distances[i] = storer.CosineDistance(query, vec)
	}

	assert.Less(t, distances[0], distances[3])
	for _, unrelated := range []float32{distances[1], distances[2]} {
		assert.Less(t, distances[0], unrelated)
		assert.Less(t, distances[3], unrelated)
	}
}
