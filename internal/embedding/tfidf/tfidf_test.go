package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qabot/internal/domain"
)

func TestEmbedder_UnpreparedIsUnavailable(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestEmbedder_NameTracksVocabulary(t *testing.T) {
	a, b, c := NewEmbedder(), NewEmbedder(), NewEmbedder()
	assert.Equal(t, "tfidf", a.Name())
	require.NoError(t, a.Prepare([]string{"What causes memory loss?"}))
	require.NoError(t, b.Prepare([]string{"memory loss: what causes it?"}))
	require.NoError(t, c.Prepare([]string{"What causes memory loss?", "Which factors increase the risk?"}))

	assert.Equal(t, a.Name(), b.Name())
	assert.NotEqual(t, a.Name(), c.Name())
}

func TestEmbedder_PrepareErrors(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.Prepare(nil))
	assert.Error(t, e.Prepare([]string{"the a of"}))
}

func TestEmbedder_EmbedIsNormalizedAndDeterministic(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{
		"What causes Alzheimer's disease?",
		"What are the early symptoms?",
	}))
	assert.Regexp(t, `^tfidf-[0-9a-f]{12}$`, e.Name())
	assert.Greater(t, e.Dimension(), 0)

	ctx := context.Background()
	a, err := e.Embed(ctx, "What causes Alzheimer's disease?")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "What causes Alzheimer's disease?")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, e.Dimension())

	var norm float64
	for _, v := range a {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedder_UnknownTermsGiveZeroVector(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"What causes Y?"}))
	v, err := e.Embed(context.Background(), "rockets launch skyward")
	require.NoError(t, err)
	for _, x := range v {
		assert.Zero(t, x)
	}
}
