package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencySummarizer_KeepsOriginalOrder(t *testing.T) {
	text := "Memory loss is common. Weather was nice. Memory loss and confusion grow with memory decline."
	got, err := NewFrequencySummarizer().Summarize(text, 2)
	require.NoError(t, err)
	assert.Equal(t, "Memory loss is common. Memory loss and confusion grow with memory decline.", got)
}

func TestFrequencySummarizer_ShortInputs(t *testing.T) {
	s := NewFrequencySummarizer()
	got, err := s.Summarize("X causes Y", 3)
	require.NoError(t, err)
	assert.Equal(t, "X causes Y", got)

	got, err = s.Summarize("  ", 3)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
