package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "X causes Y", want: []string{"X causes Y"}},
		{in: "First one. Second one!", want: []string{"First one.", "Second one!"}},
		{in: "Done. trailing part", want: []string{"Done.", "trailing part"}},
		{in: "Wait... what?", want: []string{"Wait.", "what?"}},
		{in: "  ", want: nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sentences(tt.in), tt.in)
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"what", "causes", "alzheimer's"}, Terms("What causes the Alzheimer's?"))
	assert.Empty(t, Terms("the and of"))
	assert.Equal(t, []string{"the", "and", "of"}, Words("The and OF"))
}

func TestTermSet(t *testing.T) {
	set := TermSet("memory Memory loss")
	assert.Len(t, set, 2)
	assert.Contains(t, set, "memory")
	assert.True(t, IsStopword("the"))
	assert.False(t, IsStopword("memory"))
}
