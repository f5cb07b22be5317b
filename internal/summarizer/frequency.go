package summarizer

import (
	"math"
	"sort"
	"strings"

	"qabot/internal/textutil"
)

// FrequencySummarizer picks the sentences whose words are most frequent in
// the whole text. It condenses the dataset contexts into the TUI header.
type FrequencySummarizer struct{}

func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

// Summarize returns up to maxSentences top-ranked sentences, in text order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := textutil.Sentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	weights := termWeights(sentences)
	order := make([]int, len(sentences))
	scores := make([]float64, len(sentences))
	for i, sent := range sentences {
		order[i] = i
		scores[i] = sentenceScore(sent, weights)
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	keep := order[:min(maxSentences, len(order))]
	sort.Ints(keep)
	picked := make([]string, len(keep))
	for i, idx := range keep {
		picked[i] = sentences[idx]
	}
	return strings.Join(picked, " "), nil
}

// termWeights maps each non-stopword to its count relative to the most
// frequent term.
func termWeights(sentences []string) map[string]float64 {
	counts := map[string]float64{}
	top := 0.0
	for _, sent := range sentences {
		for _, term := range textutil.Terms(sent) {
			counts[term]++
			top = math.Max(top, counts[term])
		}
	}
	for term := range counts {
		counts[term] /= top
	}
	return counts
}

// sentenceScore sums term weights, damped by sqrt of the sentence length.
func sentenceScore(sentence string, weights map[string]float64) float64 {
	words := textutil.Words(sentence)
	if len(words) == 0 {
		return 0
	}
	total := 0.0
	for _, w := range words {
		total += weights[w]
	}
	return total / math.Sqrt(float64(len(words)))
}
