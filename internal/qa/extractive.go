// Package qa answers questions the dataset has no close match for.
package qa

import (
	"context"
	"math"
	"strings"

	"qabot/internal/domain"
	"qabot/internal/textutil"
)

// Extractive picks the span of the passage sharing the most terms with the
// question, scored with the Ochiai coefficient. The earliest span wins ties.
type Extractive struct {
	chunker domain.Chunker
}

// NewExtractive creates an answerer whose candidate spans come from chunker.
func NewExtractive(chunker domain.Chunker) *Extractive {
	return &Extractive{chunker: chunker}
}

func (e *Extractive) Answer(ctx context.Context, question, passage string) (string, error) {
	if strings.TrimSpace(passage) == "" {
		return "", domain.ErrEmptyContext
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	spans := e.chunker.Chunk(passage)
	if len(spans) == 0 {
		return "", domain.ErrEmptyContext
	}
	qset := textutil.TermSet(question)
	best, bestScore := 0, -1.0
	for i, span := range spans {
		if score := ochiai(qset, span); score > bestScore {
			best, bestScore = i, score
		}
	}
	return spans[best], nil
}

// ochiai returns |A∩B| / sqrt(|A||B|) over distinct terms.
func ochiai(qset map[string]struct{}, text string) float64 {
	tset := textutil.TermSet(text)
	if len(qset) == 0 || len(tset) == 0 {
		return 0
	}
	inter := 0
	for t := range tset {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(tset)))
}
