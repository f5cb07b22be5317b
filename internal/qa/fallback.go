package qa

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"qabot/internal/domain"
)

// Fallback runs an answerer over every known context joined into one passage.
type Fallback struct {
	answerer domain.Answerer
	logger   *zap.Logger
}

func NewFallback(answerer domain.Answerer, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{answerer: answerer, logger: logger}
}

// Answer joins the distinct contexts, in the order given, with single spaces
// and asks the answerer. Failures come back as a message for the user.
func (f *Fallback) Answer(ctx context.Context, query string, contexts []string) string {
	passage := strings.Join(unique(contexts), " ")
	answer, err := f.answerer.Answer(ctx, query, passage)
	if err != nil {
		f.logger.Warn("fallback qa failed", zap.Error(err), zap.Int("passage_len", len(passage)))
		return fmt.Sprintf("Could not find an answer: %v", err)
	}
	return answer
}

func unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
