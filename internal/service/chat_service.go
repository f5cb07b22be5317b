package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"qabot/internal/dataset"
	"qabot/internal/domain"
	"qabot/internal/qa"
)

// ChatServiceImpl answers from the dataset when a stored question is close
// enough and otherwise runs fallback QA over the dataset contexts.
type ChatServiceImpl struct {
	matcher  domain.Matcher
	fallback *qa.Fallback
	contexts []string
	logger   *zap.Logger
}

func NewChatService(matcher domain.Matcher, fallback *qa.Fallback, ds *dataset.Dataset, logger *zap.Logger) *ChatServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatServiceImpl{matcher: matcher, fallback: fallback, contexts: ds.Contexts(), logger: logger}
}

// Respond returns the reply text for one user question. Only matcher
// failures are returned as errors; fallback failures are part of the reply.
func (s *ChatServiceImpl) Respond(ctx context.Context, question string) (string, error) {
	m, ok, err := s.matcher.FindMatch(ctx, question)
	if err != nil {
		return "", fmt.Errorf("%s matcher: %w", s.matcher.Name(), err)
	}
	if ok {
		s.logger.Debug("answered from dataset", zap.String("question", m.Question), zap.Float64("similarity", m.Score))
		return FormatMatch(m), nil
	}
	s.logger.Debug("no dataset match, using fallback qa")
	return s.fallback.Answer(ctx, question, s.contexts), nil
}

// FormatMatch renders a dataset hit the way the chatbot prints it.
func FormatMatch(m domain.Match) string {
	return fmt.Sprintf("Resposta para '%s': %s", m.Question, m.Answer)
}
