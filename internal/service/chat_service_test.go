package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qabot/internal/dataset"
	"qabot/internal/domain"
	"qabot/internal/embedding/stub"
	"qabot/internal/embedding/tfidf"
	"qabot/internal/matcher"
	"qabot/internal/qa"
)

type recordingAnswerer struct {
	calls    int
	question string
	passage  string
}

func (r *recordingAnswerer) Answer(_ context.Context, question, passage string) (string, error) {
	r.calls++
	r.question, r.passage = question, passage
	return "fallback answer", nil
}

func newService(t *testing.T) (*ChatServiceImpl, *recordingAnswerer) {
	t.Helper()
	emb := tfidf.NewEmbedder()
	ds, err := dataset.NewLoader(emb, nil).Embed(context.Background(), []dataset.Entry{
		{Context: "X causes Y", Question: "What causes Y?", Answer: "X"},
	})
	require.NoError(t, err)
	rec := &recordingAnswerer{}
	m := matcher.NewLinear(ds, emb, matcher.DefaultThreshold, nil)
	return NewChatService(m, qa.NewFallback(rec, nil), ds, nil), rec
}

func TestChatService_AnswersFromDataset(t *testing.T) {
	svc, rec := newService(t)
	got, err := svc.Respond(context.Background(), "What causes Y?")
	require.NoError(t, err)
	assert.Equal(t, "Resposta para 'What causes Y?': X", got)
	assert.Zero(t, rec.calls)
}

func TestChatService_FallsBackForUnrelatedQuestions(t *testing.T) {
	svc, rec := newService(t)
	got, err := svc.Respond(context.Background(), "Completely unrelated question about rockets")
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", got)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "Completely unrelated question about rockets", rec.question)
	assert.Equal(t, "X causes Y", rec.passage)
}

func TestChatService_MatcherErrorIsReturned(t *testing.T) {
	ds := dataset.New([]domain.QARecord{{Context: "c", Question: "q", Answer: "a", Embedding: []float64{1}}})
	m := matcher.NewLinear(ds, &stub.Embedder{Fail: true}, matcher.DefaultThreshold, nil)
	svc := NewChatService(m, qa.NewFallback(&recordingAnswerer{}, nil), ds, nil)
	_, err := svc.Respond(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestFormatMatch(t *testing.T) {
	assert.Equal(t, "Resposta para 'Q': A", FormatMatch(domain.Match{Question: "Q", Answer: "A"}))
}
