package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qabot/internal/chunker"
	"qabot/internal/dataset"
	"qabot/internal/domain"
	"qabot/internal/embedding/stub"
	"qabot/internal/embedding/tfidf"
	"qabot/internal/matcher"
	"qabot/internal/qa"
	"qabot/internal/service"
)

const twoQuestions = `[{"context":"X causes Y.","questions":[
	{"question":"What causes Y?","answer":"X"},
	{"question":"Is Y treatable?","answer":"Partly"}
]}]`

func datasetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset_Diagnostics(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantOut string
		wantLen int
	}{
		{
			name:    "missing file degrades",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.json") },
			wantOut: datasetWarning + "\n",
		},
		{
			name:    "malformed file degrades",
			path:    func(t *testing.T) string { return datasetFile(t, `{"not":"a list"}`) },
			wantOut: datasetWarning + "\n",
		},
		{
			name:    "empty document warns",
			path:    func(t *testing.T) string { return datasetFile(t, `[]`) },
			wantOut: datasetWarning + "\n",
		},
		{
			name:    "loaded",
			path:    func(t *testing.T) string { return datasetFile(t, twoQuestions) },
			wantOut: "Dataset loaded with 2 question/answer examples.\n",
			wantLen: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			ds, err := loadDataset(context.Background(), dataset.NewLoader(tfidf.NewEmbedder(), nil), tt.path(t), &out, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantLen, ds.Len())
		})
	}
}

func TestLoadDataset_DegradedAnswersFromFallbackOnly(t *testing.T) {
	ctx := context.Background()
	emb := tfidf.NewEmbedder()
	var out bytes.Buffer
	ds, err := loadDataset(ctx, dataset.NewLoader(emb, nil), filepath.Join(t.TempDir(), "absent.json"), &out, zap.NewNop())
	require.NoError(t, err)

	answerer := qa.NewExtractive(chunker.NewSentenceChunker(1, 0))
	svc := service.NewChatService(matcher.NewLinear(ds, emb, matcher.DefaultThreshold, nil), qa.NewFallback(answerer, nil), ds, nil)
	reply, err := svc.Respond(ctx, "What causes Y?")
	require.NoError(t, err)
	assert.Contains(t, reply, "Could not find an answer")
	assert.NotContains(t, reply, "Resposta para")
}

func TestLoadDataset_EmbeddingFailureIsReturned(t *testing.T) {
	var out bytes.Buffer
	_, err := loadDataset(context.Background(), dataset.NewLoader(&stub.Embedder{Fail: true}, nil), datasetFile(t, twoQuestions), &out, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	assert.Empty(t, out.String())
}

func TestLoadDataset_InterruptReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	_, err := loadDataset(ctx, dataset.NewLoader(tfidf.NewEmbedder(), nil), datasetFile(t, twoQuestions), &out, zap.NewNop())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
