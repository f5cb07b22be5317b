package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qabot/internal/domain"
	"qabot/internal/embedding/stub"
	"qabot/internal/embedding/tfidf"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_FlattensInSourceOrder(t *testing.T) {
	entries, err := Parse(strings.NewReader(`[
		{"context": "C1", "questions": [
			{"question": "Q1", "answer": "A1"},
			{"question": "Q2"}
		]},
		{"context": "C2", "questions": [{"question": "Q3", "answer": "A3"}]},
		{"context": "C3", "questions": []}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Context: "C1", Question: "Q1", Answer: "A1"},
		{Context: "C1", Question: "Q2", Answer: ""},
		{Context: "C2", Question: "Q3", Answer: "A3"},
	}, entries)
}

func TestParse_SchemaMismatch(t *testing.T) {
	cases := map[string]string{
		"missing context":   `[{"questions": []}]`,
		"missing questions": `[{"context": "c"}]`,
		"missing question":  `[{"context": "c", "questions": [{"answer": "a"}]}]`,
		"context not text":  `[{"context": 3, "questions": []}]`,
		"not a list":        `{"context": "c"}`,
		"malformed":         `[{"context": `,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoader_LoadRoundTrip(t *testing.T) {
	path := writeFile(t, `[{"context":"X causes Y","questions":[
		{"question":"What causes Y?","answer":"X"},
		{"question":"Does X cause Y?"}
	]}]`)

	ds, err := NewLoader(tfidf.NewEmbedder(), nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	records := ds.Records()
	assert.Equal(t, "What causes Y?", records[0].Question)
	assert.Equal(t, "X", records[0].Answer)
	assert.Equal(t, "", records[1].Answer)
	for _, r := range records {
		assert.Equal(t, "X causes Y", r.Context)
		assert.NotNil(t, r.Embedding)
	}
	assert.Equal(t, []string{"X causes Y"}, ds.Contexts())
	assert.Equal(t, []string{"What causes Y?", "Does X cause Y?"}, ds.Questions())
}

func TestLoader_LoadErrorsAreDatasetLoadErrors(t *testing.T) {
	emb := &stub.Embedder{Default: []float64{1}}
	cases := map[string]string{
		"missing file": filepath.Join(t.TempDir(), "nope.json"),
		"malformed":    writeFile(t, `[{"context":`),
		"schema":       writeFile(t, `[{"ctx":"a","questions":[]}]`),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader(emb, nil).Load(context.Background(), path)
			require.Error(t, err)
			var loadErr *domain.DatasetLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, path, loadErr.Path)
			assert.NotNil(t, errors.Unwrap(loadErr))
		})
	}
}

func TestLoader_EmbeddingFailureIsFatal(t *testing.T) {
	path := writeFile(t, `[{"context":"c","questions":[{"question":"q","answer":"a"}]}]`)
	_, err := NewLoader(&stub.Embedder{Fail: true}, nil).Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	var loadErr *domain.DatasetLoadError
	assert.False(t, errors.As(err, &loadErr))
}

type plainEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (e *plainEmbedder) Name() string                  { return "plain" }
func (e *plainEmbedder) Prepare(corpus []string) error { return nil }
func (e *plainEmbedder) Dimension() int                { return 0 }
func (e *plainEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vectors[text], nil
}

func TestLoader_EmbedFailuresAlwaysWrapModelUnavailable(t *testing.T) {
	entries := []Entry{
		{Context: "c", Question: "q1", Answer: "a1"},
		{Context: "c", Question: "q2", Answer: "a2"},
	}
	tests := []struct {
		name string
		emb  *plainEmbedder
		want string
	}{
		{name: "plain error", emb: &plainEmbedder{err: errors.New("connection refused")}, want: "connection refused"},
		{name: "nil vector", emb: &plainEmbedder{vectors: map[string][]float64{"q1": {1, 0}}}, want: "empty embedding"},
		{name: "dimension drift", emb: &plainEmbedder{vectors: map[string][]float64{"q1": {1, 0}, "q2": {1, 0, 0}}}, want: "dimension 3, want 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.emb, nil).Embed(context.Background(), entries)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrModelUnavailable)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoader_EmptyDocument(t *testing.T) {
	path := writeFile(t, `[]`)
	ds, err := NewLoader(tfidf.NewEmbedder(), nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Contexts())
}

func TestDataset_ContextsUniqueFirstSeenOrder(t *testing.T) {
	ds := New([]domain.QARecord{
		{Context: "B", Question: "1"},
		{Context: "A", Question: "2"},
		{Context: "B", Question: "3"},
		{Context: "C", Question: "4"},
	})
	assert.Equal(t, []string{"B", "A", "C"}, ds.Contexts())
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, "3", ds.At(2).Question)
}

func TestDataset_RecordsIsACopy(t *testing.T) {
	ds := New([]domain.QARecord{{Context: "c", Question: "q"}})
	recs := ds.Records()
	recs[0].Question = "changed"
	assert.Equal(t, "q", ds.At(0).Question)
}
