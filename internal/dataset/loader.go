package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"qabot/internal/domain"
)

// Entry is one (context, question, answer) triple before embedding.
type Entry struct {
	Context  string
	Question string
	Answer   string
}

type rawItem struct {
	Context   *string        `json:"context"`
	Questions *[]rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// Parse decodes a dataset document into entries in source order.
// A missing answer becomes the empty string.
func Parse(r io.Reader) ([]Entry, error) {
	var items []rawItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode dataset json: %w", err)
	}
	var entries []Entry
	for i, item := range items {
		if item.Context == nil {
			return nil, fmt.Errorf("item %d: missing \"context\"", i)
		}
		if item.Questions == nil {
			return nil, fmt.Errorf("item %d: missing \"questions\"", i)
		}
		for j, q := range *item.Questions {
			if q.Question == nil {
				return nil, fmt.Errorf("item %d question %d: missing \"question\"", i, j)
			}
			e := Entry{Context: *item.Context, Question: *q.Question}
			if q.Answer != nil {
				e.Answer = *q.Answer
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Loader reads a dataset file and embeds every question with emb.
type Loader struct {
	emb    domain.Embedder
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(emb domain.Embedder, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{emb: emb, logger: logger}
}

// Load reads and embeds the dataset at path. Read and parse failures are
// returned as *domain.DatasetLoadError; embedding failures abort the load
// with the embedder's error so no partially embedded dataset is served.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.DatasetLoadError{Path: path, Err: err}
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, &domain.DatasetLoadError{Path: path, Err: err}
	}
	l.logger.Debug("dataset parsed", zap.String("path", path), zap.Int("entries", len(entries)))
	return l.Embed(ctx, entries)
}

// Embed prepares the embedder over all questions and embeds each one.
func (l *Loader) Embed(ctx context.Context, entries []Entry) (*Dataset, error) {
	if len(entries) == 0 {
		return Empty(), nil
	}
	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}
	if err := l.emb.Prepare(questions); err != nil {
		return nil, fmt.Errorf("prepare %s embedder: %w: %w", l.emb.Name(), domain.ErrModelUnavailable, err)
	}
	records := make([]domain.QARecord, len(entries))
	for i, e := range entries {
		vec, err := l.emb.Embed(ctx, e.Question)
		if err == nil && len(vec) == 0 {
			err = errors.New("empty embedding")
		}
		if err == nil && i > 0 && len(vec) != len(records[0].Embedding) {
			err = fmt.Errorf("dimension %d, want %d", len(vec), len(records[0].Embedding))
		}
		if err != nil {
			if errors.Is(err, domain.ErrModelUnavailable) {
				return nil, fmt.Errorf("embed question %d %q: %w", i, e.Question, err)
			}
			return nil, fmt.Errorf("embed question %d %q: %w: %w", i, e.Question, domain.ErrModelUnavailable, err)
		}
		records[i] = domain.QARecord{
			Context:   e.Context,
			Question:  e.Question,
			Answer:    e.Answer,
			Embedding: vec,
		}
	}
	l.logger.Info("dataset embedded",
		zap.Int("records", len(records)),
		zap.String("embedder", l.emb.Name()),
		zap.Int("dimension", l.emb.Dimension()),
	)
	return New(records), nil
}
