// Package matcher finds the stored question most similar to a user query.
//
// Both implementations embed the query, pick the record with the highest
// cosine similarity (the earliest record wins ties) and accept it only when
// the similarity is strictly greater than the threshold.
package matcher

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"qabot/internal/dataset"
	"qabot/internal/domain"
	"qabot/internal/vectormath"
	"qabot/internal/vectorstore"
)

// DefaultThreshold is the minimum similarity, exclusive, for a match.
const DefaultThreshold = 0.9

// ErrDimensionMismatch reports a query and a stored record embedded in
// different vector spaces.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Linear scans every record of the dataset for each query.
type Linear struct {
	ds        *dataset.Dataset
	emb       domain.Embedder
	threshold float64
	logger    *zap.Logger
}

// NewLinear creates a full-scan matcher over ds.
func NewLinear(ds *dataset.Dataset, emb domain.Embedder, threshold float64, logger *zap.Logger) *Linear {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linear{ds: ds, emb: emb, threshold: threshold, logger: logger}
}

func (m *Linear) Name() string { return "linear" }

// FindMatch returns the closest record's question and answer when its
// similarity exceeds the threshold.
func (m *Linear) FindMatch(ctx context.Context, query string) (domain.Match, bool, error) {
	if m.ds.Len() == 0 {
		return domain.Match{}, false, nil
	}
	q, err := m.emb.Embed(ctx, query)
	if err != nil {
		return domain.Match{}, false, fmt.Errorf("embed query: %w", err)
	}
	best, bestScore := -1, 0.0
	for i := 0; i < m.ds.Len(); i++ {
		r := m.ds.At(i)
		if len(r.Embedding) != len(q) {
			return domain.Match{}, false, fmt.Errorf("record %d: %w (query %d, record %d)", i, ErrDimensionMismatch, len(q), len(r.Embedding))
		}
		score := vectormath.Cosine(q, r.Embedding)
		if best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	r := m.ds.At(best)
	return accept(m.logger, r, bestScore, m.threshold)
}

// Indexed answers queries from a vector store loaded once with the dataset.
type Indexed struct {
	store     vectorstore.Storage
	emb       domain.Embedder
	threshold float64
	size      int
	logger    *zap.Logger
}

// NewIndexed initializes store with every record of ds.
func NewIndexed(ctx context.Context, ds *dataset.Dataset, emb domain.Embedder, store vectorstore.Storage, threshold float64, logger *zap.Logger) (*Indexed, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Indexed{store: store, emb: emb, threshold: threshold, size: ds.Len(), logger: logger}
	if m.size == 0 {
		return m, nil
	}
	records := ds.Records()
	if err := store.Init(ctx, len(records[0].Embedding)); err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	if err := store.Upsert(ctx, records); err != nil {
		return nil, fmt.Errorf("index dataset: %w", err)
	}
	logger.Info("dataset indexed", zap.Int("records", len(records)))
	return m, nil
}

func (m *Indexed) Name() string { return "indexed" }

// FindMatch searches the store for the single nearest record.
func (m *Indexed) FindMatch(ctx context.Context, query string) (domain.Match, bool, error) {
	if m.size == 0 {
		return domain.Match{}, false, nil
	}
	q, err := m.emb.Embed(ctx, query)
	if err != nil {
		return domain.Match{}, false, fmt.Errorf("embed query: %w", err)
	}
	hits, err := m.store.Search(ctx, q, 1)
	if err != nil {
		return domain.Match{}, false, fmt.Errorf("search index: %w", err)
	}
	if len(hits) == 0 {
		return domain.Match{}, false, nil
	}
	return accept(m.logger, hits[0].Record, hits[0].Score, m.threshold)
}

func accept(logger *zap.Logger, r domain.QARecord, score, threshold float64) (domain.Match, bool, error) {
	logger.Debug("best candidate",
		zap.String("question", r.Question),
		zap.Float64("similarity", score),
		zap.Float64("threshold", threshold),
	)
	if score > threshold {
		return domain.Match{Question: r.Question, Answer: r.Answer, Score: score}, true, nil
	}
	return domain.Match{}, false, nil
}
