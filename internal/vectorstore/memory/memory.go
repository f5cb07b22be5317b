package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"qabot/internal/domain"
	"qabot/internal/vectormath"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	records   []domain.QARecord
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.records = nil
	return nil
}

func (s *Storage) Upsert(_ context.Context, records []domain.QARecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if len(r.Embedding) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.ScoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, errors.New("query dimension mismatch")
	}
	if topK <= 0 {
		topK = 5
	}
	results := make([]domain.ScoredRecord, len(s.records))
	for i, r := range s.records {
		results[i] = domain.ScoredRecord{
			Record:   r,
			Position: i,
			Score:    vectormath.Cosine(vector, r.Embedding),
		}
	}
	// stable so that ties keep insertion order
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Storage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *Storage) Close() error { return nil }
