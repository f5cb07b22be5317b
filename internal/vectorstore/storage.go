// Package vectorstore holds the vector indexes behind the indexed matcher.
package vectorstore

import (
	"context"

	"qabot/internal/domain"
)

// Storage persists record vectors and supports cosine similarity search.
// Search results are ordered by descending score; equal scores keep
// insertion order where the backend allows it.
type Storage interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, records []domain.QARecord) error
	Search(ctx context.Context, vector []float64, topK int) ([]domain.ScoredRecord, error)
	Clear(ctx context.Context) error
	Close() error
}
