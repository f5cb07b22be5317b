// Package embedding holds decorators shared by all embedder implementations.
package embedding

import (
	"context"

	"go.uber.org/zap"

	"qabot/internal/domain"
	"qabot/internal/embedding/cache"
)

// Cached wraps an Embedder with a vector cache. Cache failures are logged
// and never fail an embedding.
type Cached struct {
	domain.Embedder
	cache  cache.Cache
	logger *zap.Logger
}

// WithCache returns emb unchanged when c is nil.
func WithCache(emb domain.Embedder, c cache.Cache, logger *zap.Logger) domain.Embedder {
	if c == nil {
		return emb
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{Embedder: emb, cache: c, logger: logger}
}

// Embed returns the cached vector for text or computes and stores it.
func (e *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	key := cache.Key(e.Name(), text)
	if vec, ok, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("embedding cache get failed", zap.Error(err))
	} else if ok && (e.Dimension() == 0 || len(vec) == e.Dimension()) {
		return vec, nil
	} else if ok {
		e.logger.Warn("embedding cache entry has wrong dimension",
			zap.Int("got", len(vec)), zap.Int("want", e.Dimension()))
	}
	vec, err := e.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, key, vec); err != nil {
		e.logger.Warn("embedding cache set failed", zap.Error(err))
	}
	return vec, nil
}
