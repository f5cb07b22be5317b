package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"qabot/internal/chunker"
	"qabot/internal/config"
	"qabot/internal/dataset"
	"qabot/internal/domain"
	"qabot/internal/embedding"
	"qabot/internal/embedding/cache"
	"qabot/internal/embedding/openai"
	"qabot/internal/embedding/tfidf"
	"qabot/internal/matcher"
	"qabot/internal/qa"
	"qabot/internal/vectorstore"
	"qabot/internal/vectorstore/memory"
	"qabot/internal/vectorstore/qdrant"
)

func buildEmbedder(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (domain.Embedder, func(), error) {
	noop := func() {}
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf":
		emb = tfidf.NewEmbedder()
	case "openai":
		o := cfg.Embedder.OpenAI
		client, err := openai.NewClient(openai.Config{
			BaseURL:        o.BaseURL,
			APIKeyEnv:      o.APIKeyEnv,
			Model:          o.Model,
			Timeout:        time.Duration(o.TimeoutSecs) * time.Second,
			RequestsPerSec: o.RequestsPerSec,
			MaxRetries:     o.MaxRetries,
			Logger:         logger,
		})
		if err != nil {
			return nil, noop, err
		}
		emb = client
	default:
		return nil, noop, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	c := cfg.Embedder.Cache
	switch c.Type {
	case "memory":
		return embedding.WithCache(emb, cache.NewMemory(c.Capacity), logger), noop, nil
	case "redis":
		client, err := cache.Dial(ctx, c.Redis.Addr, c.Redis.Password, c.Redis.DB)
		if err != nil {
			return nil, noop, fmt.Errorf("redis cache: %w", err)
		}
		rc := cache.NewRedis(client, "", time.Duration(c.Redis.TTLSecs)*time.Second)
		return embedding.WithCache(emb, rc, logger), func() { _ = client.Close() }, nil
	default:
		return emb, noop, nil
	}
}

func buildMatcher(ctx context.Context, cfg *config.AppConfig, ds *dataset.Dataset, emb domain.Embedder, logger *zap.Logger) (domain.Matcher, func(), error) {
	noop := func() {}
	switch cfg.Matcher.Type {
	case "linear":
		return matcher.NewLinear(ds, emb, cfg.Matcher.Threshold, logger), noop, nil
	case "indexed":
		var st vectorstore.Storage
		switch cfg.Matcher.Store.Type {
		case "qdrant":
			q := cfg.Matcher.Store.Qdrant
			s, err := qdrant.NewStorage(qdrant.Config{Addr: q.Addr, Collection: q.Collection})
			if err != nil {
				return nil, noop, err
			}
			st = s
		default:
			st = memory.NewStorage()
		}
		closeStore := func() { _ = st.Close() }
		m, err := matcher.NewIndexed(ctx, ds, emb, st, cfg.Matcher.Threshold, logger)
		if err != nil {
			closeStore()
			return nil, noop, err
		}
		return m, closeStore, nil
	default:
		return nil, noop, fmt.Errorf("unknown matcher: %s", cfg.Matcher.Type)
	}
}

func buildAnswerer(cfg *config.AppConfig) (domain.Answerer, error) {
	switch cfg.QA.Type {
	case "extractive":
		return qa.NewExtractive(chunker.NewSentenceChunker(cfg.QA.SentencesPerSpan, cfg.QA.OverlapSentences)), nil
	case "llm":
		l := cfg.QA.LLM
		return qa.NewLLM(qa.LLMConfig{
			BaseURL:        l.BaseURL,
			APIKeyEnv:      l.APIKeyEnv,
			Model:          l.Model,
			Timeout:        time.Duration(l.TimeoutSecs) * time.Second,
			RequestsPerSec: l.RequestsPerSec,
		})
	default:
		return nil, fmt.Errorf("unknown qa model: %s", cfg.QA.Type)
	}
}
