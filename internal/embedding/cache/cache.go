// Package cache stores embeddings keyed by text so repeated questions skip the model.
package cache

import (
	"container/list"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// Cache is a key/value store for embedding vectors.
type Cache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Set(ctx context.Context, key string, vec []float64) error
}

// Key derives the cache key for text embedded by the named model.
func Key(model, text string) string {
	h := sha1.Sum([]byte(text))
	return model + ":" + hex.EncodeToString(h[:])
}

// Memory is an LRU cache for embeddings.
type Memory struct {
	capacity int
	entries  map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type memoryEntry struct {
	key   string
	value []float64
}

// NewMemory creates an LRU cache holding at most capacity vectors.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Memory{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the cached embedding for key if present.
func (c *Memory) Get(_ context.Context, key string) ([]float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*memoryEntry).value, true, nil
	}
	return nil, false, nil
}

// Set stores the embedding for key, evicting the oldest entry if at capacity.
func (c *Memory) Set(_ context.Context, key string, vec []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*memoryEntry).value = vec
		return nil
	}
	c.entries[key] = c.lru.PushFront(&memoryEntry{key: key, value: vec})
	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*memoryEntry).key)
		}
	}
	return nil
}

// Len returns the number of cached vectors.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Redis stores embeddings as JSON arrays under a key prefix.
type Redis struct {
	client *redisv9.Client
	prefix string
	ttl    time.Duration
}

// NewRedis wraps an existing client. A zero ttl keeps entries forever.
func NewRedis(client *redisv9.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "qabot:emb:"
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

// Dial connects to addr and verifies the server answers PING.
func Dial(ctx context.Context, addr, password string, db int) (*redisv9.Client, error) {
	client := redisv9.NewClient(&redisv9.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}
	return client, nil
}

func (c *Redis) Get(ctx context.Context, key string) ([]float64, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get embedding failed: %w", err)
	}
	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached embedding failed: %w", err)
	}
	return vec, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, vec []float64) error {
	payload, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding failed: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set embedding failed: %w", err)
	}
	return nil
}
