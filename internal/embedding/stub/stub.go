// Package stub provides a lookup-table embedder for tests.
package stub

import (
	"context"
	"fmt"
	"sync"

	"qabot/internal/domain"
)

// Embedder returns fixed vectors from a table. Text missing from the table
// gets Default, or an ErrModelUnavailable error when Default is nil.
type Embedder struct {
	Vectors map[string][]float64
	Default []float64
	// Fail makes every Embed call return an ErrModelUnavailable error.
	Fail bool

	mu    sync.Mutex
	calls int
}

// Name returns "stub".
func (e *Embedder) Name() string { return "stub" }

// Prepare is a no-op.
func (e *Embedder) Prepare(corpus []string) error { return nil }

// Dimension returns the length of the first table vector.
func (e *Embedder) Dimension() int {
	for _, v := range e.Vectors {
		return len(v)
	}
	return len(e.Default)
}

// Embed looks text up in the table.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.Fail {
		return nil, fmt.Errorf("stub: %w", domain.ErrModelUnavailable)
	}
	if v, ok := e.Vectors[text]; ok {
		return v, nil
	}
	if e.Default != nil {
		return e.Default, nil
	}
	return nil, fmt.Errorf("stub: no vector for %q: %w", text, domain.ErrModelUnavailable)
}

// Calls returns how many times Embed ran.
func (e *Embedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
