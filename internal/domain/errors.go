package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned when an embedding or QA model cannot
	// produce a result.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrEmptyContext is returned by answerers given nothing to read.
	ErrEmptyContext = errors.New("empty context")
)

// DatasetLoadError reports a dataset that could not be read or parsed.
type DatasetLoadError struct {
	Path string
	Err  error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *DatasetLoadError) Unwrap() error { return e.Err }
