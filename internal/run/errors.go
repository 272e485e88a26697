package run

import (
	"errors"
	"fmt"

	"github.com/san-kum/sortviz/internal/engine"
)

var (
	// ErrAlreadyRunning is returned by Start, Generate and ResetStats while a sort is active.
	ErrAlreadyRunning = errors.New("run: a sort is already running")

	// ErrEmptySequence is returned by Start before any sequence was generated.
	ErrEmptySequence = errors.New("run: no sequence generated")
)

// SortError wraps a failure that escaped an algorithm.
type SortError struct {
	Algorithm engine.Algorithm
	Wrapped   error
}

func (e *SortError) Error() string {
	return fmt.Sprintf("%s: %v", e.Algorithm, e.Wrapped)
}

func (e *SortError) Unwrap() error {
	return e.Wrapped
}
