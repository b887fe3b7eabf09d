// Package llm opens streaming completions against a language model
// provider and exposes them as a sequence of text deltas.
package llm

import (
	"context"
	"fmt"
)

// Request is one completion request.
type Request struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
}

// Upstream opens a streaming completion.
type Upstream interface {
	// Open returns a stream once the provider accepted the request. A
	// provider refusal is reported as *StatusError before any text is read.
	Open(ctx context.Context, req Request) (DeltaStream, error)
}

// DeltaStream yields text deltas in arrival order.
type DeltaStream interface {
	// Next returns the next non-empty delta, or io.EOF when the model is done.
	Next() (string, error)
	Close() error
}

// StatusError is a non-OK provider answer.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}
