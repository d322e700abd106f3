// Package translate holds the translation backends and the worker pool that
// fans sentences out to them.
package translate

import (
	"context"
	"fmt"
)

// Translator translates one piece of text. Implementations are used by a
// single worker at a time and need not be safe for concurrent use.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Task is one sentence queued for translation, tagged with its position in
// the block.
type Task struct {
	Index int
	Text  string
}

// Result is the outcome of one Task. A failed translation is carried in Err
// rather than aborting the pool.
type Result struct {
	Index      int
	Original   string
	Translated string
	Err        error
}

// Failed reports whether the sentence could not be translated.
func (r Result) Failed() bool { return r.Err != nil }

// ErrorDetail returns the failure text, or "" for a successful result.
func (r Result) ErrorDetail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text, source, target string) (string, error)

func (f Func) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
