// Package translate provides the external translation/summarization
// capability clients and the post-translation cleanup rules. The pipeline
// only depends on the Translator and Summarizer interfaces; concrete clients
// exist for a local Ollama instance and the DeepL API.
package translate

import (
	"context"
	"errors"
	"fmt"
)

// Translator converts source-language text to the target language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Summarizer produces a structured summary of a whole paper.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// RetryableError indicates a transient failure (rate limit, server error)
// that is worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// AuthError indicates the capability rejected our credentials. Never retried.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// QuotaError indicates the capability's usage quota is exhausted. Never
// retried.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return "quota exceeded: " + e.Message
}

// IsRetryable checks whether an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// FailureReason maps a translation error to the short reason embedded in the
// inline failure marker.
func FailureReason(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return "authentication"
	}
	var quotaErr *QuotaError
	if errors.As(err, &quotaErr) {
		return "quota exceeded"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		return fmt.Sprintf("status %d", retryErr.StatusCode)
	}
	return truncate(err.Error(), 120)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
