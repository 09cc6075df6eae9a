package llm

import (
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down or unreachable (5xx,
// network). Retryable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation backend unavailable: %v", e.Err)
	}
	return "generation backend unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrBadRequest covers the non-retryable 4xx class: unauthorized, forbidden,
// not found, malformed request. Retrying these only burns quota.
type ErrBadRequest struct {
	Status int
	Err    error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("generation request rejected (status %d): %v", e.Status, e.Err)
}

func (e *ErrBadRequest) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates the provider answered but produced no usable
// text (no choices, empty content).
type ErrEmptyResponse struct{}

func (e *ErrEmptyResponse) Error() string { return "generation backend returned no content" }
