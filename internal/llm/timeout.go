package llm

import (
	"context"
	"time"
)

// timeoutClient bounds every call with a per-call deadline, in addition to
// whatever deadline the inbound request already carries. The synthesis chain
// makes several multi-minute-capable calls in sequence; each one gets its
// own budget.
type timeoutClient struct {
	inner Client
	d     time.Duration
}

// WithTimeout wraps a Client with a per-call timeout. Zero disables it.
func WithTimeout(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return &timeoutClient{inner: c, d: d}
}

func (t *timeoutClient) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.inner.Complete(ctx, req)
}

func (t *timeoutClient) ModelID() string { return t.inner.ModelID() }
