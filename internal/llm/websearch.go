package llm

import "context"

// webSearchClient turns on search augmentation for every request. Used for
// plan synthesis when the deployment wants resource recommendations grounded
// in live results.
type webSearchClient struct {
	inner Client
}

// WithWebSearch wraps a Client so all requests carry the web-search flag.
func WithWebSearch(c Client) Client {
	return &webSearchClient{inner: c}
}

func (w *webSearchClient) Complete(ctx context.Context, req Request) (*Response, error) {
	req.WebSearch = true
	return w.inner.Complete(ctx, req)
}

func (w *webSearchClient) ModelID() string { return w.inner.ModelID() }
