package webclient

import (
	"context"
)

// WebClient executes outbound HTTP requests. Implementations must be safe for
// concurrent use and must not mutate their configuration after construction.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience wrapper for a redirect-following GET.
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}
