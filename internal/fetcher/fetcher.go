package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/raysh454/kumo/internal/logging"
	"github.com/raysh454/kumo/internal/webclient"
)

// Module: fetcher
// Issues single GET requests with browser-like default headers, a
// per-attempt timeout and a per-request redirect policy. Transport-level
// failures come back as *NetworkError; HTTP statuses of any kind are data.
type Fetcher struct {
	cfg    Config
	wc     webclient.WebClient
	logger logging.Logger
}

// Options carries the per-request knobs. Headers are merged over the
// configured defaults. A non-positive Timeout falls back to the default.
// FollowRedirects must be set explicitly by the caller.
type Options struct {
	Headers         map[string]string
	Timeout         time.Duration
	FollowRedirects bool
}

// Result is a received origin response, whatever its status code.
type Result struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	FinalURL   string
	FetchedAt  time.Time
}

// NetworkError reports a transport-level failure: DNS, connect, TLS,
// timeout, aborted body read. A served non-2xx status is not one.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// New creates a new Fetcher with the given webclient and logger.
func New(cfg Config, wc webclient.WebClient, logger logging.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, fmt.Errorf("fetcher: webclient is nil")
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultConfig().DefaultTimeout
	}
	if cfg.DefaultHeaders == nil {
		cfg.DefaultHeaders = DefaultConfig().DefaultHeaders
	}
	return &Fetcher{
		cfg:    cfg,
		wc:     wc,
		logger: logger.With(logging.Field{Key: "component", Value: "fetcher"}),
	}, nil
}

// Fetch GETs url and returns the origin response, or a *NetworkError when no
// response was received. Each call gets a fresh timeout budget.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) (*Result, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.cfg.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := &webclient.Request{
		Method:          http.MethodGet,
		URL:             url,
		Headers:         f.buildHeaders(opts.Headers),
		FollowRedirects: opts.FollowRedirects,
	}

	resp, err := f.wc.Do(ctx, req)
	if err != nil {
		f.logger.Warn("fetch failed",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, &NetworkError{URL: url, Err: err}
	}

	f.logger.Debug("fetched page",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: "bytes", Value: len(resp.Body)})

	return &Result{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    resp.Headers,
		FinalURL:   resp.FinalURL,
		FetchedAt:  resp.FetchedAt,
	}, nil
}

// buildHeaders overlays per-request headers on the configured defaults.
// Keys go through http.Header canonicalization, so "user-agent" from a
// request replaces the default "User-Agent" instead of riding alongside it.
func (f *Fetcher) buildHeaders(overrides map[string]string) http.Header {
	h := make(http.Header, len(f.cfg.DefaultHeaders)+len(overrides))
	for k, v := range f.cfg.DefaultHeaders {
		h.Set(k, v)
	}
	for k, v := range overrides {
		h.Set(k, v)
	}
	return h
}
