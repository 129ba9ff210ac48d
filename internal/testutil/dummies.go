// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/raysh454/kumo/internal/extractor"
	"github.com/raysh454/kumo/internal/fetcher"
	"github.com/raysh454/kumo/internal/logging"
	"github.com/raysh454/kumo/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient.
// By default it returns body "ok:<url>" with status 200. Pages scripts a
// canned response per URL; set FailURLs[url] = true to force an error.
type DummyWebClient struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool
	Pages         map[string]*webclient.Response
	mu            sync.Mutex
	Requests      []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, &errString{"dummy fetch fail for " + req.URL}
	}

	if page, ok := d.Pages[req.URL]; ok {
		page.Request = req
		return page, nil
	}

	return &webclient.Response{
		Request:    req,
		Body:       []byte("ok:" + req.URL),
		StatusCode: 200,
		FinalURL:   req.URL,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "GET", URL: url, FollowRedirects: true})
}

func (d *DummyWebClient) Close() error { return nil }

// RequestCount reports how many requests went through Do.
func (d *DummyWebClient) RequestCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Requests)
}

// ─── Fetcher ───────────────────────────────────────────────────────────

// DummyFetcher implements scraper.Fetcher with scripted outcomes.
// Err makes every call fail; FailFirst limits the failures to the first N
// calls, after which Result (or a plain 200 page) is returned.
type DummyFetcher struct {
	Result    *fetcher.Result
	Err       error
	FailFirst int

	mu   sync.Mutex
	URLs []string
	Opts []fetcher.Options
}

func (d *DummyFetcher) Fetch(_ context.Context, url string, opts fetcher.Options) (*fetcher.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.URLs = append(d.URLs, url)
	d.Opts = append(d.Opts, opts)

	if d.Err != nil && (d.FailFirst == 0 || len(d.URLs) <= d.FailFirst) {
		return nil, d.Err
	}
	if d.Result != nil {
		return d.Result, nil
	}
	return &fetcher.Result{
		StatusCode: 200,
		Body:       []byte("<html><body><p>ok</p></body></html>"),
		FinalURL:   url,
		FetchedAt:  time.Now(),
	}, nil
}

// Calls reports how many fetches were attempted.
func (d *DummyFetcher) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.URLs)
}

// ─── Extractor ─────────────────────────────────────────────────────────

// DummyExtractor implements scraper.Extractor with scripted outcomes.
type DummyExtractor struct {
	ParseErr       error
	Doc            *extractor.Document
	ExtractResults []extractor.Element
	Matched        int
	PanicOnExtract bool
}

func (d *DummyExtractor) Parse(_ []byte) (*extractor.Document, error) {
	if d.ParseErr != nil {
		return nil, d.ParseErr
	}
	return d.Doc, nil
}

func (d *DummyExtractor) Extract(_ *extractor.Document, _ string, _ []string) ([]extractor.Element, int) {
	if d.PanicOnExtract {
		panic("dummy extractor panic")
	}
	return d.ExtractResults, d.Matched
}

// ─── helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }
