package scraper

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/raysh454/kumo/internal/extractor"
	"github.com/raysh454/kumo/internal/fetcher"
	"github.com/raysh454/kumo/internal/logging"
)

// Fetcher retrieves one page over the network. A non-nil error means no
// response was received at all.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts fetcher.Options) (*fetcher.Result, error)
}

// Extractor turns fetched markup into a queryable document and projects
// selector matches out of it.
type Extractor interface {
	Parse(body []byte) (*extractor.Document, error)
	Extract(doc *extractor.Document, selector string, attributes []string) ([]extractor.Element, int)
}

// Module: scraper
// Runs the fetch→parse→extract pipeline for one request and maps every
// outcome onto the uniform response envelope. Transport failures and
// recovered panics are the only errors inside an attempt, so they alone
// trigger the retry loop; everything else is a terminal response.
type Scraper struct {
	fetcher Fetcher
	ex      Extractor
	retrier *Retrier
	logger  logging.Logger
}

type Config struct {
	// Retry bounds the whole-pipeline retry loop.
	Retry Policy
}

func DefaultConfig() Config {
	return Config{Retry: DefaultPolicy()}
}

// New wires the pipeline. A zero cfg.Retry falls back to the default policy.
func New(cfg Config, f Fetcher, x Extractor, logger logging.Logger) (*Scraper, error) {
	if f == nil {
		return nil, fmt.Errorf("scraper: fetcher is nil")
	}
	if x == nil {
		return nil, fmt.Errorf("scraper: extractor is nil")
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultPolicy()
	}
	componentLogger := logger.With(logging.Field{Key: "component", Value: "scraper"})
	return &Scraper{
		fetcher: f,
		ex:      x,
		retrier: NewRetrier(cfg.Retry, componentLogger),
		logger:  componentLogger,
	}, nil
}

type EventType string

const (
	EventStatus EventType = "status"
	EventRetry  EventType = "retry"
	EventResult EventType = "result"
)

// Event reports scrape progress: state transitions, retry notices, and the
// final envelope.
type Event struct {
	Type    EventType `json:"type"`
	Status  string    `json:"status,omitempty"`
	Attempt int       `json:"attempt,omitempty"`
	Delay   string    `json:"delay,omitempty"`
	Error   string    `json:"error,omitempty"`

	Response *Response `json:"response,omitempty"`
}

// EmitFunc receives progress events. Calls are synchronous; implementations
// should return quickly.
type EmitFunc func(Event)

// Scrape runs the pipeline and always returns a well-formed envelope.
func (s *Scraper) Scrape(ctx context.Context, req Request) Response {
	return s.ScrapeWithEvents(ctx, req, nil)
}

// ScrapeWithEvents is Scrape with progress reporting. emit may be nil.
func (s *Scraper) ScrapeWithEvents(ctx context.Context, req Request, emit EmitFunc) Response {
	attempt := 0
	op := func(ctx context.Context) (Response, error) {
		attempt++
		return s.scrapeOnce(ctx, req, attempt, emit)
	}
	onRetry := func(attempt int, delay time.Duration, err error) {
		s.emit(emit, Event{
			Type:    EventRetry,
			Attempt: attempt,
			Delay:   delay.String(),
			Error:   err.Error(),
		})
	}

	resp, err := s.retrier.Do(ctx, op, onRetry)
	if err != nil {
		s.logger.Error("scrape failed after all attempts",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "attempts", Value: attempt},
			logging.Field{Key: "error", Value: err.Error()})
		resp = failureResponse(err)
	}

	s.emit(emit, Event{Type: EventResult, Response: &resp})
	return resp
}

// scrapeOnce is one pass through the state machine:
// FETCHING → (FETCH_FAILED | FETCHED) → PARSING → (PARSE_FAILED | PARSED)
// → EXTRACTING (selector only) → DONE.
func (s *Scraper) scrapeOnce(ctx context.Context, req Request, attempt int, emit EmitFunc) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic during scrape",
				logging.Field{Key: "url", Value: req.URL},
				logging.Field{Key: "panic", Value: fmt.Sprint(r)})
			resp = Response{}
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	s.emit(emit, Event{Type: EventStatus, Status: "fetching", Attempt: attempt})
	s.logger.Info("fetching page",
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "attempt", Value: attempt})

	res, ferr := s.fetcher.Fetch(ctx, req.URL, fetcher.Options{
		Headers:         req.Headers,
		Timeout:         req.Timeout(),
		FollowRedirects: req.ShouldFollowRedirects(),
	})
	if ferr != nil {
		return Response{}, ferr
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		s.logger.Warn("origin returned error status",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "status", Value: res.StatusCode})
		return httpErrorResponse(res.StatusCode), nil
	}

	if len(bytes.TrimSpace(res.Body)) == 0 {
		return emptyBodyResponse(res.StatusCode), nil
	}

	s.emit(emit, Event{Type: EventStatus, Status: "parsing", Attempt: attempt})
	doc, perr := s.ex.Parse(res.Body)
	if perr != nil {
		return parseFailureResponse(res.StatusCode, perr), nil
	}

	if req.Selector == "" {
		html, serr := doc.Serialize()
		if serr != nil {
			return Response{}, fmt.Errorf("serialize document: %w", serr)
		}
		s.emit(emit, Event{Type: EventStatus, Status: "done", Attempt: attempt})
		return fullDocumentResponse(res.StatusCode, html), nil
	}

	s.emit(emit, Event{Type: EventStatus, Status: "extracting", Attempt: attempt})
	results, matched := s.ex.Extract(doc, req.Selector, req.Attributes)

	s.emit(emit, Event{Type: EventStatus, Status: "done", Attempt: attempt})
	return matchesResponse(res.StatusCode, results, matched), nil
}

func (s *Scraper) emit(emit EmitFunc, ev Event) {
	if emit == nil {
		return
	}
	emit(ev)
}
