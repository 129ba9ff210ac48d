package scraper_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/kumo/internal/extractor"
	"github.com/raysh454/kumo/internal/fetcher"
	"github.com/raysh454/kumo/internal/scraper"
	"github.com/raysh454/kumo/internal/testutil"
	"github.com/raysh454/kumo/internal/webclient"
)

const blogPage = `<!DOCTYPE html>
<html>
<head><title>Blog</title></head>
<body>
  <article class="post featured"><h2>First</h2> post body</article>
  <article class="post">Second	 post</article>
  <aside>not an article</aside>
</body>
</html>`

// fastRetry keeps the full attempt budget but shrinks backoff to
// microscopic sleeps so failure tests stay quick.
func fastRetry() scraper.Policy {
	return scraper.Policy{
		MaxAttempts: 3,
		MinDelay:    time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
		Multiplier:  1,
	}
}

// newScraper assembles the real pipeline: net/http webclient, fetcher and
// goquery extractor.
func newScraper(t *testing.T, retry scraper.Policy) *scraper.Scraper {
	t.Helper()
	logger := &testutil.DummyLogger{}

	wc, err := webclient.NewNetHTTPClient(logger, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient failed: %v", err)
	}
	t.Cleanup(func() { _ = wc.Close() })

	f, err := fetcher.New(fetcher.DefaultConfig(), wc, logger)
	if err != nil {
		t.Fatalf("fetcher.New failed: %v", err)
	}

	s, err := scraper.New(scraper.Config{Retry: retry}, f, extractor.New(logger), logger)
	if err != nil {
		t.Fatalf("scraper.New failed: %v", err)
	}
	return s
}

// newDummyScraper wires scripted fetcher/extractor doubles behind the
// pipeline, for paths the real stack cannot be pushed into.
func newDummyScraper(t *testing.T, f *testutil.DummyFetcher, x *testutil.DummyExtractor) *scraper.Scraper {
	t.Helper()
	s, err := scraper.New(scraper.Config{Retry: fastRetry()}, f, x, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("scraper.New failed: %v", err)
	}
	return s
}

// ─── Success envelopes ─────────────────────────────────────────────────

func TestScrape_NoSelectorReturnsFullDocument(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	s := newScraper(t, fastRetry())
	resp := s.Scrape(context.Background(), scraper.Request{URL: srv.URL})

	if !resp.Success {
		t.Fatalf("expected success, got error %q message %q", resp.Error, resp.Message)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	html, ok := resp.Data.HTML()
	if !ok {
		t.Fatal("expected a full-document payload")
	}
	if !strings.Contains(html, "<article") || !strings.Contains(html, "not an article") {
		t.Errorf("serialized document lost content: %q", html)
	}
}

func TestScrape_SelectorReturnsMatches(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	s := newScraper(t, fastRetry())
	resp := s.Scrape(context.Background(), scraper.Request{
		URL:        srv.URL,
		Selector:   "article",
		Attributes: []string{"class"},
	})

	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	if resp.Message != "" {
		t.Errorf("matches present, expected no message, got %q", resp.Message)
	}
	results, ok := resp.Data.Results()
	if !ok {
		t.Fatal("expected a matches payload")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(results))
	}
	if results[0].Text != "First post body" {
		t.Errorf("expected collapsed text %q, got %q", "First post body", results[0].Text)
	}
	if results[0].Attrs["class"] != "post featured" {
		t.Errorf("expected class attribute, got %v", results[0].Attrs)
	}
}

func TestScrape_SelectorWithoutMatches(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	s := newScraper(t, fastRetry())
	resp := s.Scrape(context.Background(), scraper.Request{URL: srv.URL, Selector: "section.nope"})

	if !resp.Success {
		t.Fatalf("zero matches is still a success, got error %q", resp.Error)
	}
	if resp.Message != "No elements found matching the selector" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	results, ok := resp.Data.Results()
	if !ok {
		t.Fatal("expected a matches payload")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

// ─── Failure envelopes that do not retry ───────────────────────────────

func TestScrape_HTTPErrorStatus(t *testing.T) {
	t.Parallel()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "gone fishing", http.StatusNotFound)
	}))
	defer srv.Close()

	s := newScraper(t, fastRetry())
	resp := s.Scrape(context.Background(), scraper.Request{URL: srv.URL})

	if resp.Success {
		t.Fatal("expected failure for a 404")
	}
	if resp.Error != "HTTP Error: 404" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if resp.Message != "Server returned status code 404" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected statusCode 404, got %d", resp.StatusCode)
	}
	if hits != 1 {
		t.Errorf("an HTTP error is terminal, expected 1 request, got %d", hits)
	}
}

func TestScrape_EmptyBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("   \n\t  "))
	}))
	defer srv.Close()

	s := newScraper(t, fastRetry())
	resp := s.Scrape(context.Background(), scraper.Request{URL: srv.URL})

	if resp.Success {
		t.Fatal("expected failure for an empty body")
	}
	if resp.Error != "Empty response from server" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if resp.Message != "Received empty HTML content" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected the origin status 200, got %d", resp.StatusCode)
	}
}

func TestScrape_ParseFailure(t *testing.T) {
	t.Parallel()
	f := &testutil.DummyFetcher{}
	x := &testutil.DummyExtractor{ParseErr: errors.New("bad markup")}

	s := newDummyScraper(t, f, x)
	resp := s.Scrape(context.Background(), scraper.Request{URL: "http://example.com"})

	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Error != "HTML parsing failed" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if resp.Message != "Failed to parse HTML: bad markup" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if f.Calls() != 1 {
		t.Errorf("a parse failure is terminal, expected 1 fetch, got %d", f.Calls())
	}
}

func TestScrape_AllExtractionsRejected(t *testing.T) {
	t.Parallel()
	f := &testutil.DummyFetcher{}
	x := &testutil.DummyExtractor{Matched: 2, ExtractResults: nil}

	s := newDummyScraper(t, f, x)
	resp := s.Scrape(context.Background(), scraper.Request{URL: "http://example.com", Selector: "p"})

	if !resp.Success {
		t.Fatalf("matched elements mean success, got error %q", resp.Error)
	}
	if resp.Message != "No valid data extracted from elements" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

// ─── Errors and the retry loop ─────────────────────────────────────────

func TestScrape_NetworkFailureExhaustsRetries(t *testing.T) {
	t.Parallel()
	f := &testutil.DummyFetcher{
		Err: &fetcher.NetworkError{URL: "http://down.test", Err: errors.New("connection refused")},
	}

	s := newDummyScraper(t, f, &testutil.DummyExtractor{})
	resp := s.Scrape(context.Background(), scraper.Request{URL: "http://down.test"})

	if resp.Success {
		t.Fatal("expected failure")
	}
	if f.Calls() != 3 {
		t.Errorf("expected 3 attempts, got %d", f.Calls())
	}
	if resp.Error != "Request failed: connection refused" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if resp.Message != "Network request failed" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.StatusCode != 0 {
		t.Errorf("no response was received, statusCode should be absent, got %d", resp.StatusCode)
	}
}

func TestScrape_RecoversOnSecondAttempt(t *testing.T) {
	t.Parallel()
	f := &testutil.DummyFetcher{
		Err:       &fetcher.NetworkError{URL: "http://flaky.test", Err: errors.New("reset by peer")},
		FailFirst: 1,
	}
	x := &testutil.DummyExtractor{
		Matched:        1,
		ExtractResults: []extractor.Element{{Text: "recovered"}},
	}

	s := newDummyScraper(t, f, x)
	resp := s.Scrape(context.Background(), scraper.Request{URL: "http://flaky.test", Selector: "p"})

	if !resp.Success {
		t.Fatalf("expected eventual success, got error %q", resp.Error)
	}
	if f.Calls() != 2 {
		t.Errorf("expected 2 attempts, got %d", f.Calls())
	}
	results, _ := resp.Data.Results()
	if len(results) != 1 || results[0].Text != "recovered" {
		t.Errorf("unexpected results %v", results)
	}
}

func TestScrape_PanicLandsInCatchAll(t *testing.T) {
	t.Parallel()
	f := &testutil.DummyFetcher{}
	x := &testutil.DummyExtractor{PanicOnExtract: true}

	s := newDummyScraper(t, f, x)
	resp := s.Scrape(context.Background(), scraper.Request{URL: "http://example.com", Selector: "p"})

	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Error != "Scraping failed: panic: dummy extractor panic" {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if resp.Message != "Unexpected error during scraping" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if f.Calls() != 3 {
		t.Errorf("panics are retryable, expected 3 attempts, got %d", f.Calls())
	}
}

func TestScrape_ForwardsPerRequestOptions(t *testing.T) {
	t.Parallel()
	f := &testutil.DummyFetcher{}
	x := &testutil.DummyExtractor{}
	s := newDummyScraper(t, f, x)

	follow := false
	s.Scrape(context.Background(), scraper.Request{
		URL:             "http://example.com",
		Selector:        "p",
		Headers:         map[string]string{"X-Token": "abc"},
		TimeoutSeconds:  5,
		FollowRedirects: &follow,
	})

	if len(f.Opts) != 1 {
		t.Fatalf("expected 1 fetch, got %d", len(f.Opts))
	}
	opts := f.Opts[0]
	if opts.Timeout != 5*time.Second {
		t.Errorf("expected a 5s timeout, got %v", opts.Timeout)
	}
	if opts.FollowRedirects {
		t.Error("expected redirects disabled")
	}
	if opts.Headers["X-Token"] != "abc" {
		t.Errorf("expected header forwarded, got %v", opts.Headers)
	}
}

// ─── Progress events ───────────────────────────────────────────────────

func collectEvents(s *scraper.Scraper, req scraper.Request) ([]scraper.Event, scraper.Response) {
	var events []scraper.Event
	resp := s.ScrapeWithEvents(context.Background(), req, func(ev scraper.Event) {
		events = append(events, ev)
	})
	return events, resp
}

func eventTypes(events []scraper.Event) []scraper.EventType {
	types := make([]scraper.EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func TestScrapeWithEvents_SuccessSequence(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	s := newScraper(t, fastRetry())
	events, resp := collectEvents(s, scraper.Request{URL: srv.URL, Selector: "article"})

	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}

	wantStatuses := []string{"fetching", "parsing", "extracting", "done"}
	var statuses []string
	for _, ev := range events {
		if ev.Type == scraper.EventStatus {
			statuses = append(statuses, ev.Status)
		}
	}
	if len(statuses) != len(wantStatuses) {
		t.Fatalf("expected statuses %v, got %v", wantStatuses, statuses)
	}
	for i := range wantStatuses {
		if statuses[i] != wantStatuses[i] {
			t.Errorf("status %d = %q, want %q", i, statuses[i], wantStatuses[i])
		}
	}

	last := events[len(events)-1]
	if last.Type != scraper.EventResult {
		t.Fatalf("expected the final event to be the result, got %q", last.Type)
	}
	if last.Response == nil || !last.Response.Success {
		t.Error("result event should carry the final envelope")
	}
}

func TestScrapeWithEvents_RetrySequence(t *testing.T) {
	t.Parallel()
	f := &testutil.DummyFetcher{
		Err: &fetcher.NetworkError{URL: "http://down.test", Err: errors.New("connection refused")},
	}

	s := newDummyScraper(t, f, &testutil.DummyExtractor{})
	events, resp := collectEvents(s, scraper.Request{URL: "http://down.test"})

	if resp.Success {
		t.Fatal("expected failure")
	}

	want := []scraper.EventType{
		scraper.EventStatus, scraper.EventRetry,
		scraper.EventStatus, scraper.EventRetry,
		scraper.EventStatus, scraper.EventResult,
	}
	got := eventTypes(events)
	if len(got) != len(want) {
		t.Fatalf("expected event types %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}

	retries := 0
	for _, ev := range events {
		if ev.Type != scraper.EventRetry {
			continue
		}
		retries++
		if ev.Attempt != retries {
			t.Errorf("retry event attempt = %d, want %d", ev.Attempt, retries)
		}
		if ev.Delay == "" || ev.Error == "" {
			t.Errorf("retry event should carry delay and error: %+v", ev)
		}
	}
	if retries != 2 {
		t.Errorf("expected 2 retry events, got %d", retries)
	}

	last := events[len(events)-1]
	if last.Response == nil || last.Response.Success {
		t.Error("result event should carry the failure envelope")
	}
}

// ─── Envelope JSON contract ────────────────────────────────────────────

func TestResponseJSON_DataIsAlwaysAnObject(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		resp scraper.Response
		want string
	}{
		{
			name: "failure carries an empty object",
			resp: scraper.Response{Success: false, Error: "HTTP Error: 404", StatusCode: 404},
			want: `"data":{}`,
		},
		{
			name: "full document",
			resp: scraper.Response{Success: true, Data: scraper.FullDocument("<html></html>"), StatusCode: 200},
			want: `"data":{"html":"<html></html>"}`,
		},
		{
			name: "matches with no results stays an array",
			resp: scraper.Response{Success: true, Data: scraper.ElementMatches(nil), StatusCode: 200},
			want: `"data":{"results":[]}`,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			raw, err := json.Marshal(c.resp)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if !strings.Contains(string(raw), c.want) {
				t.Errorf("expected %s in %s", c.want, raw)
			}
		})
	}
}

func TestRequestDefaults(t *testing.T) {
	t.Parallel()
	var req scraper.Request

	if req.Timeout() != 0 {
		t.Errorf("absent timeout should defer to the fetcher default, got %v", req.Timeout())
	}
	req.TimeoutSeconds = -3
	if req.Timeout() != 0 {
		t.Errorf("negative timeout should defer to the fetcher default, got %v", req.Timeout())
	}
	req.TimeoutSeconds = 12
	if req.Timeout() != 12*time.Second {
		t.Errorf("expected 12s, got %v", req.Timeout())
	}

	if !req.ShouldFollowRedirects() {
		t.Error("absent followRedirects should default to true")
	}
	follow := false
	req.FollowRedirects = &follow
	if req.ShouldFollowRedirects() {
		t.Error("explicit false should disable redirects")
	}
}
