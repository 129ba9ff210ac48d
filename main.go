package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/raysh454/kumo/internal/demoserver"
	"github.com/raysh454/kumo/internal/extractor"
	"github.com/raysh454/kumo/internal/fetcher"
	"github.com/raysh454/kumo/internal/logging"
	"github.com/raysh454/kumo/internal/scraper"
	"github.com/raysh454/kumo/internal/webclient"
)

func setupDemoSite() *httptest.Server {
	ds := demoserver.NewDemoServer(demoserver.DefaultConfig())
	return httptest.NewServer(ds.Handler())
}

func main() {
	site := setupDemoSite()
	defer site.Close()

	logger := logging.NewStdoutLogger("Demo")

	wc, err := webclient.NewNetHTTPClient(logger, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer wc.Close()

	f, err := fetcher.New(fetcher.DefaultConfig(), wc, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Short backoff so the flaky demo below recovers quickly.
	cfg := scraper.Config{Retry: scraper.Policy{
		MaxAttempts: 3,
		MinDelay:    200 * time.Millisecond,
		MaxDelay:    time.Second,
		Multiplier:  1,
	}}
	s, err := scraper.New(cfg, f, extractor.New(logger), logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	requests := []scraper.Request{
		{URL: site.URL},
		{URL: site.URL, Selector: "article", Attributes: []string{"class"}},
		{URL: site.URL + "/articles", Selector: "a.article-link", Attributes: []string{"href", "data-id"}},
		{URL: site.URL, Selector: "section.nope"},
		{URL: site.URL + "/missing"},
		{URL: site.URL + "/flaky", Selector: "p.up"},
	}

	for _, req := range requests {
		resp := s.ScrapeWithEvents(context.Background(), req, func(ev scraper.Event) {
			if ev.Type == scraper.EventRetry {
				fmt.Printf("  retrying after attempt %d (%s): %s\n", ev.Attempt, ev.Delay, ev.Error)
			}
		})

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Printf("scrape %s selector=%q:\n%s\n\n", req.URL, req.Selector, out)
	}
}
