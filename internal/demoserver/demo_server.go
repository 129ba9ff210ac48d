package demoserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DemoServer is a small deterministic site used as a scrape target in demos
// and tests. Fixed pages always answer the same way; the behavior routes
// (/redirect, /slow, /flaky) exercise the fetch layer's edge cases.
type DemoServer struct {
	cfg   Config
	pages map[string]Page

	mu        sync.Mutex
	flakyLeft int
}

// NewDemoServer creates a new demo site instance.
func NewDemoServer(cfg Config) *DemoServer {
	pages := GetAllPages()
	pageMap := make(map[string]Page)
	for _, p := range pages {
		pageMap[p.Path] = p
	}

	return &DemoServer{
		cfg:       cfg,
		pages:     pageMap,
		flakyLeft: cfg.FlakyFailures,
	}
}

// Handler returns the site's routes, so the site can be mounted in-process
// (httptest) as well as served by Start.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Fixed pages
	for path := range s.pages {
		mux.HandleFunc(path, s.pageHandler(path))
	}

	// Behavior routes
	mux.HandleFunc("/redirect", s.redirectHandler)
	mux.HandleFunc("/slow", s.slowHandler)
	mux.HandleFunc("/flaky", s.flakyHandler)

	// Control route for replayable demos
	mux.HandleFunc("/demo/reset", s.resetHandler)

	return mux
}

// Start starts the demo site.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo site starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// pageHandler returns a handler for a specific fixed page.
func (s *DemoServer) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The root pattern matches every unknown path; those get a bare 404.
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}

		page := s.pages[path]

		for k, v := range page.Headers {
			w.Header().Set(k, v)
		}

		contentType := page.ContentType
		if contentType == "" {
			contentType = "text/html"
		}
		w.Header().Set("Content-Type", contentType)

		status := page.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(page.HTML))
	}
}

// redirectHandler bounces to the home page.
func (s *DemoServer) redirectHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

// slowHandler answers after a delay (default 2s, ?delay= overrides). Pair it
// with a short request timeout to see the transport-failure envelope.
func (s *DemoServer) slowHandler(w http.ResponseWriter, r *http.Request) {
	delay := 2 * time.Second
	if raw := r.URL.Query().Get("delay"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 && parsed < time.Minute {
			delay = parsed
		}
	}

	select {
	case <-time.After(delay):
	case <-r.Context().Done():
		return
	}

	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<html><body><p class="late">Worth the wait.</p></body></html>`))
}

// flakyHandler kills the first FlakyFailures connections without writing a
// response, then serves normally. A dropped connection is a transport error
// at the client; an HTTP error status would be terminal, not retried.
func (s *DemoServer) flakyHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	drop := s.flakyLeft > 0
	if drop {
		s.flakyLeft--
	}
	s.mu.Unlock()

	if drop {
		hj, ok := w.(http.Hijacker)
		if !ok {
			http.Error(w, "cannot drop connection", http.StatusInternalServerError)
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			return
		}
		_ = conn.Close()
		return
	}

	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(`<html><body><p class="up">Back up again.</p></body></html>`))
}

// resetHandler re-arms the flaky route so demos can be replayed.
func (s *DemoServer) resetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	s.flakyLeft = s.cfg.FlakyFailures
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Flaky route re-armed",
	})
}
