package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/raysh454/kumo/docs/swagger"
	"github.com/raysh454/kumo/internal/extractor"
	"github.com/raysh454/kumo/internal/fetcher"
	"github.com/raysh454/kumo/internal/logging"
	"github.com/raysh454/kumo/internal/scraper"
	"github.com/raysh454/kumo/internal/utils"
	"github.com/raysh454/kumo/internal/webclient"
)

// Server is the HTTP + WebSocket API surface for Kumo.
type Server struct {
	cfg      Config
	scraper  *scraper.Scraper
	wc       webclient.WebClient
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer creates a new Server with its own scrape pipeline.
func NewServer(cfg Config) (*Server, error) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	wc, err := webclient.NewNetHTTPClient(logger, nil)
	if err != nil {
		return nil, fmt.Errorf("creating web client: %w", err)
	}

	f, err := fetcher.New(cfg.Fetcher, wc, logger)
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	sc, err := scraper.New(cfg.Scraper, f, extractor.New(logger), logger)
	if err != nil {
		return nil, fmt.Errorf("creating scraper: %w", err)
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:     cfg,
		scraper: sc,
		wc:      wc,
		router:  r,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Scraper returns the underlying pipeline for advanced use (tests, etc.).
func (s *Server) Scraper() *scraper.Scraper {
	return s.scraper
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/scrape", s.optionsHandler("POST"))
	r.Options("/health", s.optionsHandler("GET"))
	r.Options("/ws/scrape", s.optionsHandler("GET"))

	r.Post("/scrape", s.handleScrape)
	r.Get("/health", s.handleHealth)

	// WebSocket for scrape progress
	r.Get("/ws/scrape", s.handleScrapeWS)

	// Interactive API docs
	r.Get("/swagger/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()
	w.Header().Set("X-Request-ID", reqID)

	fields := []logging.Field{
		{Key: "request_id", Value: reqID},
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the outbound HTTP client's pooled connections.
func (s *Server) Close() {
	if s.wc != nil {
		_ = s.wc.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

// handleScrape runs one scrape and answers 200 with the result envelope.
// The origin's status travels inside the body as statusCode; only a
// request-level failure (malformed JSON, invalid target URL) becomes an
// HTTP error status here.
//
//	@Summary	Scrape a page
//	@Accept		json
//	@Produce	json
//	@Param		request	body		scraper.Request	true	"scrape order"
//	@Success	200		{object}	scraper.Response
//	@Failure	400		{object}	server.ErrorResponse
//	@Router		/scrape [post]
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scraper.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("decoding scrape body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	target, err := utils.NormalizeTargetURL(req.URL)
	if err != nil {
		s.logger.Warn("rejecting scrape target", logging.Field{Key: "url", Value: req.URL}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.URL = target

	resp := s.scraper.Scrape(r.Context(), req)
	s.logger.Info("scrape finished",
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "success", Value: resp.Success},
		logging.Field{Key: "status", Value: resp.StatusCode})
	writeJSON(w, http.StatusOK, resp)
}

//	@Summary	Health check
//	@Produce	json
//	@Success	200	{object}	server.HealthResponse
//	@Router		/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// --- WebSocket ---

// handleScrapeWS reads one scrape request off the socket and streams
// progress events back; the final envelope rides the result event.
func (s *Server) handleScrapeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var req scraper.Request
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Warn("decoding websocket scrape request", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(ErrorResponse{Error: "invalid JSON"})
		return
	}

	target, err := utils.NormalizeTargetURL(req.URL)
	if err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}
	req.URL = target

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s.scraper.ScrapeWithEvents(ctx, req, func(ev scraper.Event) {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; abort the scrape
			cancel()
		}
	})
}
