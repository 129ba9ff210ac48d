package server

import (
	"github.com/raysh454/kumo/internal/fetcher"
	"github.com/raysh454/kumo/internal/logging"
	"github.com/raysh454/kumo/internal/scraper"
)

// DefaultListenAddr is the address the API binds to unless configured.
const DefaultListenAddr = "0.0.0.0:8000"

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string
	// Fetcher and Scraper tune the pipeline behind POST /scrape; zero
	// values take the package defaults.
	Fetcher fetcher.Config
	Scraper scraper.Config
	Logger  logging.Logger
}
