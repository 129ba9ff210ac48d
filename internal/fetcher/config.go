package fetcher

import (
	"maps"
	"time"
)

type Config struct {
	// DefaultTimeout bounds a whole fetch attempt (connect+read) when the
	// request does not bring its own timeout.
	DefaultTimeout time.Duration
	// DefaultHeaders are sent on every fetch; per-request headers are
	// merged over them, request key winning on collision.
	DefaultHeaders map[string]string
}

// browserHeaders makes the scraper look like an ordinary desktop browser.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

func DefaultConfig() Config {
	return Config{
		DefaultTimeout: 30 * time.Second,
		DefaultHeaders: maps.Clone(browserHeaders),
	}
}
