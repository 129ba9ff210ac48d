package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/raysh454/kumo/internal/server"
)

// CLIArgs are the command-line arguments for one server run. Zero values
// defer to the package defaults downstream.
type CLIArgs struct {
	// Addr is the HTTP listen address for the API server.
	Addr string

	// UserAgent overrides the browser-like User-Agent on outbound fetches.
	UserAgent string

	// TimeoutSeconds is the default per-fetch timeout; 0 means "use config default".
	TimeoutSeconds int

	// MaxAttempts is the scrape retry budget; 0 means "use config default".
	MaxAttempts int

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("kumo", flag.ContinueOnError)
	var (
		addr        = fs.String("addr", server.DefaultListenAddr, "HTTP listen address")
		userAgent   = fs.String("user-agent", "", "User-Agent for outbound fetches (empty=browser default)")
		timeout     = fs.Int("timeout", 0, "Default fetch timeout in seconds (0=use default)")
		maxAttempts = fs.Int("max-attempts", 0, "Total scrape attempts including the first (0=use default)")
	)

	// Errors come back to the caller; nothing is printed here
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*addr) == "" {
		return nil, fmt.Errorf("missing -addr argument")
	}
	if *timeout < 0 {
		return nil, fmt.Errorf("-timeout must not be negative")
	}
	if *maxAttempts < 0 {
		return nil, fmt.Errorf("-max-attempts must not be negative")
	}

	return &CLIArgs{
		Addr:           *addr,
		UserAgent:      *userAgent,
		TimeoutSeconds: *timeout,
		MaxAttempts:    *maxAttempts,
		RawArgs:        args,
	}, nil
}
