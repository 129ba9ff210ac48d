// Command kumo starts the scrape API server.
// Usage: go run ./cmd/kumo [-addr host:port] [-user-agent ua] [-timeout seconds] [-max-attempts n]
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raysh454/kumo/internal/cli"
	"github.com/raysh454/kumo/internal/fetcher"
	"github.com/raysh454/kumo/internal/scraper"
	"github.com/raysh454/kumo/internal/server"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	fetchCfg := fetcher.DefaultConfig()
	if args.UserAgent != "" {
		fetchCfg.DefaultHeaders["User-Agent"] = args.UserAgent
	}
	if args.TimeoutSeconds > 0 {
		fetchCfg.DefaultTimeout = time.Duration(args.TimeoutSeconds) * time.Second
	}

	scrapeCfg := scraper.DefaultConfig()
	if args.MaxAttempts > 0 {
		scrapeCfg.Retry.MaxAttempts = args.MaxAttempts
	}

	srv, err := server.NewServer(server.Config{
		ListenAddr: args.Addr,
		Fetcher:    fetchCfg,
		Scraper:    scrapeCfg,
	})
	if err != nil {
		log.Fatalf("Server setup error: %v", err)
	}
	defer srv.Close()

	httpServer := srv.HTTPServer()

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Kumo API listening on http://%s\n", args.Addr)
		fmt.Printf("Swagger UI at http://%s/swagger/index.html\n", args.Addr)
		errChan <- httpServer.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}
}
