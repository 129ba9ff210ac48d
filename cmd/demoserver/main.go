// Command demoserver starts the Kumo demo site, a deterministic local scrape
// target.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/raysh454/kumo/internal/demoserver"
)

func main() {
	cfg := demoserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("===========================================")
	fmt.Println("   Kumo Demo Site - Scrape Playground")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Deterministic pages for exercising the scrape API:")
	fmt.Println("  /           article list (selector playground)")
	fmt.Println("  /articles   attribute-rich links (href, data-id, data-topic)")
	fmt.Println("  /empty      200 with a blank body")
	fmt.Println("  /missing    404 that still carries an HTML body")
	fmt.Println("  /redirect   302 back to /")
	fmt.Println("  /slow       delayed response (?delay= overrides, default 2s)")
	fmt.Println("  /flaky      drops the first connections, then recovers")
	fmt.Println()
	fmt.Println("POST /demo/reset re-arms /flaky for another run.")
	fmt.Println()

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
