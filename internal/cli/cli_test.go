package cli_test

import (
	"testing"

	"github.com/raysh454/kumo/internal/cli"
	"github.com/raysh454/kumo/internal/server"
)

func TestParseArgs_Defaults(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if args.Addr != server.DefaultListenAddr {
		t.Errorf("expected default addr %q, got %q", server.DefaultListenAddr, args.Addr)
	}
	if args.UserAgent != "" || args.TimeoutSeconds != 0 || args.MaxAttempts != 0 {
		t.Errorf("expected zero overrides, got %+v", args)
	}
}

func TestParseArgs_Overrides(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{
		"-addr", "127.0.0.1:9000",
		"-user-agent", "kumo-test/1.0",
		"-timeout", "10",
		"-max-attempts", "5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if args.Addr != "127.0.0.1:9000" {
		t.Errorf("unexpected addr %q", args.Addr)
	}
	if args.UserAgent != "kumo-test/1.0" {
		t.Errorf("unexpected user agent %q", args.UserAgent)
	}
	if args.TimeoutSeconds != 10 {
		t.Errorf("unexpected timeout %d", args.TimeoutSeconds)
	}
	if args.MaxAttempts != 5 {
		t.Errorf("unexpected max attempts %d", args.MaxAttempts)
	}
}

func TestParseArgs_Rejects(t *testing.T) {
	t.Parallel()
	cases := [][]string{
		{"-addr", ""},
		{"-addr", "   "},
		{"-timeout", "-1"},
		{"-max-attempts", "-2"},
		{"-no-such-flag"},
	}
	for _, args := range cases {
		if _, err := cli.ParseArgs(args); err == nil {
			t.Errorf("ParseArgs(%v): expected an error", args)
		}
	}
}
