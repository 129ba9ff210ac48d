package demoserver

// Config holds configuration for the demo site.
type Config struct {
	// Port is the port on which the demo site listens.
	Port int

	// FlakyFailures is how many requests /flaky drops before recovering.
	FlakyFailures int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:          9999,
		FlakyFailures: 2,
	}
}
