// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) returning a Config with defaults.
// - Layered loading lives in Load: defaults, optional YAML file, env vars.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PortalBaseURL points at the university results portal.
	PortalBaseURL string `koanf:"portal_base_url"`

	// PortalTimeoutMS bounds a single portal report fetch.
	PortalTimeoutMS int `koanf:"portal_timeout_ms"`

	// FetchDelayMS paces consecutive portal requests.
	FetchDelayMS int `koanf:"fetch_delay_ms"`

	// MaxConsecutiveMisses ends a batch walk after this many unpublished
	// rolls in a row.
	MaxConsecutiveMisses int `koanf:"max_consecutive_misses"`

	// MaxRoll caps how far a batch walk probes.
	MaxRoll int `koanf:"max_roll"`

	// QueueSize bounds the in-memory analysis job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxKeptAnalyses bounds how many analyses the store retains.
	MaxKeptAnalyses int `koanf:"max_kept_analyses"`

	// HighlightedUSNs lists identifiers the UI styles distinctly.
	HighlightedUSNs []string `koanf:"highlighted_usns"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9090",
		PortalBaseURL:        "http://14.99.184.178:8080/birt/run",
		PortalTimeoutMS:      15_000,
		FetchDelayMS:         1_000,
		MaxConsecutiveMisses: 20,
		MaxRoll:              500,
		QueueSize:            64,
		WorkerCount:          2,
		MaxKeptAnalyses:      50,
		HighlightedUSNs:      nil,
	}
}
