// Package config assembles runtime settings for the sync subsystem from
// defaults, an optional JSON file, environment variables and command-line
// flags, in that order; later sources take precedence.
package config

import "time"

// Config holds runtime settings for the subsystem.
//
// Fields:
//   - RemoteBaseURL / RemoteAPIKey: the document-store REST endpoint.
//   - CacheDSN: SQLite DSN of the durable local cache.
//   - RequestTimeout: bound on every remote fetch; a timeout is treated like
//     any other remote failure.
//   - DailyFreeLimit: fallback daily quota used when the remote feature
//     configuration is unreachable.
//   - ReconcileInterval: how often the quota engine re-runs its remote
//     reconciliation while the app is active.
type Config struct {
	RemoteBaseURL     string
	RemoteAPIKey      string
	CacheDSN          string
	RequestTimeout    time.Duration
	DailyFreeLimit    int
	ReconcileInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteBaseURL = "http://127.0.0.1:8090/v1"
	c.CacheDSN = "lovedice.db"
	c.RequestTimeout = 10 * time.Second
	c.DailyFreeLimit = 3
	c.ReconcileInterval = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
