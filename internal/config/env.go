package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays cfg with LOVEDICE_* environment variables. Unparsable
// numeric values are ignored rather than fatal; env is the overlay most
// likely to carry stale values from a shell profile.
func parseEnv(cfg *Config) {
	if v := os.Getenv("LOVEDICE_REMOTE_URL"); v != "" {
		cfg.RemoteBaseURL = v
	}
	if v := os.Getenv("LOVEDICE_API_KEY"); v != "" {
		cfg.RemoteAPIKey = v
	}
	if v := os.Getenv("LOVEDICE_CACHE_DSN"); v != "" {
		cfg.CacheDSN = v
	}
	if v := os.Getenv("LOVEDICE_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("LOVEDICE_DAILY_FREE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DailyFreeLimit = n
		}
	}
	if v := os.Getenv("LOVEDICE_RECONCILE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReconcileInterval = d
		}
	}
}
