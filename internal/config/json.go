package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/franciskouaho/love-dice-sub000/internal/flagx"
	"github.com/franciskouaho/love-dice-sub000/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "10s" or
// as integer nanoseconds. After parsing, values are copied into the runtime
// Config (which uses time.Duration).
type JsonConfig struct {
	RemoteBaseURL     string         `json:"remote_base_url"`
	RemoteAPIKey      string         `json:"remote_api_key"`
	CacheDSN          string         `json:"cache_dsn"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	DailyFreeLimit    *int           `json:"daily_free_limit"`
	ReconcileInterval timex.Duration `json:"reconcile_interval"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. Missing flag means no JSON is loaded. Read or unmarshal
// errors panic; config loading happens before anything is running.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteBaseURL != "" {
		cfg.RemoteBaseURL = jc.RemoteBaseURL
	}
	if jc.RemoteAPIKey != "" {
		cfg.RemoteAPIKey = jc.RemoteAPIKey
	}
	if jc.CacheDSN != "" {
		cfg.CacheDSN = jc.CacheDSN
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DailyFreeLimit != nil {
		cfg.DailyFreeLimit = *jc.DailyFreeLimit
	}
	if jc.ReconcileInterval.Duration != 0 {
		cfg.ReconcileInterval = time.Duration(jc.ReconcileInterval.Duration)
	}
}
