package config

import (
	"flag"
	"os"
	"time"

	"github.com/franciskouaho/love-dice-sub000/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   base URL of the remote document store (default from Config)
//	-d string   SQLite DSN of the local cache
//	-t int      remote request timeout in seconds
//	-l int      fallback daily free limit
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteBaseURL, "u", cfg.RemoteBaseURL, "base URL of the remote document store")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "SQLite DSN of the local cache")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")
	fs.IntVar(&cfg.DailyFreeLimit, "l", cfg.DailyFreeLimit, "fallback daily free limit")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
