package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     backend base URL
//	-t duration   per-request timeout
//	-r int        retries for idempotent reads
//	-d string     local SQLite database path
//	-l string     log level (debug, info, warn, error)
//	-i int        online check interval (in seconds)
//
// Only the flags above are taken from os.Args, via flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-r", "-d", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.IntVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "retries for idempotent reads")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
