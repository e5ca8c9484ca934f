package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gobarber/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     API base URL
//	-s string     path of the session database
//	-t duration   request timeout, e.g. 5s
//	-l string     log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components (-c) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "GoBarber API base URL")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "session database path")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "API request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
