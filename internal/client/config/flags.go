package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   base URL of the countries API
//	-t int      request timeout in seconds
//	-d string   store driver (sqlite, bolt, memory)
//	-p string   store file path
//	-l string   log level
//
// Only these flags are taken from os.Args; see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-t", "-d", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "base URL of the countries API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StoreDriver, "d", cfg.StoreDriver, "store driver: sqlite, bolt or memory")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "store file path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
