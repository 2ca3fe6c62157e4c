package config

import (
	"flag"
	"os"
	"time"

	"github.com/dpetrovs/marksync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the remote store REST API (default from Config)
//	-k string   project API key (default from Config)
//	-d string   local SQLite database DSN (default from Config)
//	-i int      minimum automatic sync interval in seconds (default from Config)
//	-t int      remote request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-d", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointURL, "a", cfg.ServerEndpointURL, "base URL of the remote store REST API")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "project API key")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "local SQLite database DSN")
	minAutoSyncInterval := fs.Int("i", int(cfg.MinAutoSyncInterval.Seconds()), "minimum automatic sync interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.MinAutoSyncInterval = time.Duration(*minAutoSyncInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
