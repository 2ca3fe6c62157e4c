// Package config loads runtime configuration for the marksync CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote store REST API
//	-k string   project API key
//	-d string   local SQLite database DSN
//	-i int      minimum automatic sync interval (seconds)
//	-t int      remote request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "6h" or integer nanoseconds:
//
//	{
//	  "server_endpoint_url": "https://project.example.co",
//	  "api_key": "anon-key",
//	  "database_dsn": "marksync.db",
//	  "min_auto_sync_interval": "6h",
//	  "request_timeout": "15s"
//	}
//
// Primary API
//
//   - type Config                     — holds endpoint, key, DSN and intervals
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
