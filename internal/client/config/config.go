package config

import "time"

// Config holds runtime settings for the marksync client.
type Config struct {
	// ServerEndpointURL is the base URL of the remote store REST API.
	ServerEndpointURL string

	// APIKey is the project API key sent with every request.
	APIKey string

	// DatabaseDSN locates the local SQLite store.
	DatabaseDSN string

	// MinAutoSyncInterval is the minimum spacing enforced between
	// automatic sync attempts.
	MinAutoSyncInterval time.Duration

	// RequestTimeout bounds every remote store request.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://127.0.0.1:54321"
	c.APIKey = ""
	c.DatabaseDSN = "marksync.db"
	c.MinAutoSyncInterval = 6 * time.Hour
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
