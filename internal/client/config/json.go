package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dpetrovs/marksync/internal/flagx"
	"github.com/dpetrovs/marksync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "6h" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerEndpointURL   string         `json:"server_endpoint_url"`
	APIKey              string         `json:"api_key"`
	DatabaseDSN         string         `json:"database_dsn"`
	MinAutoSyncInterval timex.Duration `json:"min_auto_sync_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path is resolved from the -c or -config flags via
// flagx.JsonConfigFlags(); if empty, no JSON is loaded. Read or unmarshal
// errors panic (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	if jc.ServerEndpointURL != "" {
		cfg.ServerEndpointURL = jc.ServerEndpointURL
	}
	if jc.APIKey != "" {
		cfg.APIKey = jc.APIKey
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.MinAutoSyncInterval.Duration != 0 {
		cfg.MinAutoSyncInterval = time.Duration(jc.MinAutoSyncInterval.Duration)
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
