package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:54321", c.ServerEndpointURL)
	assert.Equal(t, "marksync.db", c.DatabaseDSN)
	assert.Equal(t, 6*time.Hour, c.MinAutoSyncInterval)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:54321", cfg.ServerEndpointURL)
	assert.Equal(t, 6*time.Hour, cfg.MinAutoSyncInterval)
}
