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

	assert.Equal(t, "divelog-dev", c.FirestoreProjectID)
	assert.Equal(t, "divelog-cache.db", c.CacheDSN)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "divelog-dev", cfg.FirestoreProjectID)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
