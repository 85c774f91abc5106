package config

import "time"

// Config holds runtime settings for the divelog CLI.
//
// RequestTimeout bounds one-shot remote calls (create, update, delete,
// refresh); subscriptions are not subject to it.
type Config struct {
	FirestoreProjectID string
	CacheDSN           string
	RequestTimeout     time.Duration
	SessionSecret      string
	S3Region           string
	S3Bucket           string
	S3BaseEndpoint     string
	S3AccessKey        string
	S3SecretKey        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.FirestoreProjectID = "divelog-dev"
	c.CacheDSN = "divelog-cache.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
