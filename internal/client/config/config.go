package config

import "time"

// Config holds runtime settings for the BhojanBox CLI.
type Config struct {
	ServerURL               string
	RequestTimeout          time.Duration
	RetryAttempts           int
	RetryBaseDelay          time.Duration
	BreakerFailureThreshold int
	BreakerOpenTimeout      time.Duration
	DBPath                  string
	LogLevel                string
	OnlineCheckInterval     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.RetryAttempts = 2
	c.RetryBaseDelay = 200 * time.Millisecond
	c.BreakerFailureThreshold = 5
	c.BreakerOpenTimeout = 30 * time.Second
	c.DBPath = "bhojanbox.db"
	c.LogLevel = "warn"
	c.OnlineCheckInterval = 10 * time.Second
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
