package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bhojanbox/internal/flagx"
	"github.com/dmitrijs2005/bhojanbox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// are timex.Duration so they may be written as "3s" or as nanoseconds.
// Absent fields keep their current value.
type JsonConfig struct {
	ServerURL               *string         `json:"server_url"`
	RequestTimeout          *timex.Duration `json:"request_timeout"`
	RetryAttempts           *int            `json:"retry_attempts"`
	RetryBaseDelay          *timex.Duration `json:"retry_base_delay"`
	BreakerFailureThreshold *int            `json:"breaker_failure_threshold"`
	BreakerOpenTimeout      *timex.Duration `json:"breaker_open_timeout"`
	DBPath                  *string         `json:"db_path"`
	LogLevel                *string         `json:"log_level"`
	OnlineCheckInterval     *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays cfg with the JSON file named by -c or -config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
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

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.RetryBaseDelay != nil {
		cfg.RetryBaseDelay = jc.RetryBaseDelay.Duration
	}
	if jc.BreakerFailureThreshold != nil {
		cfg.BreakerFailureThreshold = *jc.BreakerFailureThreshold
	}
	if jc.BreakerOpenTimeout != nil {
		cfg.BreakerOpenTimeout = jc.BreakerOpenTimeout.Duration
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
