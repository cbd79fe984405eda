// Package config loads runtime configuration for the BhojanBox CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "retry_attempts": 2,
//	  "retry_base_delay": "200ms",
//	  "breaker_failure_threshold": 5,
//	  "breaker_open_timeout": "30s",
//	  "db_path": "bhojanbox.db",
//	  "log_level": "warn",
//	  "online_check_interval": "10s"
//	}
package config
