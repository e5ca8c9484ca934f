// Package config loads runtime configuration for the GoBarber client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. GOBARBER_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     API base URL
//	-s string     session database path
//	-t duration   request timeout
//	-l string     log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:3333",
//	  "storage_path": "/home/me/.config/gobarber/gobarber.db",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "otel_endpoint": "http://localhost:4318"
//	}
//
// # Environment
//
//	GOBARBER_API_URL, GOBARBER_STORAGE_PATH, GOBARBER_REQUEST_TIMEOUT,
//	GOBARBER_LOG_LEVEL, GOBARBER_OTEL_ENDPOINT
package config
