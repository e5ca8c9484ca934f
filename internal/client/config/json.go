package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gobarber/internal/flagx"
	"github.com/dmitrijs2005/gobarber/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so they can be written as "5s" or as nanoseconds.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	StoragePath    string         `json:"storage_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
	OTelEndpoint   string         `json:"otel_endpoint"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Keys
// missing from the file leave the current values alone. Read or decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.StoragePath != "" {
		cfg.StoragePath = jc.StoragePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.OTelEndpoint != "" {
		cfg.OTelEndpoint = jc.OTelEndpoint
	}
}
