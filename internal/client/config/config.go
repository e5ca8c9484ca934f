package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the GoBarber client.
//
// Fields:
//   - APIBaseURL: base URL of the GoBarber REST API.
//   - StoragePath: SQLite file holding the persisted session.
//   - RequestTimeout: upper bound for one API request.
//   - LogLevel: debug, info, warn or error.
//   - OTelEndpoint: OTLP/HTTP collector URL; empty disables tracing.
type Config struct {
	APIBaseURL     string        `env:"GOBARBER_API_URL"`
	StoragePath    string        `env:"GOBARBER_STORAGE_PATH"`
	RequestTimeout time.Duration `env:"GOBARBER_REQUEST_TIMEOUT"`
	LogLevel       string        `env:"GOBARBER_LOG_LEVEL"`
	OTelEndpoint   string        `env:"GOBARBER_OTEL_ENDPOINT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3333"
	c.StoragePath = defaultStoragePath()
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.OTelEndpoint = ""
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gobarber.db"
	}
	return filepath.Join(dir, "gobarber", "gobarber.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		panic(err)
	}
	parseFlags(cfg)
	return cfg
}
