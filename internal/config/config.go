package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents the complete application configuration.
// Values are read from SENSOR_-prefixed environment variables.
type Config struct {
	Logging LoggingConfig `envconfig:"LOGGING"`
	Payload PayloadConfig `envconfig:"PAYLOAD"`
	Server  ServerConfig  `envconfig:"SERVER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// PayloadConfig controls how request payloads are read and validated
type PayloadConfig struct {
	// ChunkSize is the read size used when draining a stream to EOF.
	ChunkSize int `envconfig:"CHUNK_SIZE" default:"4096"`
	// Encoding is the expected text encoding of payloads: "utf-8" or "ascii".
	Encoding string `envconfig:"ENCODING" default:"utf-8"`
}

// ServerConfig contains the dataset server configuration
type ServerConfig struct {
	// ResultPath is where the server writes the processed CSV it
	// receives back from an analyzer.
	ResultPath string `envconfig:"RESULT_PATH" default:"resultado.csv"`
	// MetricsAddr is the listen address of the operational HTTP surface.
	MetricsAddr     string        `envconfig:"METRICS_ADDR" default:":9090"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load loads configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SENSOR", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Payload.ChunkSize <= 0 {
		return fmt.Errorf("payload chunk size must be positive, got %d", c.Payload.ChunkSize)
	}

	switch c.Payload.Encoding {
	case "utf-8", "ascii":
	default:
		return fmt.Errorf("unsupported payload encoding %q (expected utf-8 or ascii)", c.Payload.Encoding)
	}

	if c.Server.MetricsAddr == "" {
		return fmt.Errorf("metrics address must not be empty")
	}

	return nil
}
