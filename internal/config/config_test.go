package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4096, cfg.Payload.ChunkSize)
	assert.Equal(t, "utf-8", cfg.Payload.Encoding)
	assert.Equal(t, ":9090", cfg.Server.MetricsAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SENSOR_PAYLOAD_CHUNK_SIZE", "8192")
	t.Setenv("SENSOR_PAYLOAD_ENCODING", "ascii")
	t.Setenv("SENSOR_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8192, cfg.Payload.ChunkSize)
	assert.Equal(t, "ascii", cfg.Payload.Encoding)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero chunk size",
			mutate:  func(c *Config) { c.Payload.ChunkSize = 0 },
			wantErr: "chunk size",
		},
		{
			name:    "unknown encoding",
			mutate:  func(c *Config) { c.Payload.Encoding = "latin-1" },
			wantErr: "encoding",
		},
		{
			name:    "empty metrics address",
			mutate:  func(c *Config) { c.Server.MetricsAddr = "" },
			wantErr: "metrics address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
