package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("RECEIPT_PROCESSOR_ID", "proc-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-project", cfg.GoogleCloudProject)
	assert.Equal(t, "us", cfg.GoogleCloudLocation)
	assert.Equal(t, "imagens", cfg.StorageContainer)
	assert.Equal(t, "https://publica.cnpj.ws/cnpj/", cfg.CNPJEndpoint)
	assert.Equal(t, 60*time.Second, cfg.ProcessTimeout)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("RECEIPT_PROCESSOR_ID", "proc-123")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "eu")
	t.Setenv("PROCESS_TIMEOUT_SECONDS", "90")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("API_ENDPOINT_CNPJ", "http://localhost:9999/cnpj/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "eu", cfg.GoogleCloudLocation)
	assert.Equal(t, 90*time.Second, cfg.ProcessTimeout)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "http://localhost:9999/cnpj/", cfg.CNPJEndpoint)
}

func TestLoadMissingProject(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("RECEIPT_PROCESSOR_ID", "proc-123")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLOUD_PROJECT")
}

func TestLoadMissingProcessor(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("RECEIPT_PROCESSOR_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECEIPT_PROCESSOR_ID")
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("RECEIPT_PROCESSOR_ID", "proc-123")
	t.Setenv("PROCESS_TIMEOUT_SECONDS", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROCESS_TIMEOUT_SECONDS")
}

func TestGetLoggerConfig(t *testing.T) {
	cfg := &Config{
		LogLevel:      "debug",
		LogFormat:     "json",
		LogTimeFormat: time.RFC3339,
		LogOutput:     "stderr",
	}

	logCfg := cfg.GetLoggerConfig()
	assert.Equal(t, "debug", logCfg.Level)
	assert.Equal(t, "json", logCfg.Format)
	assert.Equal(t, "stderr", logCfg.Output)
}
