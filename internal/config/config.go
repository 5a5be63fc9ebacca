package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"receiptscan/internal/logger"
)

type Config struct {
	// Google Document AI Configuration
	GoogleCloudProject  string
	GoogleCloudLocation string
	ReceiptProcessorID  string
	FormProcessorID     string
	ProcessTimeout      time.Duration

	// Azure Blob Storage for normalized images
	StorageConnectionString string
	StorageContainer        string

	// Tax registry lookup endpoints
	CNPJEndpoint string
	CNAEEndpoint string

	// HTTP Server Configuration
	ServerAddress string
	ServerPort    int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	timeoutSecs, err := strconv.Atoi(getEnv("PROCESS_TIMEOUT_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROCESS_TIMEOUT_SECONDS: %w", err)
	}
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	config := &Config{
		GoogleCloudProject:  getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		ReceiptProcessorID:  getEnv("RECEIPT_PROCESSOR_ID", ""),
		FormProcessorID:     getEnv("FORM_PROCESSOR_ID", ""),
		ProcessTimeout:      time.Duration(timeoutSecs) * time.Second,

		StorageConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),
		StorageContainer:        getEnv("STORAGE_CONTAINER", "imagens"),

		CNPJEndpoint: getEnv("API_ENDPOINT_CNPJ", "https://publica.cnpj.ws/cnpj/"),
		CNAEEndpoint: getEnv("API_ENDPOINT_CNAE", "https://servicodados.ibge.gov.br/api/v2/cnae/divisoes/"),

		ServerAddress: getEnv("SERVER_ADDRESS", "0.0.0.0"),
		ServerPort:    port,

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.GoogleCloudProject == "" {
		return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if c.ReceiptProcessorID == "" {
		return fmt.Errorf("RECEIPT_PROCESSOR_ID is required")
	}
	if c.CNPJEndpoint == "" {
		return fmt.Errorf("API_ENDPOINT_CNPJ is required")
	}
	if c.CNAEEndpoint == "" {
		return fmt.Errorf("API_ENDPOINT_CNAE is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
