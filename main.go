package main

import (
	"log"

	"github.com/joho/godotenv"

	"receiptscan/cmd"
	"receiptscan/internal/config"
	"receiptscan/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Initialize the logger; fall back to defaults when configuration is
	// incomplete so subcommands can still print their own errors.
	cfg, err := config.Load()
	if err != nil {
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	mainLogger := logger.WithComponent("main")
	mainLogger.Info().Msg("Starting receiptscan")

	cmd.Execute()
}
