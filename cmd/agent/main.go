package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"polymarket-agent/internal/cli"
	"polymarket-agent/internal/config"
	"polymarket-agent/internal/logging"
)

func main() {
	// Best effort; credentials may also come from the environment or
	// the credentials file.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
