package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"risk-engine/internal/cli"
	"risk-engine/internal/config"
	"risk-engine/internal/errors"
	"risk-engine/internal/logging"
)

// Exit codes: bad input is the caller's fault, a failed calculation is
// ours.
const (
	exitComputation = 1
	exitValidation  = 2
)

func main() {
	configDir := os.Getenv("RISK_ENGINE_CONFIG_DIR")

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitValidation)
	}

	logger := logging.NewLogger(cfg.Logging)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var validationErr *errors.ValidationError
		if stderrors.As(err, &validationErr) {
			os.Exit(exitValidation)
		}
		os.Exit(exitComputation)
	}
}
