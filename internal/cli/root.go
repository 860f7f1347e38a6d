package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"risk-engine/internal/config"
	"risk-engine/internal/errors"
	"risk-engine/internal/logging"
	"risk-engine/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.Store
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Store.Enabled {
		resultStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize result store, --save and history are unavailable")
		} else {
			app.Store = resultStore
			logger.Debug().Str("path", cfg.Store.Path).Msg("Result store initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "risk-engine",
		Short: "Derivatives risk calculation CLI",
		Long: `Risk Engine is a derivatives risk calculation CLI.

It computes counterparty credit exposure (SA-CCR), potential future
exposure profiles, initial margin (Grid and SIMM) and portfolio
value-at-risk, all from JSON request files.

Use 'risk-engine help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Store != nil {
				app.Store.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("format", "", "output format: json or table (default from config)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newSACCRCmd(app))
	rootCmd.AddCommand(newPFECmd(app))
	rootCmd.AddCommand(newMarginCmd(app))
	rootCmd.AddCommand(newVaRCmd(app))
	rootCmd.AddCommand(newTVMCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "risk-engine %s\n", Version)
		},
	}
}

// readRequest loads a JSON request from the given path, or from stdin
// when the path is "-".
func readRequest(cmd *cobra.Command, path string, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.NewValidationError("input", path, err.Error())
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.NewValidationError("input", path, "invalid JSON: "+err.Error())
	}
	return nil
}

// saveResult persists a calculation when --save was given and the store
// is available, and reports the stored ID.
func saveResult(cmd *cobra.Command, app *App, output *Output, kind string, request, result interface{}) {
	save, _ := cmd.Flags().GetBool("save")
	if !save {
		return
	}
	if app.Store == nil {
		output.Warning("Result store is disabled, nothing saved")
		return
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	id, err := app.Store.Save(ctx, kind, request, result)
	if err != nil {
		output.Warning("Failed to save result: %v", err)
		return
	}
	if !output.IsJSON() {
		output.Dim("Saved as %s", id)
	}
	app.Logger.Info().Str("kind", kind).Str("id", id).Msg("Result saved")
}

// runCalculation wraps a calculation with timing and structured logging.
func runCalculation(app *App, kind string, fn func() error) error {
	start := time.Now()
	err := fn()
	logging.LogCalculation(logging.WithCalculation(app.Logger, kind), kind, time.Since(start), err)
	return err
}
