package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/ratefusion/internal/cli/config"
	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/internal/engine"
	"github.com/leapstack-labs/ratefusion/internal/rows"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't need the profile or history.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		ProfilePath:    os.Getenv(config.EnvPrefix + "PROFILE"),
		MasterDataPath: os.Getenv(config.EnvPrefix + "MASTER_DATA"),
		StatePath:      getEnvOrDefault(config.EnvPrefix+"STATE_PATH", config.DefaultStateFile),
		OutputDir:      getEnvOrDefault(config.EnvPrefix+"OUTPUT_DIR", config.DefaultOutputDir),
		OutputFormat:   os.Getenv(config.EnvPrefix + "OUTPUT"),
		Verbose:        os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure state directory exists
	stateDir := filepath.Dir(cfg.StatePath)
	if cfg.StatePath != ":memory:" && stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	engineCfg := engine.Config{
		ProfilePath:    cfg.ProfilePath,
		ProfileName:    cfg.ProfileName,
		MasterDataPath: cfg.MasterDataPath,
		StatePath:      cfg.StatePath,
		OutputDir:      cfg.OutputDir,
		Sequence:       cfg.Sequence,
		Project:        cfg.ProjectInfo(),
		Username:       cfg.OTM.Username,
		Password:       cfg.OTM.Password,
		FlattenParens:  cfg.FlattenParens,
		Location:       loc,
		Logger:         logger,
	}

	return engine.New(engineCfg)
}

// loadRows reads the dataset named on the command line.
func loadRows(path, sheet string) ([]core.Row, error) {
	data, err := rows.Load(path, rows.Options{Sheet: sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	return data, nil
}
