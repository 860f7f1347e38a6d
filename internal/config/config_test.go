package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "risk-engine/internal/errors"
)

func TestLoadCreatesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	// A first run leaves an editable template behind.
	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr)

	assert.Equal(t, int64(42), cfg.Engine.Seed)
	assert.Equal(t, 10000, cfg.Engine.DefaultSimulations)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, filepath.Join(dir, "results.db"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(dir, "logs", "risk-engine.log"), cfg.Logging.FilePath)
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[engine]
seed = 7
default_simulations = 2000

[output]
format = "json"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Engine.Seed)
	assert.Equal(t, 2000, cfg.Engine.DefaultSimulations)
	assert.Equal(t, "json", cfg.Output.Format)
	// Unset sections keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RISK_ENGINE_SEED", "99")
	t.Setenv("RISK_ENGINE_OUTPUT_FORMAT", "json")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Engine.Seed)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Output.Format = "xml"
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)

	cfg = Default()
	cfg.Engine.DefaultSimulations = 10
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)

	cfg = Default()
	cfg.Logging.Level = "verbose"
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfigInvalid)
}
