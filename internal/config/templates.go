package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Risk Engine Configuration

[engine]
# Seed for the historical and Monte Carlo simulations. Fixed so repeated
# runs reproduce identical figures; change it to resample.
seed = 42
# Simulation count used when a Monte Carlo request leaves it unset.
# Must be at least 1000.
default_simulations = 10000

[output]
# Output format: "json" or "table"
format = "table"
# Indent JSON output
pretty = true

[store]
# Persist calculation results to a local SQLite database
enabled = true
# Database path (defaults to the config directory)
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the console
console = true
# Log to a rotating file
file = true
# Log file path (defaults to the config directory)
file_path = ""
# Rotation: max file size in MB, backups to keep, max age in days
max_size = 100
max_backups = 7
max_age = 30
`

// createTemplateConfig writes a commented config template so a first run
// leaves an editable file behind.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
