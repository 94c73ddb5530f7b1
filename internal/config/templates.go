package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# NSE Bhav Copy Toolkit Configuration

[download]
# Directory where bhav_*.csv artifacts are written
output_dir = "%s"
# HTTP request timeout for archive downloads
request_timeout = "30s"

[database]
# SQLite database path for the durable store
path = "%s"

[api]
# Listen address for the read API
addr = "localhost:8000"

[watch]
# Cron schedule for the daily today-mode download.
# Default: 18:30 IST on weekdays, after EOD data is published.
schedule = "30 18 * * 1-5"
# Optional series filter for scheduled downloads, e.g. "EQ"
series = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Also write logs to a rotating file under the config directory
file = true
`

// createTemplateConfig writes a commented template config file so the user
// has something to edit on first run. Paths are written absolute so the
// template reads back identical to the first-run defaults.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := fmt.Sprintf(configTemplate,
		DefaultDataDir(), filepath.Join(DefaultConfigDir(), "bhav.db"))
	return os.WriteFile(path, []byte(content), 0644)
}
