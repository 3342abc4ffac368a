package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Recommend: RecommendConfig{
			MaxResults: 10,
			Workers:    4,
		},
		Auth: AuthConfig{
			AttemptsPerMinute: 5,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
	}
}

// DefaultBaseDir returns $XDG_DATA_HOME/learnpath.
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "learnpath")
}
