// Package config handles application configuration management.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then LEARNPATH_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/asteroid-belt/learnpath/internal/validation"
)

const (
	// EnvPrefix prefixes every configuration environment variable.
	EnvPrefix = "LEARNPATH_"
	// ConfigPathEnvVar names an explicit config file.
	ConfigPathEnvVar = "LEARNPATH_CONFIG"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all learnpath data (learners, ratings, database, logs)
	BaseDir string `koanf:"base_dir" validate:"required"`

	// Course catalog CSV. Empty means <base_dir>/courses.csv.
	CoursesCSV string `koanf:"courses_csv"`

	Log       LogConfig       `koanf:"log"`
	Recommend RecommendConfig `koanf:"recommend"`
	Auth      AuthConfig      `koanf:"auth"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// RecommendConfig controls the ranking engine.
type RecommendConfig struct {
	MaxResults int `koanf:"max_results" validate:"min=1,max=100"`
	Workers    int `koanf:"workers" validate:"min=1,max=64"`
}

// AuthConfig controls login throttling.
type AuthConfig struct {
	AttemptsPerMinute int `koanf:"attempts_per_minute" validate:"min=1"`
}

// TelemetryConfig controls anonymous usage events.
type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load reads configuration from defaults, the config file and environment
// variables, validates it and creates the data directories.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	baseDir := k.String("base_dir")
	if v := os.Getenv(EnvPrefix + "BASE_DIR"); v != "" {
		baseDir = v
	}
	if path := findConfigFile(baseDir); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// findConfigFile returns $LEARNPATH_CONFIG if set, else <baseDir>/config.yaml
// if it exists, else "".
func findConfigFile(baseDir string) string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	path := filepath.Join(baseDir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// envKeys maps environment suffixes to koanf paths. Keys contain underscores,
// so the mapping is explicit rather than a blanket "_" to "." replace.
var envKeys = map[string]string{
	"base_dir":                 "base_dir",
	"courses_csv":              "courses_csv",
	"log_level":                "log.level",
	"log_format":               "log.format",
	"recommend_max_results":    "recommend.max_results",
	"recommend_workers":        "recommend.workers",
	"auth_attempts_per_minute": "auth.attempts_per_minute",
	"telemetry_enabled":        "telemetry.enabled",
}

// envTransformFunc turns LEARNPATH_LOG_LEVEL into log.level. Unknown
// variables, including LEARNPATH_CONFIG, map to "" and are ignored.
func envTransformFunc(key string) string {
	return envKeys[strings.ToLower(strings.TrimPrefix(key, EnvPrefix))]
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	paths := GetPaths(cfg)
	for _, dir := range []string{cfg.BaseDir, paths.Learners, paths.Ratings, paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
