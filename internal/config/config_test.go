package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/learnpath/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "learnpath", filepath.Base(cfg.BaseDir))
	assert.Equal(t, 10, cfg.Recommend.MaxResults)
	assert.Equal(t, 4, cfg.Recommend.Workers)
	assert.Equal(t, 5, cfg.Auth.AttemptsPerMinute)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	base := t.TempDir()
	t.Setenv("LEARNPATH_CONFIG", "")
	t.Setenv("LEARNPATH_BASE_DIR", base)
	t.Setenv("LEARNPATH_RECOMMEND_MAX_RESULTS", "3")
	t.Setenv("LEARNPATH_LOG_LEVEL", "debug")
	t.Setenv("LEARNPATH_TELEMETRY_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, base, cfg.BaseDir)
	assert.Equal(t, 3, cfg.Recommend.MaxResults)
	assert.Equal(t, 4, cfg.Recommend.Workers, "untouched keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Telemetry.Enabled)

	paths := GetPaths(cfg)
	for _, dir := range []string{paths.Learners, paths.Ratings, paths.Logs} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_dir: `+base+`
courses_csv: /srv/courses.csv
recommend:
  workers: 8
  max_results: 20
auth:
  attempts_per_minute: 2
`), 0644))

	t.Setenv("LEARNPATH_CONFIG", path)
	t.Setenv("LEARNPATH_RECOMMEND_MAX_RESULTS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, base, cfg.BaseDir)
	assert.Equal(t, 8, cfg.Recommend.Workers)
	assert.Equal(t, 7, cfg.Recommend.MaxResults, "env beats file")
	assert.Equal(t, 2, cfg.Auth.AttemptsPerMinute)
	assert.Equal(t, "/srv/courses.csv", GetPaths(cfg).CoursesCSV)
}

func TestLoad_FindsFileInBaseDir(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "config.yaml"), []byte("log:\n  format: json\n"), 0644))
	t.Setenv("LEARNPATH_CONFIG", "")
	t.Setenv("LEARNPATH_BASE_DIR", base)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("LEARNPATH_CONFIG", "")
	t.Setenv("LEARNPATH_BASE_DIR", t.TempDir())
	t.Setenv("LEARNPATH_LOG_LEVEL", "chatty")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "auth.attempts_per_minute", envTransformFunc("LEARNPATH_AUTH_ATTEMPTS_PER_MINUTE"))
	assert.Equal(t, "base_dir", envTransformFunc("LEARNPATH_BASE_DIR"))
	assert.Empty(t, envTransformFunc("LEARNPATH_CONFIG"))
	assert.Empty(t, envTransformFunc("LEARNPATH_SOMETHING_ELSE"))
}

func TestGetPaths(t *testing.T) {
	cfg := &Config{BaseDir: "/data/lp"}
	paths := GetPaths(cfg)

	assert.Equal(t, "/data/lp/learners", paths.Learners)
	assert.Equal(t, "/data/lp/ratings", paths.Ratings)
	assert.Equal(t, "/data/lp/courses.csv", paths.CoursesCSV)
	assert.Equal(t, "/data/lp/learnpath.db", paths.Database)
	assert.Equal(t, "/data/lp/logs", paths.Logs)
	assert.Equal(t, "/data/lp/config.yaml", paths.Config)
}
