package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	l, err := New(dir, Config{Level: "debug", Format: "json", Console: &console})
	require.NoError(t, err)

	l.Printf("enrolled %s in %s\n", "ada", "C1")
	zl := l.Zerolog()
	zl.Warn().Str("field", "progress").Msg("skipping unparseable field")
	require.NoError(t, l.Close())

	assert.Equal(t, "enrolled ada in C1\n", console.String())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"enrolled ada in C1"`)
	assert.Contains(t, string(data), `"field":"progress"`)
}

func TestLogger_LevelFilters(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, Config{Level: "error", Format: "json", Console: &bytes.Buffer{}})
	require.NoError(t, err)

	zl := l.Zerolog()
	zl.Info().Msg("hidden")
	zl.Error().Msg("shown")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestGlobal_NopBeforeInit(t *testing.T) {
	require.NoError(t, Close())
	assert.Equal(t, zerolog.Disabled, L().GetLevel())

	dir := t.TempDir()
	require.NoError(t, Init(dir, Config{Console: &bytes.Buffer{}}))
	t.Cleanup(func() { _ = Close() })

	assert.Equal(t, zerolog.InfoLevel, L().GetLevel())
	lg := Component("store")
	lg.Info().Msg("hello")
}
