package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/gigbook/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "concerts.db", cfg.DatabasePath)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.False(t, cfg.Seed)
	assert.False(t, cfg.Reset)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GIGBOOK_DATABASE_PATH", "/tmp/gigs.db")
	t.Setenv("GIGBOOK_LOG_LEVEL", "debug")
	t.Setenv("GIGBOOK_SEED", "true")
	t.Setenv("GIGBOOK_RESET", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/gigs.db", cfg.DatabasePath)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.True(t, cfg.Seed)
	assert.True(t, cfg.Reset)
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("GIGBOOK_SEED", "maybe")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLevel_UnknownFallsBackToInfo(t *testing.T) {
	cfg := config.Config{LogLevel: "chatty"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
