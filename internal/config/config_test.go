package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, &Config{
		LogLevel:        "info",
		HTTPAddr:        ":8080",
		Heartbeat:       15 * time.Second,
		MaxGames:        1000,
		ShutdownTimeout: 5 * time.Second,
	}, conf)
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("TICTACTOE_HTTP_ADDR", "127.0.0.1:9999")

	conf, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", conf.HTTPAddr)
}

func TestLoadFile(t *testing.T) {
	// Given: a config file with some values set
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "log-level: debug\nhttp-addr: \":9090\"\nheartbeat: 3s\nmax-games: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	// When: loading it with an env override
	t.Setenv("TICTACTOE_MAX_GAMES", "20")
	conf, err := Load(path)

	// Then: file values, env override and defaults are all applied
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel)
	assert.Equal(t, ":9090", conf.HTTPAddr)
	assert.Equal(t, 3*time.Second, conf.Heartbeat)
	assert.Equal(t, 20, conf.MaxGames)
	assert.Equal(t, 5*time.Second, conf.ShutdownTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("log level", func(t *testing.T) {
		t.Setenv("TICTACTOE_LOG_LEVEL", "loud")
		_, err := Load("")
		require.ErrorIs(t, err, ErrUnknownLogLevel)
	})
	t.Run("heartbeat", func(t *testing.T) {
		t.Setenv("TICTACTOE_HEARTBEAT", "0s")
		_, err := Load("")
		require.Error(t, err)
	})
	t.Run("max games", func(t *testing.T) {
		t.Setenv("TICTACTOE_MAX_GAMES", "-1")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("TICTACTOE_LOG_LEVEL", "loud")
	assert.Panics(t, func() { MustLoad("") })
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
