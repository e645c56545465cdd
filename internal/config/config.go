package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrUnknownLogLevel = errors.New("unknown log level")

type Config struct {
	LogLevel        string        `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	HTTPAddr        string        `yaml:"http-addr" env:"TICTACTOE_HTTP_ADDR" env-default:":8080"`
	Heartbeat       time.Duration `yaml:"heartbeat" env:"TICTACTOE_HEARTBEAT" env-default:"15s"`
	MaxGames        int           `yaml:"max-games" env:"TICTACTOE_MAX_GAMES" env-default:"1000"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"TICTACTOE_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load reads the YAML file at path, then applies environment overrides.
// A missing file is not an error when path is empty or does not exist:
// defaults and environment are used instead.
func Load(path string) (*Config, error) {
	conf := &Config{}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err = cleanenv.ReadConfig(path, conf); err != nil {
				return nil, fmt.Errorf("unable to load config file: %w", err)
			}
			return conf, conf.validate()
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("unable to stat config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("unable to read config from env: %w", err)
	}
	return conf, conf.validate()
}

// MustLoad - like Load but panics on error.
func MustLoad(path string) *Config {
	conf, err := Load(path)
	if err != nil {
		panic(err)
	}
	return conf
}

func (that *Config) validate() error {
	if _, err := ParseLevel(that.LogLevel); err != nil {
		return err
	}
	if that.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be positive, got %s", that.Heartbeat)
	}
	if that.MaxGames < 0 {
		return fmt.Errorf("max-games must not be negative, got %d", that.MaxGames)
	}
	return nil
}

// ParseLevel maps a config log level to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
	}
}

// NewLogger builds the JSON logger used by every component.
func NewLogger(conf *Config) *slog.Logger {
	level, _ := ParseLevel(conf.LogLevel)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
