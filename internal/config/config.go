// Package config loads solarquiz settings from an optional config file, a
// .env file and SOLARQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Narration engines. EngineAuto picks the first installed command.
const (
	EngineAuto   = "auto"
	EngineEspeak = "espeak"
	EngineSay    = "say"
	EngineSilent = "silent"
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrUnknownEngine = errors.New("unknown narration engine")
	ErrMissingDSN    = errors.New("storage.postgres_url is required for the postgres driver")
)

// Config holds application configuration.
type Config struct {
	DB        string    `mapstructure:"db"` // SQLite path; empty means the default location
	Log       Log       `mapstructure:"log"`
	Storage   Storage   `mapstructure:"storage"`
	Narration Narration `mapstructure:"narration"`
	Quiz      Quiz      `mapstructure:"quiz"`
}

// Log configures the file logger.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // "-" logs to stderr
}

// Storage selects where high scores live.
type Storage struct {
	Driver      string `mapstructure:"driver"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// Narration configures speech and its pacing.
type Narration struct {
	Engine   string        `mapstructure:"engine"`
	Gap      time.Duration `mapstructure:"gap"`
	MinFloor time.Duration `mapstructure:"min_floor"`
	PerWord  time.Duration `mapstructure:"per_word"`
}

// Quiz configures question selection.
type Quiz struct {
	IncludeGenerated bool `mapstructure:"include_generated"`
}

// Load reads configuration. Missing config and .env files are not errors.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", defaultLogFile())
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.postgres_url", "")
	v.SetDefault("narration.engine", EngineAuto)
	v.SetDefault("narration.gap", "300ms")
	v.SetDefault("narration.min_floor", "1200ms")
	v.SetDefault("narration.per_word", "300ms")
	v.SetDefault("quiz.include_generated", true)

	v.SetEnvPrefix("solarquiz")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return ErrMissingDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}

	switch c.Narration.Engine {
	case EngineAuto, EngineEspeak, EngineSay, EngineSilent:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, c.Narration.Engine)
	}
	return nil
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "solarquiz")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "solarquiz")
}

func defaultLogFile() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "solarquiz", "solarquiz.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "-"
	}
	return filepath.Join(home, ".local", "state", "solarquiz", "solarquiz.log")
}
