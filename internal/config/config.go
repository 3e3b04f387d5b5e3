package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds CLI configuration.
type Config struct {
	Definition DefinitionConfig `mapstructure:"definition"`
	Store      StoreConfig      `mapstructure:"store"`
	Session    SessionConfig    `mapstructure:"session"`
	Output     OutputConfig     `mapstructure:"output"`
	Log        LogConfig        `mapstructure:"log"`
}

// DefinitionConfig selects the form definition. An empty path runs the
// built-in seller onboarding form.
type DefinitionConfig struct {
	Path string `mapstructure:"path"`
}

// StoreConfig selects where drafts are kept.
type StoreConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	Key      string        `mapstructure:"key"`
}

// SessionConfig holds the display name used when signing in.
type SessionConfig struct {
	User string `mapstructure:"user"`
}

// OutputConfig controls how the submitted payload is printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Load reads configuration from file and env. Env var overrides use prefix STEPFORM_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("definition.path", "")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "stepform", "drafts"))
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")
	v.SetDefault("store.ttl", "24h")
	v.SetDefault("store.key", "")
	v.SetDefault("session.user", "")
	v.SetDefault("output.format", "json")
	v.SetDefault("log.level", "warn")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("STEPFORM_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "stepform"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STEPFORM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the default location is optional.
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	switch c.Output.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output.Format)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("config: store ttl must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured level (debug, info, warn, error).
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}
