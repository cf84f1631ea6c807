package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the optional settings file at the catalog root.
const ConfigFileName = "studyshare.yaml"

// Environment variables overriding the config file.
const (
	EnvAdapter    = "STUDYSHARE_ADAPTER"
	EnvLogLevel   = "STUDYSHARE_LOG_LEVEL"
	EnvStorageKey = "STUDYSHARE_STORAGE_KEY"
)

// Config is the persisted catalog configuration.
type Config struct {
	Adapter        string `yaml:"adapter,omitempty"`
	StorageKey     string `yaml:"storage_key,omitempty"`
	SystemDir      string `yaml:"system_dir,omitempty"`
	Seed           *bool  `yaml:"seed,omitempty"`
	ReadOnly       bool   `yaml:"read_only,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
	ThumbnailWidth int    `yaml:"thumbnail_width,omitempty"`
	Locale         string `yaml:"locale,omitempty"`
}

// LoadConfig reads root/studyshare.yaml when present, loads root/.env into
// the process environment without overriding variables already set, and
// applies the STUDYSHARE_* overrides.
func LoadConfig(root string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("platform.LoadConfig: %s: %w", ConfigFileName, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("platform.LoadConfig: %w", err)
	}

	envFile := filepath.Join(root, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("platform.LoadConfig: .env: %w", err)
		}
	}

	if v := os.Getenv(EnvAdapter); v != "" {
		cfg.Adapter = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvStorageKey); v != "" {
		cfg.StorageKey = v
	}
	return cfg, nil
}

// WriteConfig stores cfg as root/studyshare.yaml.
func WriteConfig(root string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("platform.WriteConfig: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), data, 0644); err != nil {
		return fmt.Errorf("platform.WriteConfig: %w", err)
	}
	return nil
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("platform.Config: log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Options converts the configuration into catalog options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Adapter != "" {
		opts = append(opts, WithAdapter(c.Adapter))
	}
	if c.StorageKey != "" {
		opts = append(opts, WithStorageKey(c.StorageKey))
	}
	if c.SystemDir != "" {
		opts = append(opts, WithSystemDir(c.SystemDir))
	}
	if c.Seed != nil {
		opts = append(opts, WithSeed(*c.Seed))
	}
	if c.ReadOnly {
		opts = append(opts, WithReadOnly(true))
	}
	return opts
}

// String renders the configuration for diagnostics.
func (c Config) String() string {
	seed := "default"
	if c.Seed != nil {
		seed = strconv.FormatBool(*c.Seed)
	}
	return fmt.Sprintf("adapter=%s storage_key=%s system_dir=%s seed=%s read_only=%t log_level=%s",
		c.Adapter, c.StorageKey, c.SystemDir, seed, c.ReadOnly, c.LogLevel)
}
