package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "config.json"
	envPrefix      = "CLIPDECK"
)

type Config struct {
	// Dir is the store directory holding clipdeck.sqlite.
	Dir string `mapstructure:"dir" json:"dir,omitempty"`
	// Format is the default CLI output format (json|yaml).
	Format   string `mapstructure:"format" json:"format,omitempty"`
	LogLevel string `mapstructure:"log_level" json:"log_level,omitempty"`
	// CopySeparator joins several templates copied at once.
	CopySeparator string `mapstructure:"copy_separator" json:"copy_separator,omitempty"`
	// Theme is light|dark|auto.
	Theme string `mapstructure:"theme" json:"theme,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.clipdeck).
	if v := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clipdeck"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func DefaultConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Dir:           dir,
		Format:        "json",
		LogLevel:      "info",
		CopySeparator: "\n",
		Theme:         "auto",
	}, nil
}

// LoadConfig layers defaults, the JSON config file and CLIPDECK_* environment
// variables. path overrides the default config location; a missing file is
// not an error.
func LoadConfig(path string) (*Config, error) {
	def, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("dir", def.Dir)
	v.SetDefault("format", def.Format)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("copy_separator", def.CopySeparator)
	v.SetDefault("theme", def.Theme)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// SaveConfig writes cfg to path (default location when empty).
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// EnsureConfig writes the default config file when none exists yet and
// reports whether it did.
func EnsureConfig(path string, cfg *Config) (bool, error) {
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return false, err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := SaveConfig(path, cfg); err != nil {
		return false, err
	}
	return true, nil
}
