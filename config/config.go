// Package config the domevent configuration
package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath the default configuration file path
	DefaultPath = "~/.config/domevent/config.yml"
	// DefaultAddress the api default address
	DefaultAddress = "localhost:8080"
	// DefaultTimeout the default script and request timeout
	DefaultTimeout = time.Minute
)

type configKey struct{}

// NewContext returns a context that contains the given Config.
func NewContext(ctx context.Context, config *Config) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

// FromContext returns the Config stored in ctx by NewContext, or the default
// Config if there is none.
func FromContext(ctx context.Context) *Config {
	if config, ok := ctx.Value(configKey{}).(*Config); ok {
		return config
	}
	return DefaultConfig()
}

// Config the domevent configuration
type Config struct {
	Log Log `yaml:"log"`
	API API `yaml:"api"`
}

// Log the logger configuration
type Log struct {
	// Level one of debug, info, warn, error
	Level string `yaml:"level"`
	// NoColor disables the colored console output
	NoColor bool `yaml:"no-color"`
}

// SlogLevel returns the slog.Level of the configured level, info if invalid.
func (l Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// API the api server configuration
type API struct {
	Address string        `yaml:"address"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig the default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: Log{Level: "info"},
		API: API{
			Address: DefaultAddress,
			Timeout: DefaultTimeout,
		},
	}
}

// ReadConfig read configuration from the file.
// If the configuration file does not exist then create it with the default configuration.
func ReadConfig(path string) (*Config, error) {
	file, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(file); errors.Is(err, os.ErrNotExist) {
		config := DefaultConfig()
		return config, WriteConfig(file, config)
	}

	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	if err = yaml.Unmarshal(bytes, config); err != nil {
		return nil, err
	}
	return config, nil
}

// WriteConfig writes the configuration to the file, creating its directory.
func WriteConfig(path string, config *Config) error {
	file, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}
	bytes, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(file, bytes, 0o600)
}

// ExpandPath expands the leading "~" as the home directory
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
