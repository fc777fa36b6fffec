// Package config loads coremind settings from ~/.coremind/config.toml and
// COREMIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDir  = ".coremind"
	configName = "config"
	configType = "toml"
	envPrefix  = "COREMIND"

	BackendTOML   = "toml"
	BackendSQLite = "sqlite"

	KeyMemoryBackend = "memory.backend"
	KeyMemoryPath    = "memory.path"
	KeyMemoryRecent  = "memory.recent"
	KeyRestoreState  = "mind.restore_state"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

var (
	ErrUnknownBackend   = errors.New("unknown memory backend")
	ErrUnknownLogFormat = errors.New("unknown log format")
)

type Config struct {
	Memory Memory `mapstructure:"memory"`
	Mind   Mind   `mapstructure:"mind"`
	Log    Log    `mapstructure:"log"`
}

type Memory struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Recent  int    `mapstructure:"recent"`
}

type Mind struct {
	RestoreState bool `mapstructure:"restore_state"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults, env binding and the config
// file read when present. An explicit file must exist.
func New(file string) (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetDefault(KeyMemoryBackend, BackendTOML)
	cfg.SetDefault(KeyMemoryRecent, 10)
	cfg.SetDefault(KeyRestoreState, false)
	cfg.SetDefault(KeyLogLevel, "info")
	cfg.SetDefault(KeyLogFormat, "console")

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if file != "" {
		cfg.SetConfigFile(file)
	} else {
		cfg.SetConfigName(configName)
		cfg.SetConfigType(configType)
		cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.GetString(KeyMemoryBackend)))
	cfg.Set(KeyMemoryBackend, backend)
	cfg.SetDefault(KeyMemoryPath, filepath.Join(homeDir, configDir, defaultMemoryFile(backend)))

	path, err := expandHome(cfg.GetString(KeyMemoryPath), homeDir)
	if err != nil {
		return nil, err
	}
	cfg.Set(KeyMemoryPath, path)

	return cfg, nil
}

// Load builds and validates the typed configuration.
func Load(file string) (*viper.Viper, Config, error) {
	cfg, err := New(file)
	if err != nil {
		return nil, Config{}, err
	}

	var out Config
	if err := cfg.Unmarshal(&out); err != nil {
		return nil, Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, Config{}, err
	}

	return cfg, out, nil
}

func (c Config) Validate() error {
	switch c.Memory.Backend {
	case BackendTOML, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Memory.Backend)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.Log.Format)
	}

	if strings.TrimSpace(c.Memory.Path) == "" {
		return errors.New("memory path is empty")
	}
	if c.Memory.Recent < 0 {
		return fmt.Errorf("memory.recent must not be negative, got %d", c.Memory.Recent)
	}

	return nil
}

func defaultMemoryFile(backend string) string {
	if backend == BackendSQLite {
		return "memory.db"
	}
	return "memory.toml"
}

func expandHome(path, homeDir string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" {
		return homeDir, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}
	if path == "" {
		return "", errors.New("memory path is empty")
	}

	return filepath.Clean(path), nil
}
