package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	apperrors "tracky/internal/platform/errors"
)

const (
	BackendJSON   = "json"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"

	dirName  = "tracky_cli"
	fileName = "config.yaml"
)

type Config struct {
	DataDir   string
	Backend   string
	StatePath string
	LogLevel  string
	Color     bool
}

// Overrides carries values from command-line flags. Empty fields leave the
// lower layers untouched.
type Overrides struct {
	DataDir  string
	Backend  string
	LogLevel string
	NoColor  bool
}

type fileConfig struct {
	Store    string `yaml:"store"`
	LogLevel string `yaml:"log_level"`
	Color    *bool  `yaml:"color"`
}

type envConfig struct {
	DataDir  string `env:"TRACKY_DATA_DIR"`
	Store    string `env:"TRACKY_STORE"`
	LogLevel string `env:"TRACKY_LOG_LEVEL"`
	NoColor  bool   `env:"TRACKY_NO_COLOR"`
}

// Load layers defaults, <data dir>/config.yaml, TRACKY_* environment
// variables and flag overrides, in that order.
func Load(overrides Overrides) (Config, error) {
	var fromEnv envConfig
	if err := env.Load(&fromEnv, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Config{Backend: BackendJSON, LogLevel: "warn", Color: true}
	cfg.DataDir = firstNonEmpty(overrides.DataDir, fromEnv.DataDir)
	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, dirName)
	}

	file, err := readFile(filepath.Join(cfg.DataDir, fileName))
	if err != nil {
		return Config{}, err
	}
	if file.Store != "" {
		cfg.Backend = file.Store
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.Color != nil {
		cfg.Color = *file.Color
	}

	if v := firstNonEmpty(overrides.Backend, fromEnv.Store); v != "" {
		cfg.Backend = v
	}
	if v := firstNonEmpty(overrides.LogLevel, fromEnv.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if overrides.NoColor || fromEnv.NoColor {
		cfg.Color = false
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	path, err := StatePath(cfg.DataDir, cfg.Backend)
	if err != nil {
		return Config{}, err
	}
	cfg.StatePath = path
	return cfg, nil
}

// StatePath is the file a backend persists to inside dataDir.
func StatePath(dataDir, backend string) (string, error) {
	switch backend {
	case BackendJSON:
		return filepath.Join(dataDir, "data.json"), nil
	case BackendYAML:
		return filepath.Join(dataDir, "data.yaml"), nil
	case BackendSQLite:
		return filepath.Join(dataDir, "data.db"), nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownBackend, backend)
	}
}

func readFile(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var out fileConfig
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return fileConfig{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
