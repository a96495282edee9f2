// Package config loads the statefield YAML configuration and the named state
// presets.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/statefield/internal/dimension"
	"github.com/san-kum/statefield/internal/history"
	"github.com/san-kum/statefield/internal/mapping"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultWindowHours = 24.0
	DefaultLogLevel    = "info"
	DefaultDataDir     = ".statefield"
	// DefaultDBName is the database file placed in the data directory when
	// the sqlite backend has no explicit path.
	DefaultDBName = "statefield.db"
)

// Environment variables read by ApplyEnv.
const (
	EnvPolicy = "STATEFIELD_POLICY"
	EnvStore  = "STATEFIELD_STORE"
	EnvData   = "STATEFIELD_DATA"
)

type Config struct {
	Policy         string             `yaml:"policy"`
	WindowHours    float64            `yaml:"window_hours"`
	RetentionCap   int                `yaml:"retention_cap"`
	ClampDiffusion bool               `yaml:"clamp_diffusion"`
	LogLevel       string             `yaml:"log_level"`
	DataDir        string             `yaml:"data_dir"`
	Store          StoreConfig        `yaml:"store"`
	Exponents      map[string]float64 `yaml:"exponents,omitempty"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path is a directory for the file backend and a database file for
	// sqlite. Empty means derive it from the data directory.
	Path string `yaml:"path,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Policy:       mapping.DefaultPolicy,
		WindowHours:  DefaultWindowHours,
		RetentionCap: history.DefaultRetention,
		LogLevel:     DefaultLogLevel,
		DataDir:      DefaultDataDir,
		Store: StoreConfig{
			Backend: "file",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned as is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.WindowHours <= 0 {
		return fmt.Errorf("%w: window_hours must be positive, got %v", ErrInvalidConfig, c.WindowHours)
	}
	if c.RetentionCap < 0 {
		return fmt.Errorf("%w: retention_cap must not be negative, got %d", ErrInvalidConfig, c.RetentionCap)
	}
	if _, err := mapping.Lookup(c.Policy, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := history.Backend(c.Store.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for name := range c.Exponents {
		if _, ok := dimension.Lookup(name); !ok {
			return fmt.Errorf("%w: unknown dimension %q in exponents", ErrInvalidConfig, name)
		}
	}
	return nil
}

// ApplyEnv overrides policy, store backend and data directory from the
// environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvPolicy)); v != "" {
		c.Policy = v
	}
	if v := strings.TrimSpace(getenv(EnvStore)); v != "" {
		c.Store.Backend = v
	}
	if v := strings.TrimSpace(getenv(EnvData)); v != "" {
		c.DataDir = v
	}
}

func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowHours * float64(time.Hour))
}

// StorePath returns the explicit store path, or one derived from DataDir.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	dataDir := c.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	if backend, _ := history.Backend(c.Store.Backend); backend == "sqlite" {
		return filepath.Join(dataDir, DefaultDBName)
	}
	return dataDir
}

// ResolvePolicy builds the configured policy with the exponent overrides.
func (c *Config) ResolvePolicy() (mapping.Policy, error) {
	return mapping.Lookup(c.Policy, c.Exponents)
}

func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, name)
	}
}
