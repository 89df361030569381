// Package config provides configuration management for the digital thread server.
//
// Config file locations (priority order):
//  1. $DIGITALTHREAD_CONFIG
//  2. ./digitalthread.yaml
//  3. $XDG_CONFIG_HOME/digitalthread/config.yaml
//  4. ~/.config/digitalthread/config.yaml
//  5. /etc/digitalthread/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"digitalthread/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr     = ":3000"
	defaultDataset  = "./data/thread.yaml"
	defaultDebounce = 500 * time.Millisecond
)

// validate is shared by every Config.Validate call
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("artifact_kind", func(fl validator.FieldLevel) bool {
		return domain.Kind(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("time_window", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTimeWindow(fl.Field().String())
		return err == nil
	})
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if len(c.Dataset.Paths) == 0 {
		c.Dataset.Paths = []string{defaultDataset}
	}
	if c.Dataset.Debounce == 0 {
		c.Dataset.Debounce = Duration(defaultDebounce)
	}
	if c.Views.DefaultWindow == "" {
		c.Views.DefaultWindow = string(domain.WindowAll)
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultWindow returns the configured timeline window
func (c *Config) DefaultWindow() domain.TimeWindow {
	w, err := domain.ParseTimeWindow(c.Views.DefaultWindow)
	if err != nil {
		return domain.WindowAll
	}
	return w
}

// KindOrder returns the configured flow order, or the canonical order
func (c *Config) KindOrder() []domain.Kind {
	if len(c.Views.KindOrder) == 0 {
		return domain.CanonicalKindOrder()
	}
	out := make([]domain.Kind, 0, len(c.Views.KindOrder))
	for _, k := range c.Views.KindOrder {
		out = append(out, domain.Kind(k))
	}
	return out
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s\n", c.Server.Addr)
	summary += fmt.Sprintf("Dataset: %v (watch: %v, debounce: %s)\n",
		c.Dataset.Paths, c.Dataset.Watch, c.Dataset.Debounce.Duration())
	summary += fmt.Sprintf("Timeline: window %s, include changes %v", c.DefaultWindow(), c.Views.IncludeChanges)
	return summary
}
