package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Views   ViewsConfig   `yaml:"views"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr       string `yaml:"addr" validate:"required"`
	CORSOrigin string `yaml:"cors_origin,omitempty"`
}

// DatasetConfig tells the service where artifact data comes from
type DatasetConfig struct {
	// Paths are files or doublestar glob patterns, merged in order
	Paths    []string `yaml:"paths" validate:"required,min=1,dive,required"`
	Watch    bool     `yaml:"watch"`
	Debounce Duration `yaml:"debounce,omitempty" validate:"gte=0"`
}

// ViewsConfig holds default display options for the projections
type ViewsConfig struct {
	DefaultWindow  string   `yaml:"default_window" validate:"time_window"`
	IncludeChanges bool     `yaml:"include_changes"`
	KindOrder      []string `yaml:"kind_order,omitempty" validate:"omitempty,dive,artifact_kind"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
