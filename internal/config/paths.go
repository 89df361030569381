package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "DIGITALTHREAD_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "digitalthread.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "digitalthread"
)

// searchPaths lists the candidate config files in priority order:
// 1. $DIGITALTHREAD_CONFIG (explicit path)
// 2. ./digitalthread.yaml (working directory)
// 3. $XDG_CONFIG_HOME/digitalthread/config.yaml
// 4. ~/.config/digitalthread/config.yaml
// 5. /etc/digitalthread/config.yaml
func searchPaths() []string {
	var paths []string
	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}
	paths = append(paths, ConfigFileName)
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file from the search
// order, as an absolute path when possible. Returns empty string if no config
// file is found.
func FindConfigPath() string {
	for _, path := range searchPaths() {
		if !fileExists(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// DefaultConfigPath returns the preferred location for a new config file
// Prefers XDG config home, falls back to working directory
func DefaultConfigPath() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// ResolveDatasetPaths makes relative dataset patterns relative to the
// directory of the config file they were read from
func (c *Config) ResolveDatasetPaths(configPath string) {
	if configPath == "" {
		return
	}
	dir := filepath.Dir(configPath)
	for i, p := range c.Dataset.Paths {
		if !filepath.IsAbs(p) {
			c.Dataset.Paths[i] = filepath.Join(dir, p)
		}
	}
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	dir := filepath.Dir(configPath)
	return os.MkdirAll(dir, 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
