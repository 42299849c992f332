// Package config loads YAML-backed settings for the cast/watch subcommands
// that outlive a single flag parse.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by both subcommands, overridable by CLI
// flags (flags win when both are set).
type Config struct {
	// Shell is the command spawned inside the PTY for `cast`. Empty means
	// the operator's $SHELL, or /bin/bash if unset.
	Shell string `yaml:"shell"`

	// Dir is the working directory for the spawned shell. Empty means the
	// current working directory at launch time.
	Dir string `yaml:"dir"`

	// Cols and Rows size the cell grid. Per spec.md §6, default 80x40.
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`

	// Listen is the cast host's broadcast listen address.
	Listen string `yaml:"listen"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Cols:   80,
		Rows:   40,
		Listen: ":9494",
	}
}

// path returns ~/.vtcast.yaml, or "" if the home directory can't be found.
func path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vtcast.yaml")
}

// Load reads ~/.vtcast.yaml over the built-in defaults. A missing or
// unreadable file is not an error: Load just returns the defaults.
func Load() Config {
	cfg := Default()

	p := path()
	if p == "" {
		return cfg
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(data, &cfg)

	if cfg.Cols < 1 {
		cfg.Cols = 80
	}
	if cfg.Rows < 1 {
		cfg.Rows = 40
	}
	return cfg
}
