// Package config loads depmap configuration from TOML, YAML or JSON files.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for depmap.
type Config struct {
	// File exclusion rules applied during discovery
	Exclude ExcludeConfig `koanf:"exclude"`

	// Git change-history enrichment
	History HistoryConfig `koanf:"history"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// ExcludeConfig defines directory exclusion rules.
type ExcludeConfig struct {
	// Dirs are directory names skipped by exact match at any depth.
	Dirs []string `koanf:"dirs"`
	// Gitignore additionally applies .gitignore patterns when true.
	Gitignore bool `koanf:"gitignore"`
}

// HistoryConfig controls git history enrichment.
type HistoryConfig struct {
	Enabled bool `koanf:"enabled"`
	Days    int  `koanf:"days"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Exclude: ExcludeConfig{
			Dirs: []string{
				"__pycache__",
				"dependency_graph",
			},
			Gitignore: false,
		},
		History: HistoryConfig{
			Enabled: true,
			Days:    30,
		},
		Output: OutputConfig{
			Format:  "json",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"depmap.toml",
		"depmap.yaml",
		"depmap.yml",
		"depmap.json",
		".depmap.toml",
		".depmap.yaml",
		".depmap.yml",
		".depmap.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			cfg, err := Load(name)
			if err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}
