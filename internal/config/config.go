// Package config handles configuration loading for algolearn.
// It supports YAML (or JSON) config files, environment variables, and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for algolearn.
type Config struct {
	StateDir       string         `yaml:"state_dir"`       // default: ~/.local/state/algolearn
	CurriculumPath string         `yaml:"curriculum_path"` // optional curriculum JSON file
	DebugLevel     int            `yaml:"debug_level"`     // 0-3, from ALGOLEARN_DEBUG
	User           string         `yaml:"user"`            // owner of notes and progress rows
	Database       DatabaseConfig `yaml:"database"`
	Cache          CacheConfig    `yaml:"cache"`
	Search         SearchConfig   `yaml:"search"`
	MetricsFile    string         `yaml:"metrics_file"` // prometheus textfile output, empty disables
}

// DatabaseConfig configures the notes/progress store
type DatabaseConfig struct {
	Type string `yaml:"type"` // "sqlite" or "postgres"
	Path string `yaml:"path"` // for sqlite
	DSN  string `yaml:"dsn"`  // for postgres
}

// CacheConfig configures the search result cache
type CacheConfig struct {
	Backend  string        `yaml:"backend"` // "none" (default), "redis", or "memory" for long-lived embedders
	TTL      time.Duration `yaml:"ttl"`
	RedisURL string        `yaml:"redis_url"`
}

// SearchConfig holds search defaults
type SearchConfig struct {
	DefaultLimit   int    `yaml:"default_limit"`
	FuzzyAlgorithm string `yaml:"fuzzy_algorithm"` // "legacy" or "levenshtein"
}

// DefaultPath returns ~/.config/algolearn/config.yaml
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "algolearn", "config.yaml")
}

// Load reads configuration from the given file path,
// applies defaults for missing values, and overrides with environment variables.
// A missing file is not an error; a malformed one is.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", configPath, err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if cfg.DebugLevel < 0 {
		cfg.DebugLevel = 0
	}
	if cfg.DebugLevel > 3 {
		cfg.DebugLevel = 3
	}
	if cfg.Search.DefaultLimit <= 0 {
		cfg.Search.DefaultLimit = 20
	}

	// Relative sqlite paths live under the state dir
	if cfg.Database.Type == "sqlite" && !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(cfg.StateDir, cfg.Database.Path)
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields.
func applyDefaults(cfg *Config) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	if cfg.StateDir == "" {
		cfg.StateDir = filepath.Join(homeDir, ".local", "state", "algolearn")
	}
	if cfg.User == "" {
		cfg.User = defaultUser()
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "algolearn.db"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "none"
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.Search.FuzzyAlgorithm == "" {
		cfg.Search.FuzzyAlgorithm = "legacy"
	}
}

// applyEnvOverrides overrides config values with ALGOLEARN_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ALGOLEARN_STATE"); val != "" {
		cfg.StateDir = val
	}
	if val := os.Getenv("ALGOLEARN_CURRICULUM"); val != "" {
		cfg.CurriculumPath = val
	}
	if val := os.Getenv("ALGOLEARN_DEBUG"); val != "" {
		if level, err := strconv.Atoi(val); err == nil {
			cfg.DebugLevel = level
		}
	}
	if val := os.Getenv("ALGOLEARN_USER"); val != "" {
		cfg.User = val
	}
	if val := os.Getenv("ALGOLEARN_DB_TYPE"); val != "" {
		cfg.Database.Type = strings.ToLower(val)
	}
	if val := os.Getenv("ALGOLEARN_DB_DSN"); val != "" {
		cfg.Database.DSN = val
	}
	if val := os.Getenv("ALGOLEARN_CACHE"); val != "" {
		cfg.Cache.Backend = strings.ToLower(val)
	}
	if val := os.Getenv("ALGOLEARN_REDIS_URL"); val != "" {
		cfg.Cache.RedisURL = val
	}
	if val := os.Getenv("ALGOLEARN_METRICS_FILE"); val != "" {
		cfg.MetricsFile = val
	}
}

// defaultUser falls back to the login name, then "learner".
func defaultUser() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return "learner"
}
