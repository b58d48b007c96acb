// Package config provides unified configuration loading for memlearn.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jleechanorg/memlearn/internal/constants"
	"github.com/jleechanorg/memlearn/internal/store"
)

// Config contains all memlearn configuration settings.
type Config struct {
	// Store configures the pattern store backend.
	Store StoreConfig `json:"store" yaml:"store"`

	// Rules configures the rules document and its backups.
	Rules RulesConfig `json:"rules" yaml:"rules"`

	// Logging configures log verbosity and the activity log.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// StoreConfig configures pattern persistence.
type StoreConfig struct {
	// Backend selects the persistence backend: "file" (default) or "sqlite".
	Backend string `json:"backend" yaml:"backend"`

	// Dir overrides the data directory. Empty means <root>/.memlearn.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// RulesConfig configures the promotion target document.
type RulesConfig struct {
	// Document is the rules file promoted patterns are written into,
	// relative to the workspace root unless absolute.
	Document string `json:"document" yaml:"document"`

	// BackupDir overrides where document backups are kept. Empty means
	// <data-dir>/backups.
	BackupDir string `json:"backup_dir,omitempty" yaml:"backup_dir,omitempty"`

	// KeepBackups is the number of backups retained after rotation.
	// Zero or negative disables rotation.
	KeepBackups int `json:"keep_backups" yaml:"keep_backups"`
}

// LoggingConfig configures memlearn's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default) or "debug".
	// "debug" enables activity logging to .memlearn/activity.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "file",
		},
		Rules: RulesConfig{
			Document:    "CLAUDE.md",
			KeepBackups: constants.DefaultKeepBackups,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> <root>/.memlearn/config.yaml ->
// ~/.memlearn/config.yaml -> environment variables.
func Load(root string) (*Config, error) {
	config := Default()

	paths := []string{filepath.Join(store.DataDir(root), "config.yaml")}
	if globalDir, err := store.GlobalDataDir(); err == nil {
		paths = append(paths, filepath.Join(globalDir, "config.yaml"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
		break
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	validBackends := map[string]bool{"": true, "file": true, "sqlite": true}
	if !validBackends[c.Store.Backend] {
		return fmt.Errorf("invalid store backend: %s (valid: file, sqlite, or empty for default)", c.Store.Backend)
	}

	if c.Rules.Document == "" {
		return fmt.Errorf("rules document must not be empty")
	}

	validLevels := map[string]bool{"info": true, "debug": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, or empty for default)", c.Logging.Level)
	}

	return nil
}

// DataDir resolves the effective data directory for a workspace root.
func (c *Config) DataDir(root string) string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return store.DataDir(root)
}

// RulesPath resolves the effective rules document path for a workspace root.
func (c *Config) RulesPath(root string) string {
	if filepath.IsAbs(c.Rules.Document) {
		return c.Rules.Document
	}
	return filepath.Join(root, c.Rules.Document)
}

// BackupDir resolves the effective backup directory for a workspace root.
func (c *Config) BackupDir(root string) string {
	if c.Rules.BackupDir != "" {
		return c.Rules.BackupDir
	}
	return store.BackupDir(c.DataDir(root))
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MEMLEARN_STORE_BACKEND"); v != "" {
		config.Store.Backend = v
	}

	if v := os.Getenv("MEMLEARN_STORE_DIR"); v != "" {
		config.Store.Dir = v
	}

	if v := os.Getenv("MEMLEARN_RULES_DOCUMENT"); v != "" {
		config.Rules.Document = v
	}

	if v := os.Getenv("MEMLEARN_KEEP_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Rules.KeepBackups = n
		}
	}

	if v := os.Getenv("MEMLEARN_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
