// Package config loads the configuration of deck.
//
// Settings are read from a YAML file, then overridden by DECK_* environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "DECK"

// Config keeps all settings.
type Config struct {
	// Path to the bbolt database.
	DB string `yaml:"db" envconfig:"DB"`
	// Address of the websocket server.
	Listen string `yaml:"listen" envconfig:"LISTEN"`
	// Quiet period after an edit before the document is saved.
	SaveDelay time.Duration `yaml:"save_delay" envconfig:"SAVE_DELAY"`
	// Maximum number of undo steps. 0 means unlimited.
	HistoryLimit int `yaml:"history_limit" envconfig:"HISTORY_LIMIT"`
	LogLevel     string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	// Log file. Logs are discarded if empty.
	LogFile string `yaml:"log_file" envconfig:"LOG_FILE"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DB:           filepath.Join(dataHome(), "deck", "db.bolt"),
		Listen:       "localhost:7070",
		SaveDelay:    time.Second,
		HistoryLimit: 100,
		LogLevel:     "info",
	}
}

// DefaultPath returns the path of the configuration file used when none is
// given explicitly.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "deck", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "deck", "config.yaml")
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// Load loads the configuration. If path is empty, the file at DefaultPath is
// used if it exists; otherwise the file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return Config{}, err
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	switch {
	case c.DB == "":
		return errors.New("db must not be empty")
	case c.SaveDelay < 0:
		return fmt.Errorf("save_delay must not be negative, got %v", c.SaveDelay)
	case c.HistoryLimit < 0:
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}
