// Package config loads client configuration: defaults, then the YAML file in
// the data directory, then ROADWATCH_* environment variables. A .env file in
// the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config holds configuration for the RoadWatch client.
type Config struct {
	// ServerURL is the backend base URL.
	ServerURL string `yaml:"server_url" env:"ROADWATCH_SERVER"`

	// DataDir holds the local database, persisted session, and config file.
	DataDir string `yaml:"data_dir" env:"ROADWATCH_DATA_DIR"`

	LogLevel  string `yaml:"log_level" env:"ROADWATCH_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"ROADWATCH_LOG_FORMAT"`

	// PollSeconds is the alert polling interval.
	PollSeconds int `yaml:"poll_seconds" env:"ROADWATCH_POLL_SECONDS"`

	// Device location, standing in for the platform location service.
	// LocationGranted models the permission grant.
	Latitude        float64 `yaml:"latitude" env:"ROADWATCH_LATITUDE"`
	Longitude       float64 `yaml:"longitude" env:"ROADWATCH_LONGITUDE"`
	LocationGranted bool    `yaml:"location_granted" env:"ROADWATCH_LOCATION_GRANTED"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServerURL:   "http://localhost:3000",
		DataDir:     defaultDataDir(),
		LogLevel:    "info",
		LogFormat:   "text",
		PollSeconds: 10,
	}
}

// PollInterval returns the polling cadence as a duration.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// Load builds the effective configuration: defaults, overridden by the YAML
// file in the data dir (if any), overridden by environment variables. A
// non-empty dataDir pins the data directory, and with it the config file
// location, over both the environment and the file contents.
func Load(dataDir string) (Config, error) {
	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// The data dir decides where the YAML file lives; resolve it before
	// reading the file.
	if dir := os.Getenv("ROADWATCH_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := loadFile(&cfg, filepath.Join(cfg.DataDir, configFileName)); err != nil {
		return Config{}, err
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// loadFile merges the YAML file at path into cfg. A missing file is fine.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the data dir as YAML.
func (c Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	path := filepath.Join(c.DataDir, configFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// DBPath returns the location of the local SQLite database.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "roadwatch.db")
}

// defaultDataDir returns ~/.roadwatch, or a relative fallback when the home
// directory cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".roadwatch"
	}
	return filepath.Join(home, ".roadwatch")
}
