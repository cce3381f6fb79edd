// Package config provides the YAML-based application configuration,
// including first-run config creation and atomic saves.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// OllamaURL is the base URL of the local Ollama server.
	OllamaURL string `yaml:"ollama_url" json:"ollama_url"`

	// Model is the model name passed to the generate endpoint.
	Model string `yaml:"model" json:"model"`

	// Temperature is the sampling temperature for generation.
	Temperature float64 `yaml:"temperature" json:"temperature"`

	// CalendarFile is the JSON file backing the event store.
	CalendarFile string `yaml:"calendar_file" json:"calendar_file"`

	// HistoryFile is the JSON file holding conversation history.
	HistoryFile string `yaml:"history_file" json:"history_file"`

	// Listen is the HTTP listen address for the server variant.
	Listen string `yaml:"listen" json:"listen"`

	// HorizonDays is the number of future days included in the
	// calendar context given to the model (and in ICS exports).
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// DigestCron is a cron-style schedule (e.g. "0 8 * * *") for the
	// agenda digest while serving. Empty disables the digest.
	DigestCron string `yaml:"digest" json:"digest"`

	// LogLevel is the minimum log level: "debug", "info" or "error".
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		OllamaURL:    "http://localhost:11434",
		Model:        "llama3.2",
		Temperature:  0.7,
		CalendarFile: "calendar_data.json",
		HistoryFile:  "calendar_history.json",
		Listen:       "127.0.0.1:8080",
		HorizonDays:  7,
		DigestCron:   "",
		LogLevel:     "info",
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.OllamaURL == "" {
		c.OllamaURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "llama3.2"
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.7
	}
	if c.CalendarFile == "" {
		c.CalendarFile = "calendar_data.json"
	}
	if c.HistoryFile == "" {
		c.HistoryFile = "calendar_history.json"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 7
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = "info"
	}
}

// ApplyEnv overrides config fields from environment variables. Intended to
// run after Load so that .env / shell settings win over the file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CALENAI_OLLAMA_URL"); v != "" {
		c.OllamaURL = v
	}
	if v := os.Getenv("CALENAI_MODEL"); v != "" {
		c.Model = v
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there
//     (creating the parent directory) and returned.
//   - If the file exists, it is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calenai-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
