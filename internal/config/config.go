// Package config loads splitledger settings from an optional TOML, YAML or
// JSON file, then applies environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitledger/internal/ledger"
)

// Config holds splitledger settings.
type Config struct {
	// LedgerPath is the file one-shot commands load and save.
	// A .db, .sqlite or .sqlite3 extension selects SQLite storage.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path" toml:"ledger_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	// ShareTolerance is the largest accepted difference between the sum of
	// custom shares and the expense amount. "0" requires an exact match.
	ShareTolerance string `json:"share_tolerance" yaml:"share_tolerance" toml:"share_tolerance"`

	// StrictParticipants rejects custom splits naming unknown participants
	// instead of applying the known shares.
	StrictParticipants bool `json:"strict_participants" yaml:"strict_participants" toml:"strict_participants"`

	// MetricsTextfile, when set, receives Prometheus metrics after each command.
	MetricsTextfile string `json:"metrics_textfile" yaml:"metrics_textfile" toml:"metrics_textfile"`

	CurrencySymbol string `json:"currency_symbol" yaml:"currency_symbol" toml:"currency_symbol"`
	ExportDir      string `json:"export_dir" yaml:"export_dir" toml:"export_dir"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LedgerPath:     "./data/ledger.json",
		LogLevel:       "info",
		ShareTolerance: "0",
		CurrencySymbol: "$",
	}
}

// Load returns the defaults overlaid with the file at path (if path is not
// empty) and then with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if _, err := cfg.Tolerance(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays a TOML, YAML or JSON file chosen by extension.
func (c *Config) loadFile(filePath string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".toml":
		if err := toml.Unmarshal(fileData, c); err != nil {
			return fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, c); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, c); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LedgerPath = getEnv("LEDGER_PATH", c.LedgerPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MetricsTextfile = getEnv("METRICS_TEXTFILE", c.MetricsTextfile)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Tolerance parses ShareTolerance.
func (c *Config) Tolerance() (decimal.Decimal, error) {
	if strings.TrimSpace(c.ShareTolerance) == "" {
		return decimal.Zero, nil
	}
	tol, err := decimal.NewFromString(c.ShareTolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid share_tolerance %q: %w", c.ShareTolerance, err)
	}
	if tol.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid share_tolerance %q: must not be negative", c.ShareTolerance)
	}
	return tol, nil
}

// LedgerOptions translates the settings into ledger options.
func (c *Config) LedgerOptions() []ledger.Option {
	var opts []ledger.Option
	if tol, err := c.Tolerance(); err == nil && !tol.IsZero() {
		opts = append(opts, ledger.WithShareTolerance(tol))
	}
	if c.StrictParticipants {
		opts = append(opts, ledger.WithStrictParticipants())
	}
	return opts
}
