// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Root       string `json:"root,omitempty"`        // Directory the walk starts from; defaults to the working directory
	IgnoreFile string `json:"ignore_file,omitempty"` // Path to the ignore-pattern file
	Ledger     string `json:"ledger,omitempty"`      // Path to the SQLite run ledger; empty disables persistence

	// Annotation behavior
	Policy       string   `json:"policy,omitempty" validate:"omitempty,oneof=replace prepend"` // Write policy: replace or prepend
	Suffixes     []string `json:"suffixes,omitempty"`                                          // File-name allow-set
	DropLeading  int      `json:"drop_leading,omitempty" validate:"gte=0"`                     // Leading response lines stripped by the replace policy
	DropTrailing int      `json:"drop_trailing,omitempty" validate:"gte=0"`                    // Trailing response lines stripped by the replace policy

	// Backend
	Model       string  `json:"model,omitempty"`                               // Generation model name
	Temperature float64 `json:"temperature,omitempty" validate:"gte=0,lte=2"`  // Generation temperature
	APIKey      string  `json:"api_key,omitempty"`                             // Gemini API key
	Concurrency int     `json:"concurrency,omitempty" validate:"gte=0,lte=64"` // Worker pool size

	// Output
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// The raw document is checked against the embedded JSON Schema before
// unmarshaling, so typos in field names surface as errors rather than being
// silently dropped.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are not checked here; the CLI validates those after merging
// flags, config, and environment.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: field %s failed %q validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Root != "" {
		if _, err := os.Stat(c.Root); os.IsNotExist(err) {
			return fmt.Errorf("config error: root directory not found: %s", c.Root)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Root == "" {
		result.Root = defaults.Root
	}
	if result.IgnoreFile == "" {
		result.IgnoreFile = defaults.IgnoreFile
	}
	if result.Ledger == "" {
		result.Ledger = defaults.Ledger
	}
	if result.Policy == "" {
		result.Policy = defaults.Policy
	}
	if len(result.Suffixes) == 0 {
		result.Suffixes = defaults.Suffixes
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int and float fields: use default if zero
	if result.DropLeading == 0 {
		result.DropLeading = defaults.DropLeading
	}
	if result.DropTrailing == 0 {
		result.DropTrailing = defaults.DropTrailing
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
