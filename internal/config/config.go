package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"findash/internal/report"
)

type Config struct {
	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Parsing
	DateLayouts []string `yaml:"date_layouts"`

	// Presentation
	CurrencySymbol string `yaml:"currency_symbol"`
	OutputFormat   string `yaml:"output_format"`
	ReportPath     string `yaml:"report_path"`

	// File the values above were read from, if any
	File string `yaml:"-"`
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"text", "json"}
	validOutputFormats = []string{"table", "json"}
)

// Load builds the configuration from defaults, then the YAML file named by
// FINDASH_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		CurrencySymbol: "$",
		OutputFormat:   "table",
		ReportPath:     report.DefaultFilename,
	}

	if path := os.Getenv("FINDASH_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", cfg.LogFormat))
	cfg.CurrencySymbol = getEnv("CURRENCY_SYMBOL", cfg.CurrencySymbol)
	cfg.OutputFormat = strings.ToLower(getEnv("OUTPUT_FORMAT", cfg.OutputFormat))
	cfg.ReportPath = getEnv("REPORT_PATH", cfg.ReportPath)
	cfg.DateLayouts = getEnvList("DATE_LAYOUTS", cfg.DateLayouts)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.File = path
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}
	if !contains(validOutputFormats, c.OutputFormat) {
		errors = append(errors, fmt.Sprintf("invalid output format '%s': must be one of %v", c.OutputFormat, validOutputFormats))
	}
	if strings.TrimSpace(c.ReportPath) == "" {
		errors = append(errors, "report path cannot be empty")
	}
	for _, layout := range c.DateLayouts {
		if strings.TrimSpace(layout) == "" {
			errors = append(errors, "date layouts cannot contain empty entries")
			break
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// listSeparator splits list variables. Date layouts may contain commas.
const listSeparator = ";"

// getEnvList splits a semicolon separated variable, trimming each entry.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, listSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
