// =============================================================================
// Manga CSV to MAL Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
// Every setting has a default, so running without a config file is the
// normal case; the file only overrides what it names.
//
// CONFIGURATION FILE (config.yaml):
//   user_name: "kirbonwashere!"
//   user_export_type: "2"
//   output_suffix: "_mal.xml"
//   indent: "  "
//   xml_declaration: true
//   date_mode: iso            # iso | passthrough
//   log_level: info
//   csv_settings:
//     delimiter: ","
//     encoding: UTF-8
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Date modes select how a matched MM-DD-YYYY date is emitted.
const (
	// DateModeISO reorders month-first dates into YYYY-MM-DD.
	DateModeISO = "iso"

	// DateModePassthrough re-emits the captured groups left to right, so
	// "05-01-2021" is written unchanged.
	DateModePassthrough = "passthrough"
)

// Config holds the global application configuration.
type Config struct {
	// UserName is written to <myinfo><user_name>.
	UserName string `yaml:"user_name"`

	// UserExportType is written to <myinfo><user_export_type>.
	// MAL uses "2" for manga lists.
	UserExportType string `yaml:"user_export_type"`

	// OutputSuffix replaces the input file extension to form the output path.
	// Default: "_mal.xml"
	OutputSuffix string `yaml:"output_suffix"`

	// Indent is the string used for one level of XML indentation.
	Indent string `yaml:"indent"`

	// XMLDeclaration controls the leading <?xml ...?> line.
	// A pointer so an explicit false in the file survives defaulting.
	XMLDeclaration *bool `yaml:"xml_declaration"`

	// DateMode is one of DateModeISO or DateModePassthrough.
	DateMode string `yaml:"date_mode"`

	// LogLevel: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// CSVSettings controls how the input CSV is read.
	CSVSettings CSVSettings `yaml:"csv_settings"`
}

// CSVSettings contains settings for parsing the input CSV.
type CSVSettings struct {
	// Delimiter is the field separator. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the file, e.g. "UTF-8",
	// "windows-1252", "ISO-8859-1". A UTF-8 byte order mark is always stripped.
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at configPath. A missing file is not an
// error: the defaults are returned instead.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// WantDeclaration reports whether the XML declaration line is enabled.
func (c *Config) WantDeclaration() bool {
	return c.XMLDeclaration == nil || *c.XMLDeclaration
}

// applyDefaults fills in default values for any settings not specified.
func applyDefaults(cfg *Config) {
	if cfg.UserName == "" {
		cfg.UserName = "kirbonwashere!"
	}
	if cfg.UserExportType == "" {
		cfg.UserExportType = "2"
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = "_mal.xml"
	}
	if cfg.Indent == "" {
		cfg.Indent = "  "
	}
	if cfg.XMLDeclaration == nil {
		enabled := true
		cfg.XMLDeclaration = &enabled
	}
	if cfg.DateMode == "" {
		cfg.DateMode = DateModeISO
	}
	cfg.DateMode = strings.ToLower(cfg.DateMode)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
	if cfg.CSVSettings.Encoding == "" {
		cfg.CSVSettings.Encoding = "UTF-8"
	}
}

func validate(cfg *Config) error {
	switch cfg.DateMode {
	case DateModeISO, DateModePassthrough:
	default:
		return fmt.Errorf("unknown date_mode %q (want %q or %q)", cfg.DateMode, DateModeISO, DateModePassthrough)
	}

	if strings.ContainsAny(cfg.OutputSuffix, `/\`) {
		return fmt.Errorf("output_suffix must not contain path separators: %q", cfg.OutputSuffix)
	}

	if strings.TrimSpace(cfg.Indent) != "" {
		return fmt.Errorf("indent must be whitespace only")
	}

	return nil
}
