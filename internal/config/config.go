package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName names the XDG config subdirectory.
const AppName = "phishurl"

// LocalConfigFile is looked up in the working directory.
const LocalConfigFile = "phishurl.yaml"

// Environment variables applied on top of the config file.
const (
	EnvRoot     = "PHISHURL_ROOT"
	EnvOutput   = "PHISHURL_OUTPUT"
	EnvDriver   = "PHISHURL_DRIVER"
	EnvLogLevel = "PHISHURL_LOG_LEVEL"
)

// Config holds all phishurl configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Storage StorageConfig `yaml:"storage"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Logging LoggingConfig `yaml:"logging"`
	Report  ReportConfig  `yaml:"report"`
}

type InputConfig struct {
	Root string `yaml:"root"`
}

type OutputConfig struct {
	File string `yaml:"file"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type IngestConfig struct {
	FailOnDecodeError   bool `yaml:"fail_on_decode_error"`
	FailOnInvalidRecord bool `yaml:"fail_on_invalid_record"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ReportConfig struct {
	Markdown string `yaml:"markdown"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns ErrConfigNotFound if the file does not exist, or another error if
// it cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. explicit, when non-empty (returned as is, even if missing, so Load
//     can report it)
//  2. phishurl.yaml in the current directory
//  3. $XDG_CONFIG_HOME/phishurl/config.yaml
//
// Returns an empty string when no file is found.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}

	if path, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml")); err == nil {
		return path
	}

	return ""
}

// Resolve builds the effective configuration: defaults, then the config
// file found by FindConfigFile, then a .env file in the working directory
// and the process environment. A missing .env is fine; an unreadable one is
// an error.
func Resolve(explicit string) (*Config, error) {
	cfg := DefaultConfig()

	if path := FindConfigFile(explicit); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from PHISHURL_* environment variables that are set.
func (c *Config) ApplyEnv() {
	c.Input.Root = getEnv(EnvRoot, c.Input.Root)
	c.Output.File = getEnv(EnvOutput, c.Output.File)
	c.Storage.Driver = getEnv(EnvDriver, c.Storage.Driver)
	c.Logging.Level = getEnv(EnvLogLevel, c.Logging.Level)
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Input.Root == "" {
		return ErrEmptyRoot
	}
	if c.Output.File == "" {
		return ErrEmptyOutput
	}
	switch c.Storage.Driver {
	case "sqlite3", "sqlite":
	default:
		return ErrUnknownDriver
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return ErrUnknownLogFormat
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
