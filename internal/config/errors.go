package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyRoot is returned when no input root directory is configured.
	ErrEmptyRoot = errors.New("invalid config: input root is empty")

	// ErrEmptyOutput is returned when no output database file is configured.
	ErrEmptyOutput = errors.New("invalid config: output file is empty")

	// ErrUnknownDriver is returned for a storage driver other than sqlite3 or sqlite.
	ErrUnknownDriver = errors.New("invalid config: storage driver must be sqlite3 or sqlite")

	// ErrUnknownLogFormat is returned for a log format other than text or json.
	ErrUnknownLogFormat = errors.New("invalid config: logging format must be text or json")

	// ErrConfigNotFound is returned by Load when the file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
