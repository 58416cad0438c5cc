package config

// Built-in locations used when nothing overrides them.
const (
	DefaultRoot   = "phishurl-list"
	DefaultOutput = "phishurl.db3"
)

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Root: DefaultRoot,
		},
		Output: OutputConfig{
			File: DefaultOutput,
		},
		Storage: StorageConfig{
			Driver: "sqlite3",
		},
		Ingest: IngestConfig{
			FailOnDecodeError:   false,
			FailOnInvalidRecord: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Report: ReportConfig{
			Markdown: "",
		},
	}
}
