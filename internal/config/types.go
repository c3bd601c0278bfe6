package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultLoadSamples = true
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config holds the full configuration for tasksched.
type Config struct {
	// Seed file loaded into the registry at startup (.json, .yaml or .yml).
	SeedFile string `toml:"seed_file"`
	// Schema override for seed validation. Empty uses the embedded schema.
	SchemaFile string `toml:"schema_file"`
	// Seed the two demo tasks when no seed file is configured.
	LoadSamples bool `toml:"load_samples"`

	// Ordering used by ls and the TUI on start: due_date, completion_status,
	// or empty for insertion order.
	DefaultSort string `toml:"default_sort"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"seed_file",
		"schema_file",
		"load_samples",
		"default_sort",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
