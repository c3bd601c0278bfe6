package config

import "os"

// Environment variable names.
const (
	EnvSeed          = "TASKSCHED_SEED"
	EnvSchema        = "TASKSCHED_SCHEMA"
	EnvSamples       = "TASKSCHED_SAMPLES"
	EnvSort          = "TASKSCHED_SORT"
	EnvLogLevel      = "TASKSCHED_LOG_LEVEL"
	EnvLogFormat     = "TASKSCHED_LOG_FORMAT"
	EnvLogTimestamps = "TASKSCHED_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASKSCHED_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv(EnvSeed); v != "" {
		cfg.SeedFile = v
		set("seed_file")
	}
	if v := os.Getenv(EnvSchema); v != "" {
		cfg.SchemaFile = v
		set("schema_file")
	}
	if v := os.Getenv(EnvSamples); v != "" {
		cfg.LoadSamples = boolFromString(v)
		set("load_samples")
	}
	if v := os.Getenv(EnvSort); v != "" {
		cfg.DefaultSort = v
		set("default_sort")
	}

	// Logging configuration
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv(EnvLogTimestamps); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv(EnvLogCaller); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}
