package config

import "flag"

// flagToField maps flag names to config field names.
var flagToField = map[string]string{
	"seed":           "seed_file",
	"schema":         "schema_file",
	"samples":        "load_samples",
	"sort":           "default_sort",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs, bound to the layered values
// already in cfg, and parses args. Flags that were set are recorded in sources.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasksched", flag.ContinueOnError)
	}

	// Seeding
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "Seed file to load at startup (.json, .yaml, .yml)")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "Schema file overriding the embedded seed schema")
	fs.BoolVar(&cfg.LoadSamples, "samples", cfg.LoadSamples, "Load the demo tasks when no seed file is given")
	fs.StringVar(&cfg.DefaultSort, "sort", cfg.DefaultSort, "Default ordering (due_date, completion_status)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagToField[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
