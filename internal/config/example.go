package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasksched configuration file
# Values can be overridden by TASKSCHED_* environment variables or CLI flags

# Seed file loaded at startup (.json, .yaml or .yml, relative to the
# working directory; supports ~ and $VAR expansion)
# seed_file = "tasks.yaml"

# Schema overriding the embedded seed schema
# schema_file = "tasks.schema.json"

# Load the two demo tasks when no seed file is configured
load_samples = true

# Default ordering for ls and the terminal UI: due_date or completion_status
# (leave empty for insertion order)
default_sort = ""

# Logging (written to stderr)
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
