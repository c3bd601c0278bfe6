// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tasksched/tasksched.toml or OS-specific config directory)
// 3. Project config file (tasksched.toml or .tasksched.toml in the working directory)
// 4. Environment variables (TASKSCHED_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tasksched/tasksched.toml (preferred)
// - Windows: %APPDATA%\tasksched\tasksched.toml
// - macOS: ~/Library/Application Support/tasksched/tasksched.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tasksched/tasksched.toml or ~/.config/tasksched/tasksched.toml
//
// Project-level config locations (overrides user config):
// - ./tasksched.toml (preferred)
// - ./.tasksched.toml
package config
