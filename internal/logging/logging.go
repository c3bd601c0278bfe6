// Package logging provides console logging with charmbracelet/log.
package logging

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasksched/internal/todo"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	ReportCaller    bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
		Prefix:    "tasksched",
	}
}

// New creates a logger writing to w. A nil w writes to stderr so logs never
// mix with command output on stdout.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    opts.ReportCaller,
		Prefix:          opts.Prefix,
	})
}

// NewFromConfig creates a logger from string configuration values.
// This is useful when loading config from TOML or environment variables.
func NewFromConfig(w io.Writer, level, format string, timestamps, caller bool) *log.Logger {
	opts := DefaultOptions()
	opts.Level = ParseLogLevel(level)
	opts.Formatter = ParseLogFormatter(format)
	opts.ReportTimestamp = timestamps
	opts.ReportCaller = caller
	return New(w, opts)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Event is one registry operation performed on behalf of a user.
type Event struct {
	Op     string // add, remove, edit, search, sort, ...
	TaskID string
	Err    error
	Fields []any
}

// Record logs ev. Successful operations go to debug. Rejections caused by
// user input (unknown id, duplicate id, bad date, bad sort key, no matches)
// go to warn; anything else is an error.
func Record(logger *log.Logger, ev Event) {
	if logger == nil {
		return
	}
	fields := eventFields(ev)
	switch {
	case ev.Err == nil:
		logger.Debug(ev.Op, fields...)
	case isRejection(ev.Err):
		logger.Warn(ev.Op, fields...)
	default:
		logger.Error(ev.Op, fields...)
	}
}

func eventFields(ev Event) []any {
	var fields []any
	if ev.TaskID != "" {
		fields = append(fields, "task_id", ev.TaskID)
	}
	fields = append(fields, ev.Fields...)
	if ev.Err != nil {
		fields = append(fields, "err", ev.Err)
	}
	return fields
}

func isRejection(err error) bool {
	return errors.Is(err, todo.ErrNotFound) ||
		errors.Is(err, todo.ErrDuplicateID) ||
		errors.Is(err, todo.ErrInvalidDueDate) ||
		errors.Is(err, todo.ErrInvalidSortKey) ||
		errors.Is(err, todo.ErrNoMatches)
}
