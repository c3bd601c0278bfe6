// Package cmd implements the CLI command structure for tasksched.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasksched/internal/config"
	"github.com/nibzard/tasksched/internal/logging"
	"github.com/nibzard/tasksched/internal/menu"
	"github.com/nibzard/tasksched/internal/todo"
	"github.com/nibzard/tasksched/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams holds the standard streams a command reads and writes.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// app carries what every subcommand needs.
type app struct {
	streams
	cws    *config.ConfigWithSources
	cfg    *config.Config
	logger *log.Logger
	now    func() time.Time
}

// Run executes the tasksched CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasksched", flag.ContinueOnError)
	fs.SetOutput(s.err)
	fs.Usage = func() {
		printUsage(fs, s.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		return versionCommand(s.out)
	}

	cfg := cws.Config
	a := &app{
		streams: s,
		cws:     cws,
		cfg:     cfg,
		logger:  logging.NewFromConfig(s.err, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
		now:     time.Now,
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "menu" as default
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "menu":
		return a.menuCommand(ctx, remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "ls":
		return a.lsCommand(remainingArgs)
	case "search":
		return a.searchCommand(remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "validate":
		return a.validateCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand(s.out)
	case "help":
		printUsage(fs, s.out)
		return nil
	default:
		fmt.Fprintf(s.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// loadRegistry builds the registry the commands work on: the configured seed
// file if any, otherwise the demo tasks when enabled.
func (a *app) loadRegistry() (*todo.Registry, error) {
	reg := todo.NewRegistry()

	if a.cfg.SeedFile == "" {
		if a.cfg.LoadSamples {
			if err := todo.SampleSeed().Apply(reg); err != nil {
				return nil, fmt.Errorf("loading sample tasks: %w", err)
			}
			a.logger.Debug("loaded sample tasks", "tasks", reg.Len())
		}
		return reg, nil
	}

	seed, err := todo.ReadSeed(a.cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	result := seed.Validate(todo.ValidationOptions{SchemaPath: a.cfg.SchemaFile})
	for _, warning := range result.Warnings {
		a.logger.Warn(warning, "path", a.cfg.SchemaFile)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid seed file %s: %w", a.cfg.SeedFile, errors.Join(result.Errors...))
	}
	if err := seed.Apply(reg); err != nil {
		return nil, fmt.Errorf("applying seed file %s: %w", a.cfg.SeedFile, err)
	}
	a.logger.Debug("loaded seed file", "path", a.cfg.SeedFile, "tasks", reg.Len())
	return reg, nil
}

// menuCommand runs the numbered menu on stdin/stdout.
func (a *app) menuCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasksched menu", flag.ContinueOnError)
	fs.SetOutput(a.err)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	return menu.New(reg, a.in, a.out, menu.WithLogger(a.logger)).Run(ctx)
}

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasksched tui", flag.ContinueOnError)
	fs.SetOutput(a.err)
	sortKey := fs.String("sort", a.cfg.DefaultSort, "Initial ordering (due_date|completion_status)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *sortKey != "" {
		if _, err := todo.ParseSortKey(*sortKey); err != nil {
			return err
		}
	}

	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, reg,
		ui.WithIO(a.in, a.out),
		ui.WithLogger(a.logger),
		ui.WithSort(*sortKey),
	)
}

// lsCommand lists tasks in insertion order or sorted.
func (a *app) lsCommand(args []string) error {
	fs := flag.NewFlagSet("tasksched ls", flag.ContinueOnError)
	fs.SetOutput(a.err)
	sortKey := fs.String("sort", a.cfg.DefaultSort, "Sort by (due_date|completion_status)")
	verbose := fs.Bool("v", false, "Show descriptions and counts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}

	tasks := reg.List()
	if *sortKey != "" {
		tasks, err = reg.Sort(*sortKey)
		logging.Record(a.logger, logging.Event{Op: "sort", Err: err, Fields: []any{"by", *sortKey}})
		if err != nil {
			return err
		}
	}

	if *verbose {
		s := reg.Stats(a.now())
		fmt.Fprintf(a.out, "Total: %d  Pending: %d  Completed: %d  Overdue: %d\n\n",
			s.Total, s.Pending, s.Completed, s.Overdue)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks.")
		return nil
	}
	printTaskList(a.out, tasks, *verbose)
	return nil
}

// searchCommand prints the tasks matching a keyword.
func (a *app) searchCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("search requires a keyword")
	}
	keyword := strings.Join(args, " ")

	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	found, err := reg.Search(keyword)
	logging.Record(a.logger, logging.Event{Op: "search", Err: err, Fields: []any{"keyword", keyword, "matches", len(found)}})
	if errors.Is(err, todo.ErrNoMatches) {
		fmt.Fprintln(a.out, "No matching tasks found.")
		return nil
	}
	printTaskList(a.out, found, false)
	return nil
}

// exportCommand prints the registry as a seed file.
func (a *app) exportCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	return todo.Export(reg, a.out)
}

// validateCommand validates a seed file against the schema.
func (a *app) validateCommand(args []string) error {
	fs := flag.NewFlagSet("tasksched validate", flag.ContinueOnError)
	fs.SetOutput(a.err)
	schemaPath := fs.String("schema", a.cfg.SchemaFile, "Schema file overriding the embedded schema")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	path := a.cfg.SeedFile
	if len(remaining) == 1 {
		path = remaining[0]
	}
	if path == "" {
		return fmt.Errorf("no seed file given (pass a path or set seed_file)")
	}

	seed, err := todo.ReadSeed(path)
	if err != nil {
		return err
	}
	result := seed.Validate(todo.ValidationOptions{SchemaPath: *schemaPath})

	for _, warning := range result.Warnings {
		fmt.Fprintf(a.out, "warning: %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintf(a.out, "%s is invalid:\n", path)
		for _, err := range result.Errors {
			fmt.Fprintf(a.out, "  - %v\n", err)
		}
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}
	fmt.Fprintf(a.out, "%s is valid (%d tasks)\n", path, len(seed.Tasks))
	return nil
}

// configCommand prints an example config, or the effective one with -show.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("tasksched config", flag.ContinueOnError)
	fs.SetOutput(a.err)
	show := fs.Bool("show", false, "Show the effective configuration and where each value came from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*show {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}

	cfg := a.cfg
	values := map[string]string{
		"seed_file":      cfg.SeedFile,
		"schema_file":    cfg.SchemaFile,
		"load_samples":   fmt.Sprint(cfg.LoadSamples),
		"default_sort":   cfg.DefaultSort,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": fmt.Sprint(cfg.LogTimestamps),
		"log_caller":     fmt.Sprint(cfg.LogCaller),
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(a.out, "Config file: %s\n\n", file)
	}
	for _, key := range keys {
		fmt.Fprintf(a.out, "%-15s = %-30q (%s)\n", key, values[key], a.cws.Sources[key])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasksched version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasksched - An in-memory task scheduler")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasksched [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu               Numbered task menu on stdin/stdout (default command)")
	fmt.Fprintln(w, "  tui                Launch terminal UI")
	fmt.Fprintln(w, "  ls                 List tasks")
	fmt.Fprintln(w, "  search <keyword>   Search task names and descriptions")
	fmt.Fprintln(w, "  export             Print tasks as a seed file")
	fmt.Fprintln(w, "  validate [file]    Validate a seed file")
	fmt.Fprintln(w, "  config             Print an example config file")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -sort string")
	fmt.Fprintln(w, "        Sort by (due_date|completion_status)")
	fmt.Fprintln(w, "  -v    Show descriptions and counts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tui Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -sort string")
	fmt.Fprintln(w, "        Initial ordering (due_date|completion_status)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate Options (use with 'validate' command):")
	fmt.Fprintln(w, "  -schema string")
	fmt.Fprintln(w, "        Schema file overriding the embedded schema")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -show")
	fmt.Fprintln(w, "        Show the effective configuration and where each value came from")
}

// printTaskList prints one task per line.
func printTaskList(w io.Writer, tasks []todo.Task, verbose bool) {
	for _, task := range tasks {
		fmt.Fprintln(w, task)
		if verbose && task.Description != "" {
			fmt.Fprintf(w, "    %s\n", task.Description)
		}
	}
}
