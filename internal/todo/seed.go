package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only seed file version understood.
const SchemaVersion = 1

const embeddedSchemaURL = "https://github.com/nibzard/tasksched/tasks.schema.json"

//go:embed tasks.schema.json
var embeddedSchema []byte

// Format is the encoding of a seed file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the seed format from the file extension. Anything
// other than .yaml or .yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SeedTask is one task as written in a seed file.
type SeedTask struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// SeedFile is the seed file structure.
type SeedFile struct {
	SchemaVersion int        `json:"schema_version" yaml:"schema_version"`
	Tasks         []SeedTask `json:"tasks" yaml:"tasks"`

	// raw is the document as decoded, before struct mapping, so schema
	// validation sees fields the struct would drop.
	raw any
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the offending value
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath overrides the embedded schema. If the file cannot be used,
	// validation falls back to minimal checks and records a warning.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// ReadSeed reads and decodes a seed file from path.
func ReadSeed(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data, FormatForPath(path))
}

// ParseSeed decodes seed file content in the given format.
func ParseSeed(data []byte, format Format) (*SeedFile, error) {
	var (
		f   SeedFile
		raw any
	)
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse seed file: %w", err)
		}
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse seed file: %w", err)
		}
		// Route the YAML document through JSON so the schema sees JSON types.
		normalized, err := toJSONValue(raw)
		if err != nil {
			return nil, fmt.Errorf("parse seed file: %w", err)
		}
		raw = normalized
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse seed file: %w", err)
		}
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse seed file: %w", err)
		}
	}
	f.raw = raw
	return &f, nil
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks the seed file against the JSON Schema and, when no schema
// is usable, against a minimal set of structural rules.
func (f *SeedFile) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, warning := compileSchema(opts.SchemaPath)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	if schema == nil {
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		f.validateMinimal(result)
		return result
	}

	result.UsedSchema = true
	doc, err := f.document()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to prepare seed file for validation: %w", err),
		})
		return result
	}
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	// The schema cannot see duplicate ids.
	f.validateUniqueIDs(result)
	return result
}

func (f *SeedFile) document() (any, error) {
	if f.raw != nil {
		return f.raw, nil
	}
	return toJSONValue(f)
}

// compileSchema compiles the override schema at path, or the embedded one
// when path is empty. A nil schema with a warning means the override could
// not be used.
func compileSchema(path string) (*jsonschema.Schema, string) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if path == "" {
		if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		schema, err := compiler.Compile(embeddedSchemaURL)
		if err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		return schema, ""
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Sprintf("schema file not found: %s", absPath)
		}
		return nil, fmt.Sprintf("failed to read schema file: %v", err)
	}
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema file: %v", err)
	}
	return schema, ""
}

// validateMinimal performs minimal validation without JSON Schema.
func (f *SeedFile) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != SchemaVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, f.SchemaVersion),
		})
	}

	if f.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	for i, task := range f.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateSeedTask(task, path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
	f.validateUniqueIDs(result)
}

func validateSeedTask(task SeedTask, path string) *ValidationError {
	if task.ID == "" {
		return &ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")}
	}
	if task.Name == "" {
		return &ValidationError{Path: path + ".name", Err: fmt.Errorf("missing required field")}
	}
	if task.DueDate != "" {
		if _, err := ParseDueDate(task.DueDate); err != nil {
			return &ValidationError{Path: path + ".due_date", Err: err}
		}
	}
	return nil
}

func (f *SeedFile) validateUniqueIDs(result *ValidationResult) {
	seen := make(map[string]int, len(f.Tasks))
	for i, task := range f.Tasks {
		if first, ok := seen[task.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].id", i),
				Err:  fmt.Errorf("%q already used by tasks[%d]: %w", task.ID, first, ErrDuplicateID),
			})
			continue
		}
		seen[task.ID] = i
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: pointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// pointerToPath turns a JSON Pointer such as "/tasks/0/due_date" into the
// dotted form "tasks[0].due_date" used in ValidationError paths.
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part == "" {
			continue
		}
		part = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// Apply adds every seed task to reg in file order. Tasks that fail (bad due
// date, duplicate id) are skipped; their errors are joined and returned.
func (f *SeedFile) Apply(reg *Registry) error {
	var errs []error
	for i, st := range f.Tasks {
		task, err := NewTask(st.ID, st.Name, st.Description, st.DueDate)
		if err != nil {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("tasks[%d].due_date", i), Err: err})
			continue
		}
		task.Completed = st.Completed
		if err := reg.Add(task); err != nil {
			errs = append(errs, &ValidationError{Path: fmt.Sprintf("tasks[%d].id", i), Err: err})
		}
	}
	return errors.Join(errs...)
}

// Snapshot captures the registry as a seed file, in registry order.
func Snapshot(reg *Registry) *SeedFile {
	f := &SeedFile{
		SchemaVersion: SchemaVersion,
		Tasks:         make([]SeedTask, 0, reg.Len()),
	}
	for task := range reg.All() {
		f.Tasks = append(f.Tasks, SeedTask{
			ID:          task.ID,
			Name:        task.Name,
			Description: task.Description,
			DueDate:     task.DueDateString(),
			Completed:   task.Completed,
		})
	}
	return f
}

// Write encodes the seed file as JSON with 2-space indentation and a
// trailing newline.
func (f *SeedFile) Write(w io.Writer) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seed file: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	return nil
}

// SampleSeed returns the two demo tasks the tool has always started with.
func SampleSeed() *SeedFile {
	return &SeedFile{
		SchemaVersion: SchemaVersion,
		Tasks: []SeedTask{
			{ID: "1", Name: "Buy groceries", Description: "Buy milk, bread, eggs", DueDate: "2024-12-01"},
			{ID: "2", Name: "Doctor Appointment", Description: "Annual check-up", DueDate: "2024-12-15"},
		},
	}
}

// Export writes reg to w in seed file format.
func Export(reg *Registry, w io.Writer) error {
	return Snapshot(reg).Write(w)
}
