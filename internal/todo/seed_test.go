package todo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validSeedJSON = `{
  "schema_version": 1,
  "tasks": [
    {"id": "1", "name": "Buy groceries", "description": "Buy milk, bread, eggs", "due_date": "2024-12-01"},
    {"id": "2", "name": "Doctor Appointment", "due_date": "2024-12-15", "completed": true},
    {"id": "3", "name": "Someday"}
  ]
}`

const validSeedYAML = `schema_version: 1
tasks:
  - id: "1"
    name: Buy groceries
    description: Buy milk, bread, eggs
    due_date: 2024-12-01
  - id: "2"
    name: Doctor Appointment
    due_date: "2024-12-15"
    completed: true
`

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"tasks.json", FormatJSON},
		{"tasks.yaml", FormatYAML},
		{"tasks.YML", FormatYAML},
		{"tasks", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatForPath(tt.path); got != tt.want {
				t.Errorf("FormatForPath(%q): got %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseSeedJSON(t *testing.T) {
	f, err := ParseSeed([]byte(validSeedJSON), FormatJSON)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	if f.SchemaVersion != 1 {
		t.Errorf("SchemaVersion: got %d, want 1", f.SchemaVersion)
	}
	if len(f.Tasks) != 3 {
		t.Fatalf("Tasks: got %d, want 3", len(f.Tasks))
	}
	if f.Tasks[1].DueDate != "2024-12-15" || !f.Tasks[1].Completed {
		t.Errorf("Tasks[1]: got %+v", f.Tasks[1])
	}

	result := f.Validate(ValidationOptions{})
	if !result.Valid {
		t.Fatalf("Validate: got errors %v", result.Errors)
	}
	if !result.UsedSchema {
		t.Error("UsedSchema: got false, want true")
	}
}

func TestParseSeedYAML(t *testing.T) {
	f, err := ParseSeed([]byte(validSeedYAML), FormatYAML)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	if len(f.Tasks) != 2 {
		t.Fatalf("Tasks: got %d, want 2", len(f.Tasks))
	}
	if f.Tasks[0].DueDate != "2024-12-01" {
		t.Errorf("unquoted due date: got %q, want 2024-12-01", f.Tasks[0].DueDate)
	}

	result := f.Validate(ValidationOptions{})
	if !result.Valid {
		t.Fatalf("Validate: got errors %v", result.Errors)
	}
}

func TestParseSeedMalformed(t *testing.T) {
	if _, err := ParseSeed([]byte(`{"tasks": [`), FormatJSON); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := ParseSeed([]byte("tasks: [\n  - : :"), FormatYAML); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestReadSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	if err := os.WriteFile(path, []byte(validSeedYAML), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	f, err := ReadSeed(path)
	if err != nil {
		t.Fatalf("ReadSeed failed: %v", err)
	}
	if len(f.Tasks) != 2 {
		t.Errorf("Tasks: got %d, want 2", len(f.Tasks))
	}

	if _, err := ReadSeed(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateSchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{
			name:     "wrong schema version",
			input:    `{"schema_version": 2, "tasks": []}`,
			wantPath: "schema_version",
		},
		{
			name:     "missing name",
			input:    `{"schema_version": 1, "tasks": [{"id": "1"}]}`,
			wantPath: "tasks[0]",
		},
		{
			name:     "empty id",
			input:    `{"schema_version": 1, "tasks": [{"id": "", "name": "x"}]}`,
			wantPath: "tasks[0].id",
		},
		{
			name:     "slash date",
			input:    `{"schema_version": 1, "tasks": [{"id": "1", "name": "x", "due_date": "2024/05/10"}]}`,
			wantPath: "tasks[0].due_date",
		},
		{
			name:     "impossible date",
			input:    `{"schema_version": 1, "tasks": [{"id": "1", "name": "x", "due_date": "2024-02-30"}]}`,
			wantPath: "tasks[0].due_date",
		},
		{
			name:     "unknown field",
			input:    `{"schema_version": 1, "tasks": [{"id": "1", "name": "x", "priority": 1}]}`,
			wantPath: "tasks[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseSeed([]byte(tt.input), FormatJSON)
			if err != nil {
				t.Fatalf("ParseSeed failed: %v", err)
			}
			result := f.Validate(ValidationOptions{})
			if result.Valid {
				t.Fatal("expected validation to fail")
			}
			if !hasErrorPath(result.Errors, tt.wantPath) {
				t.Errorf("no error at %q, got %v", tt.wantPath, result.Errors)
			}
		})
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	input := `{"schema_version": 1, "tasks": [{"id": "1", "name": "a"}, {"id": "1", "name": "b"}]}`
	f, err := ParseSeed([]byte(input), FormatJSON)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}

	result := f.Validate(ValidationOptions{})
	if result.Valid {
		t.Fatal("expected validation to fail")
	}
	found := false
	for _, err := range result.Errors {
		if errors.Is(err, ErrDuplicateID) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrDuplicateID, got %v", result.Errors)
	}
}

func TestValidateMissingSchemaFallsBack(t *testing.T) {
	f, err := ParseSeed([]byte(validSeedJSON), FormatJSON)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}

	result := f.Validate(ValidationOptions{SchemaPath: filepath.Join(t.TempDir(), "nope.json")})
	if !result.Valid {
		t.Fatalf("Validate: got errors %v", result.Errors)
	}
	if result.UsedSchema {
		t.Error("UsedSchema: got true, want false")
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about the missing schema")
	}
}

func TestValidateMinimalCatchesBadDate(t *testing.T) {
	input := `{"schema_version": 1, "tasks": [{"id": "1", "name": "x", "due_date": "2024-5-1"}]}`
	f, err := ParseSeed([]byte(input), FormatJSON)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}

	result := f.Validate(ValidationOptions{SchemaPath: filepath.Join(t.TempDir(), "nope.json")})
	if result.Valid {
		t.Fatal("expected validation to fail")
	}
	if !hasErrorPath(result.Errors, "tasks[0].due_date") {
		t.Errorf("no due_date error, got %v", result.Errors)
	}
}

func TestValidateOverrideSchema(t *testing.T) {
	// A stricter schema that requires a description on every task.
	schema := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "tasks": {
      "type": "array",
      "items": {"type": "object", "required": ["description"]}
    }
  }
}`
	path := filepath.Join(t.TempDir(), "strict.schema.json")
	if err := os.WriteFile(path, []byte(schema), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	f, err := ParseSeed([]byte(validSeedJSON), FormatJSON)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	result := f.Validate(ValidationOptions{SchemaPath: path})
	if !result.UsedSchema {
		t.Fatalf("UsedSchema: got false, warnings %v", result.Warnings)
	}
	if result.Valid {
		t.Fatal("expected override schema to reject tasks without description")
	}
	if !hasErrorPath(result.Errors, "tasks[1]") {
		t.Errorf("no error for tasks[1], got %v", result.Errors)
	}
}

func TestApply(t *testing.T) {
	f, err := ParseSeed([]byte(validSeedJSON), FormatJSON)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}

	reg := NewRegistry()
	if err := f.Apply(reg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := ids(reg.List()); !equalIDs(got, []string{"1", "2", "3"}) {
		t.Fatalf("List: got %v, want [1 2 3]", got)
	}
	task, _ := reg.Get("2")
	if !task.Completed || task.DueDateString() != "2024-12-15" {
		t.Errorf("task 2: got %+v", task)
	}
}

func TestApplySkipsBadTasks(t *testing.T) {
	f := &SeedFile{
		SchemaVersion: SchemaVersion,
		Tasks: []SeedTask{
			{ID: "1", Name: "ok"},
			{ID: "2", Name: "bad date", DueDate: "2024-13-01"},
			{ID: "1", Name: "duplicate"},
			{ID: "3", Name: "also ok"},
		},
	}

	reg := NewRegistry()
	err := f.Apply(reg)
	if err == nil {
		t.Fatal("expected Apply to report errors")
	}
	if !errors.Is(err, ErrInvalidDueDate) {
		t.Errorf("expected ErrInvalidDueDate in %v", err)
	}
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID in %v", err)
	}
	if got := ids(reg.List()); !equalIDs(got, []string{"1", "3"}) {
		t.Errorf("List: got %v, want [1 3]", got)
	}
	task, _ := reg.Get("1")
	if task.Name != "ok" {
		t.Errorf("duplicate overwrote task 1: %+v", task)
	}
}

func TestSnapshotWrite(t *testing.T) {
	reg := NewRegistry()
	if err := SampleSeed().Apply(reg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := reg.MarkCompleted("2"); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	_ = reg.Add(Task{ID: "3", Name: "No date"})
	yearOne, _ := NewTask("4", "Year one", "", "0001-01-01")
	_ = reg.Add(yearOne)

	var buf bytes.Buffer
	if err := Snapshot(reg).Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`"schema_version": 1`,
		`"name": "Doctor Appointment"`,
		`"due_date": "2024-12-15"`,
		`"due_date": "0001-01-01"`,
		`"completed": true`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("output should end with a newline: %q", out[len(out)-3:])
	}

	// The export must load back into an identical registry.
	f, err := ParseSeed(buf.Bytes(), FormatJSON)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	if result := f.Validate(ValidationOptions{}); !result.Valid {
		t.Fatalf("exported file invalid: %v", result.Errors)
	}
	again := NewRegistry()
	if err := f.Apply(again); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want, got := reg.List(), again.List()
	if len(got) != len(want) {
		t.Fatalf("reloaded %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSampleSeed(t *testing.T) {
	reg := NewRegistry()
	if err := SampleSeed().Apply(reg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	found, err := reg.Search("doctor")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Doctor Appointment" {
		t.Errorf("Search(doctor): got %v", found)
	}
}

func hasErrorPath(errs []error, path string) bool {
	for _, err := range errs {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Path == path {
			return true
		}
	}
	return false
}

func TestPointerToPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"#", ""},
		{"/schema_version", "schema_version"},
		{"/tasks/0/due_date", "tasks[0].due_date"},
		{"#/tasks/12", "tasks[12]"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := pointerToPath(tt.input); got != tt.want {
				t.Errorf("pointerToPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
