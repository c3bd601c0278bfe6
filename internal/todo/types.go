package todo

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the only accepted due date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Labels used when rendering a task.
const (
	NoDueDateLabel = "No due date"
	CompletedLabel = "Completed"
	PendingLabel   = "Pending"
)

var (
	// ErrNotFound is returned when an operation names an id the registry does not hold.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicateID is returned by Add when the id is already taken.
	ErrDuplicateID = errors.New("task with this id already exists")
	// ErrInvalidDueDate is returned when due date text is not a valid YYYY-MM-DD date.
	ErrInvalidDueDate = errors.New("invalid date format, use YYYY-MM-DD")
	// ErrInvalidSortKey is returned by Sort for keys other than due_date and completion_status.
	ErrInvalidSortKey = errors.New("invalid sorting option")
	// ErrNoMatches is returned by Search when nothing matched. It is informational.
	ErrNoMatches = errors.New("no matching tasks found")
)

// Task represents a single to-do item.
type Task struct {
	ID          string
	Name        string
	Description string
	Completed   bool

	// due is the due date at midnight UTC, meaningful only when hasDue is
	// set. 0001-01-01 is a valid date and parses to the zero time.
	due    time.Time
	hasDue bool
}

// NewTask creates a pending task. A non-empty dueText is parsed right away;
// when it is malformed the task is still returned, without a due date, along
// with an error wrapping ErrInvalidDueDate.
func NewTask(id, name, description, dueText string) (Task, error) {
	t := Task{
		ID:          id,
		Name:        name,
		Description: description,
	}
	if dueText == "" {
		return t, nil
	}
	if err := t.SetDueDate(dueText); err != nil {
		return t, err
	}
	return t, nil
}

// ParseDueDate parses text in the strict YYYY-MM-DD form. Year 0000 is
// rejected.
func ParseDueDate(text string) (time.Time, error) {
	d, err := time.Parse(DateLayout, text)
	if err != nil || d.Year() < 1 {
		return time.Time{}, fmt.Errorf("%q: %w", text, ErrInvalidDueDate)
	}
	return d, nil
}

// SetDueDate parses text and stores it as the due date. On error the
// existing due date is left untouched.
func (t *Task) SetDueDate(text string) error {
	d, err := ParseDueDate(text)
	if err != nil {
		return err
	}
	t.due, t.hasDue = d, true
	return nil
}

// HasDueDate reports whether a due date is set.
func (t Task) HasDueDate() bool {
	return t.hasDue
}

// DueDate returns the due date and whether one is set.
func (t Task) DueDate() (time.Time, bool) {
	return t.due, t.hasDue
}

// DueDateString returns the due date as YYYY-MM-DD, or "" when unset.
func (t Task) DueDateString() string {
	if !t.HasDueDate() {
		return ""
	}
	return t.due.Format(DateLayout)
}

// MarkCompleted sets the task as completed.
func (t *Task) MarkCompleted() {
	t.Completed = true
}

// MarkIncomplete sets the task back to pending.
func (t *Task) MarkIncomplete() {
	t.Completed = false
}

// StatusLabel returns "Completed" or "Pending".
func (t Task) StatusLabel() string {
	if t.Completed {
		return CompletedLabel
	}
	return PendingLabel
}

// String renders the task as "id: name - due (status)".
func (t Task) String() string {
	due := NoDueDateLabel
	if t.HasDueDate() {
		due = t.DueDateString()
	}
	return fmt.Sprintf("%s: %s - %s (%s)", t.ID, t.Name, due, t.StatusLabel())
}

// IsOverdue reports whether a pending task was due strictly before day.
func (t Task) IsOverdue(day time.Time) bool {
	if t.Completed || !t.HasDueDate() {
		return false
	}
	y, m, d := day.Date()
	return t.due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
