package todo

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// SortKey selects the ordering used by Registry.Sort.
type SortKey string

const (
	SortByDueDate    SortKey = "due_date"
	SortByCompletion SortKey = "completion_status"
)

// ParseSortKey returns the SortKey for s, or ErrInvalidSortKey. The match
// is exact: no trimming, no case folding.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case SortByDueDate, SortByCompletion:
		return key, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidSortKey)
	}
}

// Registry is an insertion-ordered collection of tasks keyed by id.
//
// The registry owns its tasks: Add copies the value in and every accessor
// returns copies, so callers can only change a task through registry methods.
// A Registry is not safe for concurrent use.
type Registry struct {
	order []string
	tasks map[string]*Task
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Len returns the number of tasks.
func (r *Registry) Len() int {
	return len(r.order)
}

// Add inserts task under its id. An existing task with the same id is never
// overwritten; ErrDuplicateID is returned instead.
func (r *Registry) Add(task Task) error {
	if _, ok := r.tasks[task.ID]; ok {
		return fmt.Errorf("task %q: %w", task.ID, ErrDuplicateID)
	}
	clone := task
	r.tasks[task.ID] = &clone
	r.order = append(r.order, task.ID)
	return nil
}

// Remove deletes the task with the given id.
func (r *Registry) Remove(id string) error {
	if _, ok := r.tasks[id]; !ok {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	delete(r.tasks, id)
	r.order = slices.DeleteFunc(r.order, func(key string) bool {
		return key == id
	})
	return nil
}

// Get returns a copy of the task with the given id.
func (r *Registry) Get(id string) (Task, bool) {
	task, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// Edit updates the task with the given id. Empty name or description values
// are skipped rather than written. A non-empty dueText is applied with
// Task.SetDueDate; if it is malformed the due date is kept, the other edits
// still apply, and an error wrapping ErrInvalidDueDate is returned.
func (r *Registry) Edit(id, name, description, dueText string) error {
	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	if name != "" {
		task.Name = name
	}
	if description != "" {
		task.Description = description
	}
	if dueText != "" {
		if err := task.SetDueDate(dueText); err != nil {
			return fmt.Errorf("task %q: %w", id, err)
		}
	}
	return nil
}

// MarkCompleted marks the task with the given id as completed.
func (r *Registry) MarkCompleted(id string) error {
	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	task.MarkCompleted()
	return nil
}

// MarkIncomplete marks the task with the given id as pending.
func (r *Registry) MarkIncomplete(id string) error {
	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	task.MarkIncomplete()
	return nil
}

// All yields copies of every task in insertion order. Each call to the
// returned sequence starts a fresh pass.
func (r *Registry) All() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, id := range r.order {
			if !yield(*r.tasks[id]) {
				return
			}
		}
	}
}

// List returns copies of every task in insertion order.
func (r *Registry) List() []Task {
	tasks := make([]Task, 0, len(r.order))
	for task := range r.All() {
		tasks = append(tasks, task)
	}
	return tasks
}

// Search returns the tasks whose name or description contains keyword,
// ignoring case, in insertion order. When nothing matches it returns an
// empty slice and ErrNoMatches.
func (r *Registry) Search(keyword string) ([]Task, error) {
	needle := strings.ToLower(keyword)
	found := make([]Task, 0)
	for task := range r.All() {
		if strings.Contains(strings.ToLower(task.Name), needle) ||
			strings.Contains(strings.ToLower(task.Description), needle) {
			found = append(found, task)
		}
	}
	if len(found) == 0 {
		return found, fmt.Errorf("%q: %w", keyword, ErrNoMatches)
	}
	return found, nil
}

// Sort returns a sorted copy of the tasks; the registry order is unchanged.
// by must be "due_date" or "completion_status". Tasks without a due date
// sort before dated ones, pending before completed, and ties keep insertion
// order.
func (r *Registry) Sort(by string) ([]Task, error) {
	key, err := ParseSortKey(by)
	if err != nil {
		return nil, err
	}
	tasks := r.List()
	slices.SortStableFunc(tasks, compareFunc(key))
	return tasks, nil
}

func compareFunc(key SortKey) func(a, b Task) int {
	switch key {
	case SortByCompletion:
		return compareCompletion
	default:
		return compareDueDate
	}
}

func compareDueDate(a, b Task) int {
	switch {
	case !a.HasDueDate() && !b.HasDueDate():
		return 0
	case !a.HasDueDate():
		return -1
	case !b.HasDueDate():
		return 1
	}
	return a.due.Compare(b.due)
}

func compareCompletion(a, b Task) int {
	switch {
	case a.Completed == b.Completed:
		return 0
	case !a.Completed:
		return -1
	default:
		return 1
	}
}

// Stats summarizes the registry.
type Stats struct {
	Total     int
	Pending   int
	Completed int
	Overdue   int
}

// Stats counts tasks by completion state. Overdue counts pending tasks due
// strictly before day.
func (r *Registry) Stats(day time.Time) Stats {
	var s Stats
	for task := range r.All() {
		s.Total++
		if task.Completed {
			s.Completed++
			continue
		}
		s.Pending++
		if task.IsOverdue(day) {
			s.Overdue++
		}
	}
	return s
}
