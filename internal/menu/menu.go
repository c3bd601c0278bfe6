// Package menu runs the numbered, line-oriented task menu.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/tasksched/internal/logging"
	"github.com/nibzard/tasksched/internal/todo"
)

// Menu choices.
const (
	ChoiceAdd            = "1"
	ChoiceRemove         = "2"
	ChoiceEdit           = "3"
	ChoiceList           = "4"
	ChoiceSearch         = "5"
	ChoiceMarkIncomplete = "6"
	ChoiceSort           = "7"
	ChoiceExit           = "8"
)

// User-facing messages.
const (
	MsgDuplicateID   = "Task with this ID already exists."
	MsgNotFound      = "Task not found."
	MsgNoMatches     = "No matching tasks found."
	MsgInvalidSort   = "Invalid sorting option."
	MsgInvalidDate   = "Invalid date format. Please use YYYY-MM-DD."
	MsgInvalidChoice = "Invalid choice. Please choose a valid option."
)

const header = `
Task Scheduler Menu
1. Add Task
2. Remove Task
3. Edit Task
4. List All Tasks
5. Search Task
6. Mark Task as Incomplete
7. Sort Tasks
8. Exit
`

// Session drives a registry from a line reader.
type Session struct {
	reg    *todo.Registry
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger
	newID  func() string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to record operations.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithIDGenerator sets the function that supplies an id when the user
// leaves it blank on add.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		s.newID = fn
	}
}

// New returns a session reading choices from in and writing to out.
func New(reg *todo.Registry, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		reg:    reg,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logging.Discard(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the menu until the user exits, input ends, or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(s.out, header)
		choice, err := s.prompt("Enter choice: ")
		if err != nil {
			return endOfInput(err)
		}

		switch strings.TrimSpace(choice) {
		case ChoiceAdd:
			err = s.add()
		case ChoiceRemove:
			err = s.remove()
		case ChoiceEdit:
			err = s.edit()
		case ChoiceList:
			s.printTasks(s.reg.List())
		case ChoiceSearch:
			err = s.search()
		case ChoiceMarkIncomplete:
			err = s.markIncomplete()
		case ChoiceSort:
			err = s.sort()
		case ChoiceExit:
			return nil
		default:
			fmt.Fprintln(s.out, MsgInvalidChoice)
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

// endOfInput turns io.EOF into a clean exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// prompt writes label and returns the next line without its line ending.
// A final line without a newline is returned as is; io.EOF is reported only
// when nothing was left to read.
func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Session) add() error {
	id, err := s.prompt("Enter task ID: ")
	if err != nil {
		return err
	}
	name, err := s.prompt("Enter task name: ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter task description: ")
	if err != nil {
		return err
	}
	due, err := s.prompt("Enter due date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	// Ids and dates are taken as typed; only a blank id is replaced.
	if id == "" {
		id = s.newID()
		fmt.Fprintf(s.out, "Generated task ID: %s\n", id)
	}

	// A bad date is reported but the task is still added without one.
	task, dueErr := todo.NewTask(id, name, description, due)
	if dueErr != nil {
		s.report("add", id, dueErr)
	}
	s.report("add", id, s.reg.Add(task))
	return nil
}

func (s *Session) remove() error {
	id, err := s.prompt("Enter task ID to remove: ")
	if err != nil {
		return err
	}
	s.report("remove", id, s.reg.Remove(id))
	return nil
}

func (s *Session) edit() error {
	id, err := s.prompt("Enter task ID to edit: ")
	if err != nil {
		return err
	}
	name, err := s.prompt("Enter new task name (press enter to skip): ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter new task description (press enter to skip): ")
	if err != nil {
		return err
	}
	due, err := s.prompt("Enter new due date (YYYY-MM-DD, press enter to skip): ")
	if err != nil {
		return err
	}
	s.report("edit", id, s.reg.Edit(id, name, description, due))
	return nil
}

func (s *Session) search() error {
	keyword, err := s.prompt("Enter keyword to search: ")
	if err != nil {
		return err
	}
	found, err := s.reg.Search(keyword)
	logging.Record(s.logger, logging.Event{Op: "search", Err: err, Fields: []any{"keyword", keyword, "matches", len(found)}})
	if err != nil {
		fmt.Fprintln(s.out, message(err))
		return nil
	}
	s.printTasks(found)
	return nil
}

func (s *Session) markIncomplete() error {
	id, err := s.prompt("Enter task ID to mark as incomplete: ")
	if err != nil {
		return err
	}
	s.report("mark_incomplete", id, s.reg.MarkIncomplete(id))
	return nil
}

func (s *Session) sort() error {
	by, err := s.prompt("Sort by (due_date/completion_status): ")
	if err != nil {
		return err
	}
	sorted, err := s.reg.Sort(by)
	logging.Record(s.logger, logging.Event{Op: "sort", Err: err, Fields: []any{"by", by}})
	if err != nil {
		fmt.Fprintln(s.out, message(err))
		return nil
	}
	s.printTasks(sorted)
	return nil
}

// report logs the outcome of an operation and shows the user any failure.
func (s *Session) report(op, id string, err error) {
	logging.Record(s.logger, logging.Event{Op: op, TaskID: id, Err: err})
	if err != nil {
		fmt.Fprintln(s.out, message(err))
	}
}

func (s *Session) printTasks(tasks []todo.Task) {
	for _, task := range tasks {
		fmt.Fprintln(s.out, task)
	}
}

// message maps a registry error to the text shown to the user.
func message(err error) string {
	switch {
	case errors.Is(err, todo.ErrDuplicateID):
		return MsgDuplicateID
	case errors.Is(err, todo.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, todo.ErrNoMatches):
		return MsgNoMatches
	case errors.Is(err, todo.ErrInvalidSortKey):
		return MsgInvalidSort
	case errors.Is(err, todo.ErrInvalidDueDate):
		return MsgInvalidDate
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
