// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasksched/internal/logging"
	"github.com/nibzard/tasksched/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithLogger sets the logger used to record operations.
func WithLogger(logger *log.Logger) TUIOption {
	return func(m *tuiModel) {
		m.logger = logger
	}
}

// WithSort sets the ordering shown on start (due_date or completion_status).
// An empty key keeps insertion order.
func WithSort(key string) TUIOption {
	return func(m *tuiModel) {
		m.order = key
	}
}

// WithIO sets the streams the program reads keys from and renders to.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(m *tuiModel) {
		m.in = in
		m.out = out
	}
}

// WithClock sets the clock used for overdue counts.
func WithClock(now func() time.Time) TUIOption {
	return func(m *tuiModel) {
		m.now = now
	}
}

// RunTUI starts the TUI over reg. Output must be a terminal.
func RunTUI(ctx context.Context, reg *todo.Registry, opts ...TUIOption) error {
	model := newTUIModel(reg, opts...)
	if !IsTTY(model.out) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(model.in),
		tea.WithOutput(model.out),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle     = lipgloss.NewStyle().Faint(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type tuiModel struct {
	reg    *todo.Registry
	logger *log.Logger
	now    func() time.Time
	in     io.Reader
	out    io.Writer

	order     string // sort key, empty for insertion order
	query     string // active search, empty for none
	searching bool   // typing a search query
	input     string
	tasks     []todo.Task
	cursor    int
	message   string
	showHelp  bool
}

func newTUIModel(reg *todo.Registry, opts ...TUIOption) *tuiModel {
	m := &tuiModel{
		reg:    reg,
		logger: logging.Discard(),
		now:    time.Now,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.searching {
		return m.updateSearch(key)
	}

	m.message = ""
	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "d":
		m.setOrder(string(todo.SortByDueDate))
	case "c":
		m.setOrder(string(todo.SortByCompletion))
	case "0":
		m.order = ""
		m.query = ""
		m.refresh()
	case "/":
		m.searching = true
		m.input = m.query
	case "x", " ":
		m.toggleSelected()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.input = ""
	case tea.KeyEnter:
		m.searching = false
		m.query = m.input
		m.input = ""
		m.cursor = 0
		m.refresh()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m, nil
}

func (m *tuiModel) setOrder(key string) {
	if _, err := todo.ParseSortKey(key); err != nil {
		m.message = err.Error()
		return
	}
	m.order = key
	m.refresh()
}

func (m *tuiModel) toggleSelected() {
	task, ok := m.selected()
	if !ok {
		return
	}
	op, mark := "mark_completed", m.reg.MarkCompleted
	if task.Completed {
		op, mark = "mark_incomplete", m.reg.MarkIncomplete
	}
	err := mark(task.ID)
	logging.Record(m.logger, logging.Event{Op: op, TaskID: task.ID, Err: err})
	if err != nil {
		m.message = err.Error()
	}
	m.refresh()
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// refresh rebuilds the visible list from the registry: the current ordering,
// narrowed to the active search.
func (m *tuiModel) refresh() {
	tasks := m.reg.List()
	if m.order != "" {
		sorted, err := m.reg.Sort(m.order)
		logging.Record(m.logger, logging.Event{Op: "sort", Err: err, Fields: []any{"by", m.order}})
		if err != nil {
			m.message = err.Error()
			m.order = ""
		} else {
			tasks = sorted
		}
	}

	if m.query != "" {
		found, err := m.reg.Search(m.query)
		logging.Record(m.logger, logging.Event{Op: "search", Err: err, Fields: []any{"keyword", m.query, "matches", len(found)}})
		if errors.Is(err, todo.ErrNoMatches) {
			m.message = "No matching tasks found."
		}
		keep := make(map[string]bool, len(found))
		for _, task := range found {
			keep[task.ID] = true
		}
		filtered := tasks[:0]
		for _, task := range tasks {
			if keep[task.ID] {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}

	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	writeStats(&b, m.reg.Stats(m.now()))
	m.writeFilters(&b)
	m.writeTasks(&b)

	if m.searching {
		b.WriteString(fmt.Sprintf("Search: %s_\n\n", m.input))
	}
	if m.message != "" {
		b.WriteString(messageStyle.Render(m.message) + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	title := "Task Scheduler"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeStats(b *strings.Builder, s todo.Stats) {
	b.WriteString(fmt.Sprintf("  Total: %d  Pending: %d  Completed: %d  Overdue: %d\n\n",
		s.Total, s.Pending, s.Completed, s.Overdue))
}

func (m *tuiModel) writeFilters(b *strings.Builder) {
	order := "insertion"
	if m.order != "" {
		order = m.order
	}
	b.WriteString(fmt.Sprintf("Order: %s", order))
	if m.query != "" {
		b.WriteString(fmt.Sprintf("  Search: %q (0 to clear)", m.query))
	}
	b.WriteString("\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	today := m.now()
	for i, task := range m.tasks {
		line := task.String()
		switch {
		case task.Completed:
			line = doneStyle.Render(line)
		case task.IsOverdue(today):
			line = overdueStyle.Render(line + " overdue")
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> ") + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up/k, down/j Move selection\n")
	b.WriteString("  x, space     Toggle completion of the selected task\n")
	b.WriteString("  d            Sort by due date\n")
	b.WriteString("  c            Sort by completion status\n")
	b.WriteString("  /            Search name and description\n")
	b.WriteString("  0            Insertion order, clear search\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press h for help | q to quit\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
