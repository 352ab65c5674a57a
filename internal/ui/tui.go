// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/tasklist"
	"github.com/nibzard/tasklist/internal/todo"
)

const (
	inputPlaceholder = "Enter a task"
	alertLabel       = "Task text is required"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	watch  bool
	output io.Writer
}

// WithWatch enables reloading when the store changes on disk.
func WithWatch(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.watch = enabled
	}
}

// WithOutput sets the terminal the TUI draws to. Defaults to stdout.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// RunTUI runs the task list TUI on an open session until the user quits or
// ctx is cancelled.
func RunTUI(ctx context.Context, s *tasklist.Session, opts ...TUIOption) error {
	c := &tuiConfig{output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(c.output) {
		return fmt.Errorf("tui requires a TTY")
	}

	var changes <-chan struct{}
	if c.watch {
		ch, err := s.Watch(ctx)
		switch {
		case err == nil:
			changes = ch
		case errors.Is(err, storage.ErrWatchUnsupported):
		default:
			return fmt.Errorf("watch store: %w", err)
		}
	}

	model := newTUIModel(s.Container, changes)
	if err := s.Container.Recovered(); err != nil {
		model.setError("Stored tasks were unreadable; started empty (backup kept)")
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(c.output))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type tuiModel struct {
	tasks     *tasklist.Container
	input     textinput.Model
	edit      textinput.Model
	focus     focus
	cursor    int // index into rows()
	status    string
	statusErr bool
	showHelp  bool
	changes   <-chan struct{}
	width     int
}

// alertExpiredMsg ends the validation alert raised with token.
type alertExpiredMsg struct {
	token uint64
}

// storeChangedMsg reports that the store changed on disk.
type storeChangedMsg struct{}

// watchClosedMsg reports that the change channel was closed.
type watchClosedMsg struct{}

func newTUIModel(tasks *tasklist.Container, changes <-chan struct{}) *tuiModel {
	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Prompt = "> "
	input.CharLimit = 512
	input.Width = 48
	input.SetValue(tasks.Input())
	input.Focus()

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 512
	edit.Width = 48

	return &tuiModel{
		tasks:   tasks,
		input:   input,
		edit:    edit,
		focus:   focusInput,
		changes: changes,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if _, editing := m.tasks.Editing(); editing {
			return m.updateEditing(msg)
		}
		if m.showHelp {
			return m.updateHelp(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 12; w > 10 {
			m.input.Width = w
			m.edit.Width = w
		}
		return m, nil
	case alertExpiredMsg:
		m.tasks.Alert().Expire(msg.token)
		return m, nil
	case storeChangedMsg:
		m.reload("Reloaded after external change")
		return m, waitForChange(m.changes)
	case watchClosedMsg:
		m.changes = nil
		return m, nil
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	if _, editing := m.tasks.Editing(); editing {
		m.edit, cmd = m.edit.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.tasks.SetInput(m.input.Value())
		task, err := m.tasks.Submit()
		if errors.Is(err, todo.ErrEmptyText) {
			return m, alertExpiry(m.tasks.Alert())
		}
		m.input.SetValue(m.tasks.Input())
		if err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Added %q", task.Text))
		return m, nil
	case "tab", "esc":
		m.focusList()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.tasks.SetInput(m.input.Value())
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "a", "i":
		return m, m.focusInput()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case " ", "x":
		if task, ok := m.selected(); ok {
			if _, err := m.tasks.Toggle(task.ID); err != nil {
				m.setError(err.Error())
			} else if task.Done {
				m.setStatus(fmt.Sprintf("Reopened %q", task.Text))
			} else {
				m.setStatus(fmt.Sprintf("Completed %q", task.Text))
			}
			m.selectID(task.ID)
		}
	case "d", "delete":
		if task, ok := m.selected(); ok {
			if _, err := m.tasks.Delete(task.ID); err != nil {
				m.setError(err.Error())
			} else {
				m.setStatus(fmt.Sprintf("Deleted %q", task.Text))
			}
			m.clampCursor()
		}
	case "enter", "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if task.Done {
			m.setStatus("Completed tasks cannot be edited")
			return m, nil
		}
		return m, m.beginEdit(task.ID)
	case "r":
		m.reload("Reloaded")
	case "?", "h":
		m.showHelp = true
	}
	return m, nil
}

func (m *tuiModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.tasks.SetEditBuffer(m.edit.Value())
		id, _ := m.tasks.Editing()
		if _, err := m.tasks.CommitBuffer(); err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus("Task updated")
		}
		m.edit.Blur()
		m.selectID(id)
		return m, nil
	case "esc":
		m.tasks.CancelEdit()
		m.edit.Blur()
		m.setStatus("Edit cancelled")
		return m, nil
	case "up", "down":
		// Switching rows drops the pending text.
		active := m.tasks.Active()
		id, _ := m.tasks.Editing()
		i := indexOf(active, id)
		if msg.String() == "up" {
			i--
		} else {
			i++
		}
		if i < 0 || i >= len(active) {
			return m, nil
		}
		return m, m.beginEdit(active[i].ID)
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.tasks.SetEditBuffer(m.edit.Value())
	return m, cmd
}

func (m *tuiModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}
	m.showHelp = false
	return m, nil
}

func (m *tuiModel) beginEdit(id int64) tea.Cmd {
	if !m.tasks.BeginEdit(id) {
		return nil
	}
	m.selectID(id)
	m.edit.SetValue(m.tasks.EditBuffer())
	m.edit.CursorEnd()
	return m.edit.Focus()
}

func (m *tuiModel) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *tuiModel) focusList() {
	m.focus = focusList
	m.input.Blur()
	m.clampCursor()
}

func (m *tuiModel) reload(done string) {
	changed, err := m.tasks.Reload()
	switch {
	case err != nil:
		m.setError(err.Error())
	case m.tasks.Recovered() != nil:
		m.setError("Stored tasks were unreadable; started empty (backup kept)")
	case changed:
		m.setStatus(done)
	}
	if _, editing := m.tasks.Editing(); !editing {
		m.edit.Blur()
	}
	m.clampCursor()
}

// rows returns the tasks in display order: active, then completed.
func (m *tuiModel) rows() []todo.Task {
	active, completed := m.tasks.Active(), m.tasks.Completed()
	return append(active, completed...)
}

func (m *tuiModel) selected() (todo.Task, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return todo.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *tuiModel) selectID(id int64) {
	if i := indexOf(m.rows(), id); i >= 0 {
		m.cursor = i
	}
	m.clampCursor()
}

func (m *tuiModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *tuiModel) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.focus)
		return b.String()
	}

	m.writeInput(&b)

	active, completed := m.tasks.Active(), m.tasks.Completed()
	if len(active) == 0 && len(completed) == 0 {
		b.WriteString(StyleSubtle.Render("No tasks yet.") + "\n\n")
	}
	if len(active) > 0 {
		b.WriteString(StyleSectionTitle.Render(fmt.Sprintf("Active (%d)", len(active))) + "\n")
		for i, task := range active {
			b.WriteString(m.formatRow(task, i) + "\n")
		}
		b.WriteString("\n")
	}
	if len(completed) > 0 {
		b.WriteString(StyleSectionTitle.Render(fmt.Sprintf("Completed (%d)", len(completed))) + "\n")
		for i, task := range completed {
			b.WriteString(m.formatRow(task, len(active)+i) + "\n")
		}
		b.WriteString("\n")
	}

	writeStatusLine(&b, m.status, m.statusErr)
	writeFooter(&b, m.focus)
	return b.String()
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	box := StyleInputBox
	if m.focus == focusInput {
		box = StyleInputBoxFocused
	}
	if m.tasks.Alert().Active() {
		box = StyleInputBoxError
		b.WriteString(StyleError.Render(alertLabel) + "\n")
	} else {
		b.WriteString(StyleSubtle.Render("New task") + "\n")
	}
	b.WriteString(box.Render(m.input.View()) + "\n\n")
}

func (m *tuiModel) formatRow(task todo.Task, row int) string {
	cursor := "  "
	if m.focus == focusList && row == m.cursor {
		cursor = StyleCursor.Render("> ")
	}
	if editID, editing := m.tasks.Editing(); editing && editID == task.ID {
		return cursor + "[ ] " + m.edit.View()
	}
	if task.Done {
		return cursor + "[x] " + StyleCompleted.Render(task.Text)
	}
	return cursor + "[ ] " + StyleText.Render(task.Text)
}

func writeTitle(b *strings.Builder) {
	b.WriteString(StyleTitle.Render("TODO") + "\n\n")
}

func writeStatusLine(b *strings.Builder, status string, isErr bool) {
	if status == "" {
		return
	}
	if isErr {
		b.WriteString(StyleError.Render(status) + "\n\n")
		return
	}
	b.WriteString(StyleSuccess.Render(status) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  Input\n")
	b.WriteString("    enter        Add task\n")
	b.WriteString("    tab, esc     Go to the list\n\n")
	b.WriteString("  List\n")
	b.WriteString("    up/k down/j  Move\n")
	b.WriteString("    space, x     Toggle done\n")
	b.WriteString("    d, delete    Delete task\n")
	b.WriteString("    enter, e     Edit task (active only)\n")
	b.WriteString("    tab, a       Go to the input\n")
	b.WriteString("    r            Reload from storage\n")
	b.WriteString("    h, ?         Toggle this help screen\n")
	b.WriteString("    q            Quit\n\n")
	b.WriteString("  Editing\n")
	b.WriteString("    enter        Save\n")
	b.WriteString("    esc          Cancel\n")
	b.WriteString("    up, down     Edit the previous or next task\n\n")
	b.WriteString("  ctrl+c quits from anywhere\n\n")
}

func writeFooter(b *strings.Builder, f focus) {
	if f == focusInput {
		b.WriteString(StyleSubtle.Render("enter add | tab list | ctrl+c quit") + "\n")
		return
	}
	b.WriteString(StyleSubtle.Render("space toggle | e edit | d delete | tab input | h help | q quit") + "\n")
}

func alertExpiry(a *tasklist.Alert) tea.Cmd {
	token := a.Token()
	return tea.Tick(a.Delay(), func(time.Time) tea.Msg {
		return alertExpiredMsg{token: token}
	})
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watchClosedMsg{}
		}
		return storeChangedMsg{}
	}
}

func indexOf(tasks []todo.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
