package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist/internal/config"
	"github.com/nibzard/tasklist/internal/storage"
	"github.com/nibzard/tasklist/internal/tasklist"
	"github.com/nibzard/tasklist/internal/todo"
)

func newTestModel(t *testing.T, tasks ...todo.Task) (*tuiModel, *storage.MemoryPort) {
	t.Helper()
	port := storage.NewMemoryPort(tasks...)
	c := tasklist.New(port, tasklist.Options{AlertDelay: 10 * time.Millisecond})
	if err := c.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return newTUIModel(c, nil), port
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds keys to the model and returns the last command.
func send(m *tuiModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAddTask(t *testing.T) {
	m, port := newTestModel(t)

	send(m, "Buy milk", "enter")

	if m.tasks.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", m.tasks.Len())
	}
	if got := m.tasks.Tasks()[0]; got.Text != "Buy milk" || got.Done {
		t.Errorf("task: got %+v", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input: got %q, want empty", m.input.Value())
	}
	if port.Saves != 1 {
		t.Errorf("Saves: got %d, want 1", port.Saves)
	}
	view := m.View()
	for _, want := range []string{"TODO", "Active (1)", "[ ] Buy milk"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Completed (") {
		t.Errorf("empty completed section rendered:\n%s", view)
	}
}

func TestBlankAddShowsAlert(t *testing.T) {
	m, port := newTestModel(t)

	cmd := send(m, "   ", "enter")
	if cmd == nil {
		t.Fatal("expected an expiry command")
	}
	if m.tasks.Len() != 0 || port.Saves != 0 {
		t.Errorf("blank add mutated the list")
	}
	if !strings.Contains(m.View(), alertLabel) {
		t.Errorf("view missing alert:\n%s", m.View())
	}

	msg := cmd()
	expired, ok := msg.(alertExpiredMsg)
	if !ok {
		t.Fatalf("expiry command produced %T", msg)
	}
	m.Update(expired)
	if strings.Contains(m.View(), alertLabel) {
		t.Errorf("alert still shown after expiry:\n%s", m.View())
	}
}

func TestStaleAlertExpiryIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	first := send(m, "enter")
	second := send(m, "enter")

	m.Update(first())
	if !m.tasks.Alert().Active() {
		t.Fatal("first timer cleared the second alert")
	}
	m.Update(second())
	if m.tasks.Alert().Active() {
		t.Error("second timer should clear the alert")
	}
}

func TestPlaceholder(t *testing.T) {
	m, _ := newTestModel(t)
	if !strings.Contains(m.View(), inputPlaceholder) {
		t.Errorf("view missing placeholder:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "No tasks yet.") {
		t.Errorf("view missing empty state:\n%s", m.View())
	}
}

func TestToggleAndDelete(t *testing.T) {
	m, _ := newTestModel(t,
		todo.Task{ID: 1, Text: "a"},
		todo.Task{ID: 2, Text: "b"},
		todo.Task{ID: 3, Text: "c", Done: true},
	)

	send(m, "tab", "down", "space")
	if got, _ := m.tasks.Get(2); !got.Done {
		t.Fatalf("task 2 should be done: %+v", got)
	}
	// The cursor follows the toggled task into the completed section.
	if sel, _ := m.selected(); sel.ID != 2 {
		t.Errorf("selected: got %d, want 2", sel.ID)
	}

	view := m.View()
	for _, want := range []string{"Active (1)", "Completed (2)", "[x] b"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	send(m, "x")
	if got, _ := m.tasks.Get(2); got.Done {
		t.Errorf("x should reopen task 2")
	}

	send(m, "d")
	if _, ok := m.tasks.Get(2); ok {
		t.Error("d should delete the selected task")
	}
	if m.tasks.Len() != 2 {
		t.Errorf("Len: got %d, want 2", m.tasks.Len())
	}
}

func TestListKeysOnEmptyList(t *testing.T) {
	m, port := newTestModel(t)
	send(m, "tab", "up", "down", "space", "d", "e")
	if port.Saves != 0 {
		t.Errorf("Saves: got %d, want 0", port.Saves)
	}
	if _, editing := m.tasks.Editing(); editing {
		t.Error("edit started on an empty list")
	}
}

func TestEditCommit(t *testing.T) {
	m, _ := newTestModel(t, todo.Task{ID: 1, Text: "old"}, todo.Task{ID: 2, Text: "keep"})

	send(m, "tab", "e")
	if id, editing := m.tasks.Editing(); !editing || id != 1 {
		t.Fatalf("Editing: got %d/%v", id, editing)
	}
	if m.edit.Value() != "old" {
		t.Errorf("edit buffer: got %q, want old", m.edit.Value())
	}

	send(m, "backspace", "backspace", "backspace", "Updated", "enter")

	want := []todo.Task{{ID: 1, Text: "Updated"}, {ID: 2, Text: "keep"}}
	got := m.tasks.Tasks()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Tasks: got %+v, want %+v", got, want)
	}
	if _, editing := m.tasks.Editing(); editing {
		t.Error("enter should leave edit mode")
	}
}

func TestEditCancelAndSwitch(t *testing.T) {
	m, _ := newTestModel(t, todo.Task{ID: 1, Text: "a"}, todo.Task{ID: 2, Text: "b"})

	send(m, "tab", "enter", "!!!", "down")
	if id, _ := m.tasks.Editing(); id != 2 {
		t.Fatalf("down should move the edit to task 2, got %d", id)
	}
	if got, _ := m.tasks.Get(1); got.Text != "a" {
		t.Errorf("switching saved the draft: %q", got.Text)
	}

	send(m, "???", "esc")
	if _, editing := m.tasks.Editing(); editing {
		t.Error("esc should cancel the edit")
	}
	if got, _ := m.tasks.Get(2); got.Text != "b" {
		t.Errorf("cancel changed the task: %q", got.Text)
	}

	// Keys typed while editing never reach the list bindings.
	send(m, "enter", "q")
	if m.edit.Value() != "bq" {
		t.Errorf("edit buffer: got %q, want bq", m.edit.Value())
	}
}

func TestCompletedRowsNotEditable(t *testing.T) {
	m, _ := newTestModel(t, todo.Task{ID: 1, Text: "done", Done: true})
	send(m, "tab", "e")
	if _, editing := m.tasks.Editing(); editing {
		t.Error("completed task entered edit mode")
	}
	if !strings.Contains(m.status, "cannot be edited") {
		t.Errorf("status: got %q", m.status)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	if isQuit(send(m, "q")) {
		t.Error("q in the input should type, not quit")
	}
	if m.input.Value() != "q" {
		t.Errorf("input: got %q, want q", m.input.Value())
	}
	if !isQuit(send(m, "tab", "q")) {
		t.Error("q in the list should quit")
	}
	if !isQuit(send(m, "ctrl+c")) {
		t.Error("ctrl+c should quit")
	}
}

func TestHelpScreen(t *testing.T) {
	m, _ := newTestModel(t)
	send(m, "tab", "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown:\n%s", m.View())
	}
	send(m, "x")
	if m.showHelp {
		t.Error("any key should close help")
	}
}

func TestStoreChangedReloads(t *testing.T) {
	m, port := newTestModel(t, todo.Task{ID: 1, Text: "a"})
	changes := make(chan struct{}, 1)
	m.changes = changes

	port.Tasks = append(port.Tasks, todo.Task{ID: 2, Text: "from elsewhere"})
	_, cmd := m.Update(storeChangedMsg{})
	if m.tasks.Len() != 2 {
		t.Errorf("Len after change: got %d, want 2", m.tasks.Len())
	}
	if cmd == nil {
		t.Fatal("expected to keep waiting for changes")
	}

	close(changes)
	if _, ok := cmd().(watchClosedMsg); !ok {
		t.Error("closed channel should yield watchClosedMsg")
	}
}

func TestStoreChangedEndsEditOfCompletedTask(t *testing.T) {
	m, port := newTestModel(t, todo.Task{ID: 1, Text: "a"})

	send(m, "tab", "e")
	if _, editing := m.tasks.Editing(); !editing {
		t.Fatal("expected edit mode")
	}

	port.Tasks = []todo.Task{{ID: 1, Text: "a", Done: true}}
	m.Update(storeChangedMsg{})
	if _, editing := m.tasks.Editing(); editing {
		t.Fatal("edit should end when the task is completed elsewhere")
	}

	send(m, "X", "enter")
	if got, _ := m.tasks.Get(1); got != (todo.Task{ID: 1, Text: "a", Done: true}) {
		t.Errorf("task after reload: got %+v", got)
	}
	view := m.View()
	if !strings.Contains(view, "Completed (1)") || !strings.Contains(view, "[x] a") {
		t.Errorf("view should show the completed row:\n%s", view)
	}
}

func TestRunTUIRequiresTTY(t *testing.T) {
	cfg := &config.Config{
		Storage:   config.StorageConfig{Backend: storage.BackendMemory, Key: "tasks"},
		UI:        config.UIConfig{ErrorDelayMS: 100, Watch: true},
		LogLevel:  "info",
		LogFormat: "text",
	}
	s, err := tasklist.Open(cfg, tasklist.SessionOptions{NoRunLog: true, KV: storage.NewMemoryKV()})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	var out bytes.Buffer
	err = RunTUI(context.Background(), s, WithOutput(&out), WithWatch(true))
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("got %v, want TTY error", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be drawn, got %q", out.String())
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
