package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskgrid/internal/app"
	"taskgrid/internal/config"
	"taskgrid/internal/storage"
	"taskgrid/internal/task"
)

type memBackend struct {
	tasks []task.Task
	theme storage.Theme
}

func (b *memBackend) LoadTasks() []task.Task { return append([]task.Task(nil), b.tasks...) }

func (b *memBackend) SaveTasks(tasks []task.Task) error {
	b.tasks = append([]task.Task(nil), tasks...)
	return nil
}

func (b *memBackend) LoadTheme() storage.Theme { return b.theme }

func (b *memBackend) SaveTheme(t storage.Theme) error {
	b.theme = t
	return nil
}

func newModel(t *testing.T) (Model, *memBackend) {
	t.Helper()
	b := &memBackend{theme: storage.ThemeLight}
	a := app.New(b, app.WithClock(func() time.Time {
		return time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	}))
	a.Load()
	cfg := config.Default()
	cfg.DeleteDelay = "1ms"
	return New(a, cfg), b
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func addTask(t *testing.T, m Model, title, category, due string) Model {
	t.Helper()
	msgs := []tea.Msg{key("a")}
	if title != "" {
		msgs = append(msgs, typeText(title))
	}
	msgs = append(msgs, key("enter"))
	if category != "" {
		msgs = append(msgs, typeText(category))
	}
	msgs = append(msgs, key("enter"))
	if due != "" {
		msgs = append(msgs, typeText(due))
	}
	msgs = append(msgs, key("enter"))
	m, _ = send(t, m, msgs...)
	return m
}

func TestModel_AddTask(t *testing.T) {
	m, b := newModel(t)
	m = addTask(t, m, "Write report", "Work", "2024-01-10")

	if m.mode != modeList {
		t.Fatalf("mode = %v, want list", m.mode)
	}
	if len(b.tasks) != 1 || b.tasks[0].Title != "Write report" || b.tasks[0].DueDate != "2024-01-10" {
		t.Fatalf("persisted = %+v", b.tasks)
	}
	if !strings.Contains(m.View(), "Write report") {
		t.Fatalf("View() missing new task:\n%s", m.View())
	}
}

func TestModel_AddRejectsEmptyTitle(t *testing.T) {
	m, b := newModel(t)
	m = addTask(t, m, "   ", "Work", "")

	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want add form kept open", m.mode)
	}
	if !m.statusErr || m.status != "Please enter a task title!" {
		t.Fatalf("status = %q (err %v)", m.status, m.statusErr)
	}
	if m.form.index != fieldTitle {
		t.Fatalf("form index = %d, want title field", m.form.index)
	}
	if len(b.tasks) != 0 {
		t.Fatalf("persisted = %+v, want none", b.tasks)
	}

	m, _ = send(t, m, key("esc"))
	if m.mode != modeList || m.form != nil {
		t.Fatalf("esc did not close form: mode %v", m.mode)
	}
}

func TestModel_AddRequiresCategory(t *testing.T) {
	m, b := newModel(t)
	m = addTask(t, m, "Buy milk", "", "")

	if m.status != "Please select a category!" || m.form.index != fieldCategory {
		t.Fatalf("status = %q, index = %d", m.status, m.form.index)
	}
	if len(b.tasks) != 0 {
		t.Fatalf("persisted = %+v, want none", b.tasks)
	}
}

func TestModel_ToggleAndFilter(t *testing.T) {
	m, b := newModel(t)
	m = addTask(t, m, "Write report", "Work", "2024-01-10")
	m = addTask(t, m, "Buy milk", "Home", "")

	m.cursor = 1
	m, _ = send(t, m, key(" "))
	if !b.tasks[1].Completed {
		t.Fatalf("toggle not persisted: %+v", b.tasks)
	}

	m, _ = send(t, m, key("f"), key("f"))
	if len(m.board.Cards) != 1 || m.board.Cards[0].Title != "Buy milk" {
		t.Fatalf("completed filter cards = %+v", m.board.Cards)
	}
}

func TestModel_DeleteIsConfirmedThenDeferred(t *testing.T) {
	m, b := newModel(t)
	m = addTask(t, m, "Buy milk", "Home", "")

	m, _ = send(t, m, key("d"), key("n"))
	if m.mode != modeList || len(b.tasks) != 1 {
		t.Fatalf("cancelled delete changed state: mode %v, tasks %d", m.mode, len(b.tasks))
	}

	m, cmd := send(t, m, key("d"), key("y"))
	if cmd == nil {
		t.Fatal("confirm returned no removal command")
	}
	if len(b.tasks) != 1 || !m.board.Cards[0].Removing {
		t.Fatalf("task removed before delay: tasks %d, cards %+v", len(b.tasks), m.board.Cards)
	}

	msg := cmd()
	if _, ok := msg.(removeCommitMsg); !ok {
		t.Fatalf("cmd() = %T, want removeCommitMsg", msg)
	}
	m, _ = send(t, m, msg)
	if len(b.tasks) != 0 || !m.board.Empty {
		t.Fatalf("task not removed after commit: %+v", b.tasks)
	}
	if !strings.Contains(m.View(), "No tasks found") {
		t.Fatalf("View() missing empty state:\n%s", m.View())
	}
}

func TestModel_EditDialog(t *testing.T) {
	m, b := newModel(t)
	m = addTask(t, m, "Buy milk", "Home", "")

	m, _ = send(t, m, key("e"))
	if m.mode != modeEdit || m.input.Value() != "Buy milk" {
		t.Fatalf("edit not opened with current title: mode %v, value %q", m.mode, m.input.Value())
	}
	m, _ = send(t, m, key("esc"))
	if b.tasks[0].Title != "Buy milk" {
		t.Fatalf("cancel changed task: %+v", b.tasks[0])
	}

	m, _ = send(t, m, key("e"), typeText(" now"), key("enter"), key("enter"), key("enter"))
	m.input.SetValue("y")
	m, _ = send(t, m, key("enter"))
	if m.mode != modeList {
		t.Fatalf("mode = %v, want list after save", m.mode)
	}
	if got := b.tasks[0]; got.Title != "Buy milk now" || !got.Completed {
		t.Fatalf("edited task = %+v", got)
	}
}

func TestModel_ClearAllAndTheme(t *testing.T) {
	m, b := newModel(t)
	m, _ = send(t, m, key("D"))
	if m.mode != modeList || !m.statusErr {
		t.Fatalf("clear on empty list: mode %v, status %q", m.mode, m.status)
	}

	m = addTask(t, m, "a", "Work", "")
	m = addTask(t, m, "b", "Work", "")
	m, _ = send(t, m, key("D"), key("y"))
	if len(b.tasks) != 0 || m.status != "Cleared 2 tasks" {
		t.Fatalf("tasks = %d, status %q", len(b.tasks), m.status)
	}

	m, _ = send(t, m, key("t"))
	if b.theme != storage.ThemeDark {
		t.Fatalf("theme = %q, want dark", b.theme)
	}
}

func TestModel_SearchMode(t *testing.T) {
	m, _ := newModel(t)
	m = addTask(t, m, "Write report", "Work", "")
	m = addTask(t, m, "Buy milk", "Home", "")

	m, _ = send(t, m, key("/"), typeText("milk"))
	if len(m.board.Cards) != 1 {
		t.Fatalf("search cards = %d, want 1", len(m.board.Cards))
	}
	m, _ = send(t, m, key("enter"))
	if m.mode != modeList || len(m.board.Cards) != 1 {
		t.Fatalf("enter dropped search: mode %v, cards %d", m.mode, len(m.board.Cards))
	}
	m, _ = send(t, m, key("x"))
	if len(m.board.Cards) != 2 {
		t.Fatalf("clear search cards = %d, want 2", len(m.board.Cards))
	}
}

func TestClampCursorAndWrapIndex(t *testing.T) {
	if got := clampCursor(5, 3); got != 2 {
		t.Fatalf("clampCursor(5, 3) = %d, want 2", got)
	}
	if got := clampCursor(-1, 3); got != 0 {
		t.Fatalf("clampCursor(-1, 3) = %d, want 0", got)
	}
	if got := wrapIndex(-1, 4); got != 3 {
		t.Fatalf("wrapIndex(-1, 4) = %d, want 3", got)
	}
}
