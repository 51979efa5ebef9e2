package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskgrid/internal/render"
	"taskgrid/internal/task"
)

const (
	fieldTitle = iota
	fieldCategory
	fieldDue
	fieldCompleted
)

// formState backs both the add form and the edit dialog. The edit dialog has
// one extra field for the completion flag.
type formState struct {
	taskID string
	values []string
	index  int
}

func newForm(m mode, id string, f task.Fields) *formState {
	values := []string{f.Title, f.Category, f.DueDate}
	if m == modeEdit {
		values = append(values, boolToYN(f.Completed))
	}
	return &formState{taskID: id, values: values}
}

func formLabels() []string {
	return []string{"title", "category", "due date (YYYY-MM-DD)", "completed (y/n)"}
}

func (fs formState) currentLabel() string {
	return formLabels()[fs.index]
}

func (fs formState) currentValue() string {
	return fs.values[fs.index]
}

func (fs *formState) setCurrentValue(v string) {
	fs.values[fs.index] = v
}

func (fs formState) fields() task.Fields {
	f := task.Fields{
		Title:    fs.values[fieldTitle],
		Category: fs.values[fieldCategory],
		DueDate:  fs.values[fieldDue],
	}
	if len(fs.values) > fieldCompleted {
		f.Completed = parseYN(fs.values[fieldCompleted])
	}
	return f
}

// focusFor moves the form to the field a validation error is about.
func focusFor(err error) int {
	switch {
	case errors.Is(err, task.ErrMissingCategory):
		return fieldCategory
	case errors.Is(err, task.ErrInvalidDueDate):
		return fieldDue
	default:
		return fieldTitle
	}
}

func (m Model) startForm(md mode, id string, f task.Fields) (tea.Model, tea.Cmd) {
	m.mode = md
	m.form = newForm(md, id, f)
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.input.Focus()
	m.setStatus(m.formPrompt())
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Cancel, "esc":
		if m.mode == modeEdit {
			m.app.CancelEdit()
			m.setStatus("Edit cancelled")
		} else {
			m.setStatus("Cancelled")
		}
		m.closeInput()
		m.refresh()
		return m, nil
	case k.NextField, "down":
		m.moveField(1)
		return m, nil
	case k.PrevField, "up":
		m.moveField(-1)
		return m, nil
	case k.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index < len(m.form.values)-1 {
			m.moveField(1)
			return m, nil
		}
		return m.submitForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, len(m.form.values))
	m.focusField()
}

func (m *Model) focusField() {
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.CursorEnd()
	m.setStatus(m.formPrompt())
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form.fields()
	var (
		t   task.Task
		err error
	)
	if m.mode == modeEdit {
		t, err = m.app.SaveEdit(f)
	} else {
		t, err = m.app.Add(f.Title, f.Category, f.DueDate)
	}

	switch {
	case errors.Is(err, task.ErrInvalid):
		m.form.index = focusFor(err)
		m.focusField()
		m.setError(validationMessage(err))
		return m, nil
	case err != nil:
		m.closeInput()
		m.refresh()
		m.setError(fmt.Sprintf("save failed: %v", err))
		return m, nil
	}

	edited := m.mode == modeEdit
	m.closeInput()
	m.refresh()
	m.selectTask(t.ID)
	if edited {
		m.setStatus("Task updated")
	} else {
		m.setStatus(fmt.Sprintf("Added %q", render.Sanitize(t.Title)))
	}
	return m, nil
}

func (m *Model) selectTask(id string) {
	for i, c := range m.board.Cards {
		if c.ID == id {
			m.cursor = i
			return
		}
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		return "Please enter a task title!"
	case errors.Is(err, task.ErrMissingCategory):
		return "Please select a category!"
	case errors.Is(err, task.ErrInvalidDueDate):
		return "Due date must be YYYY-MM-DD"
	default:
		return err.Error()
	}
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	verb := "New task"
	if m.mode == modeEdit {
		verb = "Edit task"
	}
	return fmt.Sprintf("%s: %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		verb, m.form.currentLabel(), m.form.index+1, len(m.form.values))
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	if m.mode == modeEdit {
		b.WriteString("Edit Task\n\n")
	} else {
		b.WriteString("Add Task\n\n")
	}
	labels := formLabels()
	for i, val := range m.form.values {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
			val = m.input.View()
		} else if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-22s : %s\n", prefix, labels[i], val))
	}
	return strings.TrimRight(b.String(), "\n")
}

func parseYN(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "true" || v == "1"
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
