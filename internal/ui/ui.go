package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskgrid/internal/app"
	"taskgrid/internal/config"
	"taskgrid/internal/render"
	"taskgrid/internal/session"
	"taskgrid/internal/task"
	"taskgrid/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeConfirmDelete
	modeConfirmClear
)

// removeCommitMsg fires when the removal delay for a ticket has elapsed.
type removeCommitMsg struct {
	ticket session.Ticket
}

type Model struct {
	app       *app.App
	cfg       config.Config
	delay     time.Duration
	board     render.Board
	cursor    int
	mode      mode
	input     textinput.Model
	form      *formState
	status    string
	statusErr bool
	pendingID string
	styles    styles
	width     int
}

func New(a *app.App, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		app:    a,
		cfg:    cfg,
		delay:  cfg.DeleteDelayDuration(),
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to delete.", cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Delete),
		styles: newStyles(a.Theme()),
	}
	m.refresh()
	return m
}

func Run(a *app.App, cfg config.Config) error {
	program := tea.NewProgram(New(a, cfg))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateFormMode(msg.String(), msg)
		case modeSearch:
			return m.updateSearchMode(msg.String(), msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		case modeConfirmClear:
			return m.updateClearConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	case removeCommitMsg:
		return m.commitRemoval(msg.ticket)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m *Model) refresh() {
	m.board = m.app.Board()
	m.cursor = clampCursor(m.cursor, len(m.board.Cards))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m Model) selected() (render.Card, bool) {
	if len(m.board.Cards) == 0 {
		return render.Card{}, false
	}
	return m.board.Cards[clampCursor(m.cursor, len(m.board.Cards))], true
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.board.Cards) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.board.Cards))
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.board.Cards))
		}
	case k.Add:
		return m.startForm(modeAdd, "", task.Fields{Category: m.defaultCategory()})
	case k.Toggle:
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		t, err := m.app.Toggle(c.ID)
		switch {
		case errors.Is(err, task.ErrNotFound):
			// already gone; the refresh below drops the stale card
		case err != nil:
			m.setError(fmt.Sprintf("toggle failed: %v", err))
		default:
			m.setStatus(fmt.Sprintf("Marked %q %s", render.Sanitize(t.Title), humanDone(t.Completed)))
		}
		m.refresh()
	case k.Delete:
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingID = c.ID
		m.setStatus(fmt.Sprintf("Are you sure you want to delete %q? y/n", c.Title))
	case k.Edit:
		c, ok := m.selected()
		if !ok {
			m.setStatus("No tasks to edit")
			return m, nil
		}
		fields, err := m.app.OpenEdit(c.ID)
		if err != nil {
			m.setError(fmt.Sprintf("cannot edit: %v", err))
			m.refresh()
			return m, nil
		}
		return m.startForm(modeEdit, c.ID, fields)
	case k.Search:
		m.mode = modeSearch
		m.input.SetValue(m.app.Filter().Query)
		m.input.Placeholder = "Search titles"
		m.input.CursorEnd()
		m.input.Focus()
		m.setStatus("Search: type to filter, Enter to keep, Esc to clear")
	case k.ClearSearch:
		m.app.ClearQuery()
		m.refresh()
		m.setStatus("Search cleared")
	case k.Status:
		s := m.app.CycleStatus()
		m.refresh()
		m.setStatus("Showing " + strings.ToLower(s.Label()) + " tasks")
	case k.Category:
		c := m.app.CycleCategory()
		m.refresh()
		m.setStatus("Category: " + categoryLabel(c))
	case k.Sort:
		m.app.ToggleSort()
		m.refresh()
		m.setStatus("Sorted by due date " + sortLabel(m.app.Filter().SortAsc))
	case k.ClearAll:
		total := m.board.Stats.Total
		if total == 0 {
			m.setError("No tasks to clear!")
			return m, nil
		}
		m.mode = modeConfirmClear
		m.setStatus(fmt.Sprintf("Delete all %d tasks? This cannot be undone! y/n", total))
	case k.Theme:
		theme := m.app.ToggleTheme()
		m.styles = newStyles(theme)
		m.setStatus("Theme: " + string(theme))
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.app.ClearQuery()
		m.closeInput()
		m.refresh()
		m.setStatus("Search cleared")
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.closeInput()
		m.setStatus(fmt.Sprintf("%d matching tasks", len(m.board.Cards)))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.app.SetQuery(m.input.Value())
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.mode = modeList
		m.pendingID = ""
		m.setStatus("Delete cancelled")
		return m, nil
	case "y", "Y":
		id := m.pendingID
		m.mode = modeList
		m.pendingID = ""
		ticket, err := m.app.RequestRemove(id)
		if err != nil {
			m.refresh()
			m.setStatus("Nothing to delete")
			return m, nil
		}
		m.refresh()
		m.setStatus("Deleting…")
		return m, scheduleRemoval(ticket, m.delay)
	default:
		return m, nil
	}
}

func scheduleRemoval(t session.Ticket, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return removeCommitMsg{ticket: t}
	})
}

func (m Model) commitRemoval(t session.Ticket) (tea.Model, tea.Cmd) {
	if m.app.CommitRemove(t) {
		m.setStatus("Deleted task")
	}
	m.refresh()
	return m, nil
}

func (m Model) updateClearConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.mode = modeList
		n, err := m.app.ClearAll()
		if err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus(fmt.Sprintf("Cleared %d tasks", n))
		}
		m.refresh()
		return m, nil
	case "n", "N", "esc":
		m.mode = modeList
		m.setStatus("Clear cancelled")
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) closeInput() {
	m.mode = modeList
	m.form = nil
	m.input.SetValue("")
	m.input.Blur()
}

// defaultCategory pre-fills the add form with the active category filter.
func (m Model) defaultCategory() string {
	if c := m.app.Filter().Category; c != view.AllCategories {
		return c
	}
	return ""
}

func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.title.Render("Task Manager"))
	b.WriteString("  ")
	b.WriteString(s.muted.Render(render.StatsLine(m.board.Stats)))
	b.WriteString("\n")
	b.WriteString(s.muted.Render(m.filterLine()))
	b.WriteString("\n\n")

	if m.board.Empty {
		b.WriteString(s.empty.Render(render.EmptyTitle))
		b.WriteString("\n")
		b.WriteString(s.empty.Render(render.EmptyHint))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	if m.form != nil {
		b.WriteString("\n")
		b.WriteString(s.form.Render(m.renderForm()))
		b.WriteString("\n")
	} else if m.mode == modeSearch {
		b.WriteString("\nSearch: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(s.errStatus.Render(m.status))
	} else {
		b.WriteString(s.status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(s.muted.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) filterLine() string {
	f := m.app.Filter()
	parts := []string{
		"Filter: " + f.Status.Label(),
		"Category: " + categoryLabel(m.board.Selected),
		"Sort: due " + sortLabel(f.SortAsc),
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", render.Sanitize(q)))
	}
	return strings.Join(parts, " • ")
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	s := m.styles
	for i, c := range m.board.Cards {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = s.cursor.Render(">")
		}

		checkbox := "[ ]"
		if c.Completed {
			checkbox = "[x]"
		}

		title := s.card.Render(c.Title)
		if c.Completed {
			title = s.done.Render(c.Title)
		}

		due := "Due: " + c.DueLabel
		if c.DueHint != "" {
			due += " (" + c.DueHint + ")"
		}
		if c.Overdue {
			due = s.overdue.Render(due)
		} else {
			due = s.muted.Render(due)
		}

		badge := s.badgeOpen.Render(c.StatusLabel())
		if c.Completed {
			badge = s.badgeDone.Render(c.StatusLabel())
		}

		line := fmt.Sprintf("%s %s %s %s %s • %s", cursor, checkbox, title, s.category.Render("#"+c.Category), badge, due)
		if c.Removing {
			line = s.removing.Render(fmt.Sprintf("%s %s %s (removing)", cursor, checkbox, c.Title))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s search • %s clear search • %s status • %s category • %s sort • %s clear all • %s theme • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyLabel(k.Toggle), k.Delete, k.Search, k.ClearSearch, k.Status, k.Category, k.Sort, k.ClearAll, k.Theme, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func categoryLabel(c string) string {
	if c == "" || c == view.AllCategories {
		return "All Categories"
	}
	return render.Sanitize(c)
}

func sortLabel(asc bool) string {
	if asc {
		return "↑"
	}
	return "↓"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
