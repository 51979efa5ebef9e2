package render

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"taskgrid/internal/task"
	"taskgrid/internal/view"
)

const (
	noDueLabel   = "No due date"
	dueLabelForm = "Jan 2, 2006"
	EmptyTitle   = "No tasks found"
	EmptyHint    = "Add your first task to get started!"
)

// Card is the display projection of one task.
type Card struct {
	ID        string
	Title     string
	Category  string
	DueLabel  string
	DueHint   string
	Completed bool
	Overdue   bool
	Removing  bool
	Actions   []string
}

func (c Card) StatusLabel() string {
	if c.Completed {
		return "Completed"
	}
	return "Pending"
}

type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// Facet is one entry of the category selector. Value is the raw label used
// for filtering; Label is safe to print.
type Facet struct {
	Value string
	Label string
}

type Board struct {
	Cards    []Card
	Stats    Stats
	Facets   []Facet
	Selected string
	Empty    bool
}

// Build projects the filtered tasks into cards. Stats and facets come from
// the full collection. selected is kept if it still names a category,
// otherwise it falls back to all.
func Build(filtered, all []task.Task, selected string, now time.Time) Board {
	b := Board{
		Cards: make([]Card, 0, len(filtered)),
		Stats: CountStats(all),
	}
	for _, t := range filtered {
		b.Cards = append(b.Cards, NewCard(t, now))
	}
	b.Empty = len(b.Cards) == 0
	b.Facets, b.Selected = Facets(all, selected)
	return b
}

func NewCard(t task.Task, now time.Time) Card {
	c := Card{
		ID:        t.ID,
		Title:     Sanitize(t.Title),
		Category:  Sanitize(t.Category),
		DueLabel:  noDueLabel,
		Completed: t.Completed,
		Actions:   []string{"Edit", "Done", "Delete"},
	}
	if t.Completed {
		c.Actions[1] = "Undo"
	}
	if d, ok := t.Due(); ok {
		c.DueLabel = d.Format(dueLabelForm)
		today := startOfDay(now)
		c.DueHint = dueHint(d, today)
		c.Overdue = !t.Completed && d.Before(today)
	} else if strings.TrimSpace(t.DueDate) != "" {
		c.DueLabel = Sanitize(t.DueDate)
	}
	return c
}

func dueHint(d, today time.Time) string {
	if d.Equal(today) {
		return "today"
	}
	return humanize.RelTime(d, today, "ago", "from now")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func CountStats(all []task.Task) Stats {
	s := Stats{Total: len(all)}
	for _, t := range all {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

// Facets returns the distinct categories in alphabetical order and the
// selection to show.
func Facets(all []task.Task, selected string) ([]Facet, string) {
	seen := make(map[string]struct{}, len(all))
	values := make([]string, 0, len(all))
	for _, t := range all {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		values = append(values, t.Category)
	}
	slices.Sort(values)

	facets := make([]Facet, 0, len(values))
	for _, v := range values {
		facets = append(facets, Facet{Value: v, Label: Sanitize(v)})
	}
	if _, ok := seen[selected]; !ok {
		selected = view.AllCategories
	}
	return facets, selected
}

// Sanitize strips terminal escape sequences and control characters so user
// text cannot repaint or restyle the screen.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
