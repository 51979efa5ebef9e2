package view

import (
	"slices"
	"strings"

	"taskgrid/internal/task"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"

	// AllCategories disables the category filter.
	AllCategories = "all"
)

var statusCycle = []Status{StatusAll, StatusPending, StatusCompleted}

// ParseStatus is lenient: anything unrecognised means all.
func ParseStatus(v string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(v))) {
	case StatusPending:
		return StatusPending
	case StatusCompleted, "done":
		return StatusCompleted
	default:
		return StatusAll
	}
}

func (s Status) Next() Status {
	i := slices.Index(statusCycle, s)
	return statusCycle[(i+1)%len(statusCycle)]
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Filter is the display state applied to the collection before rendering.
type Filter struct {
	Status   Status
	Category string
	Query    string
	SortAsc  bool
}

func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Category: AllCategories, SortAsc: true}
}

func (f Filter) ToggleSort() Filter {
	f.SortAsc = !f.SortAsc
	return f
}

// Apply selects and orders the tasks to display. It does not modify tasks.
func Apply(tasks []task.Task, f Filter) []task.Task {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !f.keep(t, q) {
			continue
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, byDue(f.SortAsc))
	return out
}

func (f Filter) keep(t task.Task, q string) bool {
	switch f.Status {
	case StatusPending:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	if f.Category != "" && f.Category != AllCategories && t.Category != f.Category {
		return false
	}
	if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
		return false
	}
	return true
}

// byDue orders by due date; undated tasks go last in either direction.
func byDue(asc bool) func(a, b task.Task) int {
	return func(a, b task.Task) int {
		ad, aok := a.Due()
		bd, bok := b.Due()
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c := ad.Compare(bd)
		if !asc {
			c = -c
		}
		return c
	}
}
