package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for due dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalid         = errors.New("invalid")
	ErrNotFound        = errors.New("task not found")
	ErrEmptyTitle      = fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	ErrMissingCategory = fmt.Errorf("%w: category is required", ErrInvalid)
	ErrInvalidDueDate  = fmt.Errorf("%w: due date must be YYYY-MM-DD", ErrInvalid)

	timeNow = func() time.Time { return time.Now() }
	newID   = uuid.NewString
)

// Task is a single to-do item. The JSON shape is what gets persisted.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}

// Fields are the editable parts of a task.
type Fields struct {
	Title     string
	Category  string
	DueDate   string
	Completed bool
}

func (t Task) Fields() Fields {
	return Fields{Title: t.Title, Category: t.Category, DueDate: t.DueDate, Completed: t.Completed}
}

// Due returns the parsed due date. ok is false when the task has none or the
// stored value does not parse.
func (t Task) Due() (time.Time, bool) {
	return ParseDate(t.DueDate)
}

func (t Task) HasDue() bool {
	_, ok := t.Due()
	return ok
}

func ParseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Normalize trims the fields and checks them against the rules every stored
// task must satisfy.
func (f Fields) Normalize() (Fields, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.DueDate = strings.TrimSpace(f.DueDate)
	if f.Title == "" {
		return f, ErrEmptyTitle
	}
	if f.Category == "" {
		return f, ErrMissingCategory
	}
	if f.DueDate != "" {
		if _, err := time.Parse(DateLayout, f.DueDate); err != nil {
			return f, ErrInvalidDueDate
		}
	}
	return f, nil
}

// Valid reports whether a task read back from storage can be kept. A bad due
// date is tolerated; the pipeline treats it as undated.
func (t Task) Valid() bool {
	return strings.TrimSpace(t.ID) != "" &&
		strings.TrimSpace(t.Title) != "" &&
		strings.TrimSpace(t.Category) != ""
}
