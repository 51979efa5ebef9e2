package task

import (
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type memPersister struct {
	saved   []Task
	saves   int
	saveErr error
}

func (m *memPersister) LoadTasks() []Task {
	out := make([]Task, len(m.saved))
	copy(out, m.saved)
	return out
}

func (m *memPersister) SaveTasks(tasks []Task) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = make([]Task, len(tasks))
	copy(m.saved, tasks)
	return nil
}

func TestStore_AddTrimsAndPersists(t *testing.T) {
	p := &memPersister{}
	s := NewStore(p)

	got, err := s.Add("  Write report  ", "Work", "2024-01-10")
	if err != nil {
		t.Fatalf("Add() err = %v, want nil", err)
	}
	if got.Title != "Write report" {
		t.Fatalf("Add() title = %q, want %q", got.Title, "Write report")
	}
	if got.ID == "" || got.Completed {
		t.Fatalf("Add() returned unexpected task: %+v", got)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if len(p.saved) != 1 || p.saved[0].Title != "Write report" {
		t.Fatalf("persisted = %+v, want one task titled %q", p.saved, "Write report")
	}
}

func TestStore_AddRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		category string
		due      string
		want     error
	}{
		{"empty title", "", "Work", "", ErrEmptyTitle},
		{"whitespace title", "   \t", "Work", "", ErrEmptyTitle},
		{"missing category", "Buy milk", "", "", ErrMissingCategory},
		{"bad due date", "Buy milk", "Home", "10/01/2024", ErrInvalidDueDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &memPersister{}
			s := NewStore(p)
			if _, err := s.Add("existing", "Work", ""); err != nil {
				t.Fatalf("seed Add() err = %v", err)
			}

			_, err := s.Add(tc.title, tc.category, tc.due)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Add() err = %v, want %v", err, tc.want)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Add() err = %v, want it to wrap ErrInvalid", err)
			}
			if s.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", s.Len())
			}
			if p.saves != 1 {
				t.Fatalf("saves = %d, want 1", p.saves)
			}
		})
	}
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	s := NewStore(&memPersister{})
	for _, title := range []string{"a", "b", "c"} {
		if _, err := s.Add(title, "Work", ""); err != nil {
			t.Fatalf("Add(%q) err = %v", title, err)
		}
	}
	tasks := s.Tasks()
	for i, want := range []string{"a", "b", "c"} {
		if tasks[i].Title != want {
			t.Fatalf("Tasks()[%d] = %q, want %q", i, tasks[i].Title, want)
		}
	}
}

func TestStore_ToggleIsSelfInverse(t *testing.T) {
	s := NewStore(&memPersister{})
	created, _ := s.Add("Buy milk", "Home", "")

	first, ok := s.ToggleComplete(created.ID)
	if !ok || !first.Completed {
		t.Fatalf("ToggleComplete() = %+v, %v; want completed", first, ok)
	}
	second, ok := s.ToggleComplete(created.ID)
	if !ok || second.Completed != created.Completed {
		t.Fatalf("ToggleComplete() twice completed = %v, want %v", second.Completed, created.Completed)
	}
}

func TestStore_ToggleUnknownIsNoop(t *testing.T) {
	p := &memPersister{}
	s := NewStore(p)

	if _, ok := s.ToggleComplete("missing"); ok {
		t.Fatal("ToggleComplete() ok = true, want false")
	}
	if p.saves != 0 {
		t.Fatalf("saves = %d, want 0", p.saves)
	}
}

func TestStore_Update(t *testing.T) {
	s := NewStore(&memPersister{})
	created, _ := s.Add("Buy milk", "Home", "")

	got, err := s.Update(created.ID, Fields{Title: " Buy oat milk ", Category: "Errands", DueDate: "2024-02-01", Completed: true})
	if err != nil {
		t.Fatalf("Update() err = %v, want nil", err)
	}
	want := Task{
		ID:        created.ID,
		Title:     "Buy oat milk",
		Category:  "Errands",
		DueDate:   "2024-02-01",
		Completed: true,
		CreatedAt: created.CreatedAt,
	}
	if got != want {
		t.Fatalf("Update() = %+v, want %+v", got, want)
	}

	if _, err := s.Update(created.ID, Fields{Title: "  ", Category: "Home"}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Update() err = %v, want %v", err, ErrEmptyTitle)
	}
	stored, _ := s.Get(created.ID)
	if stored != want {
		t.Fatalf("rejected Update() changed task to %+v", stored)
	}

	if _, err := s.Update("missing", Fields{Title: "x", Category: "y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() err = %v, want %v", err, ErrNotFound)
	}
}

func TestStore_RemoveAndClearAll(t *testing.T) {
	p := &memPersister{}
	s := NewStore(p)
	a, _ := s.Add("a", "Work", "")
	s.Add("b", "Work", "")
	s.Add("c", "Home", "")

	if !s.Remove(a.ID) {
		t.Fatal("Remove() = false, want true")
	}
	if s.Remove(a.ID) {
		t.Fatal("second Remove() = true, want false")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	if n := s.ClearAll(); n != 2 {
		t.Fatalf("ClearAll() = %d, want 2", n)
	}
	if s.Len() != 0 || len(p.saved) != 0 {
		t.Fatalf("after ClearAll() Len() = %d, persisted = %d; want 0, 0", s.Len(), len(p.saved))
	}
}

func TestStore_SaveFailureKeepsMemoryState(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := &memPersister{saveErr: errors.New("disk full")}
	s := NewStore(p, WithLogger(logger))

	if _, err := s.Add("Write report", "Work", ""); err != nil {
		t.Fatalf("Add() err = %v, want nil", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.ErrorLevel && e.Message == "error saving tasks" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an error log entry for the failed save")
	}
}

func TestStore_LoadDropsInvalidAndDuplicates(t *testing.T) {
	p := &memPersister{saved: []Task{
		{ID: "1", Title: "ok", Category: "Work"},
		{ID: "2", Title: "", Category: "Work"},
		{ID: "3", Title: "no category"},
		{ID: "1", Title: "dup", Category: "Work"},
		{ID: "4", Title: "bad date kept", Category: "Home", DueDate: "soon"},
	}}
	s := NewStore(p)

	if n := s.Load(); n != 2 {
		t.Fatalf("Load() = %d, want 2", n)
	}
	if _, ok := s.Get("4"); !ok {
		t.Fatal("Get(4) ok = false, want true")
	}
}

func TestStore_FreshIDSkipsCollisions(t *testing.T) {
	ids := []string{"same", "same", "other"}
	restore := newID
	newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	defer func() { newID = restore }()

	s := NewStore(&memPersister{})
	a, _ := s.Add("a", "Work", "")
	b, _ := s.Add("b", "Work", "")
	if a.ID != "same" || b.ID != "other" {
		t.Fatalf("ids = %q, %q; want %q, %q", a.ID, b.ID, "same", "other")
	}
}
