package task

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// Persister keeps a serialized copy of the collection.
type Persister interface {
	LoadTasks() []Task
	SaveTasks(tasks []Task) error
}

// Store owns the ordered task collection. Every mutation is followed by a
// write to the Persister; a failed write is logged and the in-memory state
// stays authoritative.
type Store struct {
	p     Persister
	log   log.FieldLogger
	tasks []Task
}

type Option func(*Store)

func WithLogger(l log.FieldLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func NewStore(p Persister, opts ...Option) *Store {
	discard := log.New()
	discard.SetOutput(io.Discard)
	s := &Store{p: p, log: discard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with what the Persister holds. Records that
// break the title/category rules or repeat an ID are dropped.
func (s *Store) Load() int {
	s.tasks = s.tasks[:0]
	if s.p == nil {
		return 0
	}
	seen := make(map[string]struct{})
	for _, t := range s.p.LoadTasks() {
		if !t.Valid() {
			s.log.WithField("id", t.ID).Warn("dropping invalid stored task")
			continue
		}
		if _, dup := seen[t.ID]; dup {
			s.log.WithField("id", t.ID).Warn("dropping duplicate stored task")
			continue
		}
		seen[t.ID] = struct{}{}
		s.tasks = append(s.tasks, t)
	}
	s.log.WithField("count", len(s.tasks)).Debug("tasks loaded")
	return len(s.tasks)
}

func (s *Store) Add(title, category, dueDate string) (Task, error) {
	f, err := Fields{Title: title, Category: category, DueDate: dueDate}.Normalize()
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:        s.freshID(),
		Title:     f.Title,
		Category:  f.Category,
		DueDate:   f.DueDate,
		CreatedAt: timeNow().UnixMilli(),
	}
	s.tasks = append(s.tasks, t)
	s.persist()
	s.log.WithField("id", t.ID).Info("task added")
	return t, nil
}

// ToggleComplete flips the completion flag. It reports false when the ID is
// unknown.
func (s *Store) ToggleComplete(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persist()
	s.log.WithField("id", id).Info("task toggled")
	return s.tasks[i], true
}

func (s *Store) Update(id string, fields Fields) (Task, error) {
	f, err := fields.Normalize()
	if err != nil {
		return Task{}, err
	}
	i := s.index(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	t := s.tasks[i]
	t.Title = f.Title
	t.Category = f.Category
	t.DueDate = f.DueDate
	t.Completed = f.Completed
	s.tasks[i] = t
	s.persist()
	s.log.WithField("id", id).Info("task updated")
	return t, nil
}

func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist()
	s.log.WithField("id", id).Info("task deleted")
	return true
}

// ClearAll empties the collection and returns how many tasks were dropped.
func (s *Store) ClearAll() int {
	n := len(s.tasks)
	s.tasks = nil
	s.persist()
	s.log.WithField("count", n).Info("all tasks cleared")
	return n
}

func (s *Store) Get(id string) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) freshID() string {
	for {
		id := newID()
		if s.index(id) < 0 {
			return id
		}
	}
}

func (s *Store) persist() {
	if s.p == nil {
		return
	}
	if err := s.p.SaveTasks(s.Tasks()); err != nil {
		s.log.WithError(err).Error("error saving tasks")
	}
}
