// Package app holds the application state shared by every front end: the
// task store, the active filter, the edit session and pending removals.
package app

import (
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"taskgrid/internal/render"
	"taskgrid/internal/session"
	"taskgrid/internal/storage"
	"taskgrid/internal/task"
	"taskgrid/internal/view"
)

var (
	ErrPendingRemoval = errors.New("task is being removed")
	ErrNothingToClear = errors.New("no tasks to clear")
)

// Backend is the persistence the app needs: the task collection and the
// theme preference.
type Backend interface {
	task.Persister
	LoadTheme() storage.Theme
	SaveTheme(storage.Theme) error
}

type App struct {
	backend  Backend
	store    *task.Store
	filter   view.Filter
	edit     *session.Edit
	removals *session.Removals
	theme    storage.Theme
	log      log.FieldLogger
	now      func() time.Time
}

type Option func(*App)

func WithLogger(l log.FieldLogger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

func WithFilter(f view.Filter) Option {
	return func(a *App) { a.filter = f }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func New(b Backend, opts ...Option) *App {
	discard := log.New()
	discard.SetOutput(io.Discard)
	a := &App{
		backend:  b,
		filter:   view.DefaultFilter(),
		removals: session.NewRemovals(),
		theme:    storage.ThemeLight,
		log:      discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.store = task.NewStore(b, task.WithLogger(a.log))
	a.edit = session.NewEdit(a.store)
	return a
}

// Load restores tasks and theme from the backend.
func (a *App) Load() {
	n := a.store.Load()
	if a.backend != nil {
		a.theme = a.backend.LoadTheme()
	}
	a.log.WithFields(log.Fields{"tasks": n, "theme": a.theme}).Info("task manager ready")
}

func (a *App) Tasks() []task.Task {
	return a.store.Tasks()
}

func (a *App) Get(id string) (task.Task, bool) {
	return a.store.Get(id)
}

func (a *App) Add(title, category, dueDate string) (task.Task, error) {
	return a.store.Add(title, category, dueDate)
}

// Toggle flips completion. Unknown IDs are ignored.
func (a *App) Toggle(id string) (task.Task, error) {
	if a.removals.Pending(id) {
		return task.Task{}, ErrPendingRemoval
	}
	t, ok := a.store.ToggleComplete(id)
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (a *App) OpenEdit(id string) (task.Fields, error) {
	if a.removals.Pending(id) {
		return task.Fields{}, ErrPendingRemoval
	}
	return a.edit.Open(id)
}

func (a *App) Editing() (string, bool) {
	return a.edit.TaskID(), a.edit.Active()
}

func (a *App) EditDraft() task.Fields {
	return a.edit.Draft()
}

func (a *App) SaveEdit(f task.Fields) (task.Task, error) {
	if id := a.edit.TaskID(); a.removals.Pending(id) {
		a.edit.Cancel()
		return task.Task{}, ErrPendingRemoval
	}
	t, err := a.edit.Save(f)
	if err == nil {
		a.dropStaleCategory()
	}
	return t, err
}

func (a *App) CancelEdit() {
	a.edit.Cancel()
}

// RequestRemove marks id for removal. The caller commits the ticket after the
// removal delay.
func (a *App) RequestRemove(id string) (session.Ticket, error) {
	if _, ok := a.store.Get(id); !ok {
		return session.Ticket{}, task.ErrNotFound
	}
	if editing, ok := a.Editing(); ok && editing == id {
		a.edit.Cancel()
	}
	return a.removals.Mark(id), nil
}

// CommitRemove deletes the task if t is still the live ticket for it.
func (a *App) CommitRemove(t session.Ticket) bool {
	id, ok := a.removals.Commit(t)
	if !ok {
		return false
	}
	if !a.store.Remove(id) {
		return false
	}
	a.dropStaleCategory()
	return true
}

func (a *App) CancelRemove(id string) bool {
	return a.removals.Cancel(id)
}

func (a *App) PendingRemoval(id string) bool {
	return a.removals.Pending(id)
}

func (a *App) ClearAll() (int, error) {
	if a.store.Len() == 0 {
		return 0, ErrNothingToClear
	}
	a.removals.Reset()
	a.edit.Cancel()
	n := a.store.ClearAll()
	a.dropStaleCategory()
	return n, nil
}

func (a *App) Filter() view.Filter {
	return a.filter
}

func (a *App) SetStatus(s view.Status) {
	a.filter.Status = s
	a.log.WithField("status", s).Debug("filter changed")
}

func (a *App) CycleStatus() view.Status {
	a.SetStatus(a.filter.Status.Next())
	return a.filter.Status
}

func (a *App) SetCategory(c string) {
	if c == "" {
		c = view.AllCategories
	}
	a.filter.Category = c
	a.log.WithField("category", c).Debug("category filter changed")
}

// CycleCategory steps through all and then each known category.
func (a *App) CycleCategory() string {
	facets, selected := render.Facets(a.store.Tasks(), a.filter.Category)
	options := make([]string, 0, len(facets)+1)
	options = append(options, view.AllCategories)
	for _, f := range facets {
		options = append(options, f.Value)
	}
	next := options[0]
	for i, v := range options {
		if v == selected {
			next = options[(i+1)%len(options)]
			break
		}
	}
	a.SetCategory(next)
	return next
}

func (a *App) SetQuery(q string) {
	a.filter.Query = q
}

func (a *App) ClearQuery() {
	a.filter.Query = ""
}

func (a *App) ToggleSort() bool {
	a.filter = a.filter.ToggleSort()
	return a.filter.SortAsc
}

// dropStaleCategory resets the category filter to all once a mutation has
// removed the last task in the selected category.
func (a *App) dropStaleCategory() {
	if a.filter.Category == view.AllCategories {
		return
	}
	if _, selected := render.Facets(a.store.Tasks(), a.filter.Category); selected != a.filter.Category {
		a.SetCategory(view.AllCategories)
	}
}

// Board runs the filter pipeline and the renderer over the current state.
// The filter is applied as given; an unknown category matches nothing.
func (a *App) Board() render.Board {
	all := a.store.Tasks()
	b := render.Build(view.Apply(all, a.filter), all, a.filter.Category, a.now())
	for i := range b.Cards {
		b.Cards[i].Removing = a.removals.Pending(b.Cards[i].ID)
	}
	return b
}

func (a *App) Theme() storage.Theme {
	return a.theme
}

func (a *App) ToggleTheme() storage.Theme {
	a.theme = a.theme.Toggle()
	if a.backend != nil {
		if err := a.backend.SaveTheme(a.theme); err != nil {
			a.log.WithError(err).Error("error saving theme")
		}
	}
	return a.theme
}
