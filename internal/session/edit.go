package session

import (
	"errors"

	"taskgrid/internal/task"
)

var ErrNotEditing = errors.New("no task is being edited")

// Editor is the part of the task store an edit session needs.
type Editor interface {
	Get(id string) (task.Task, bool)
	Update(id string, fields task.Fields) (task.Task, error)
}

// Edit tracks the task currently open in the edit dialog. Nothing reaches
// the store until Save succeeds.
type Edit struct {
	store  Editor
	taskID string
	draft  task.Fields
}

func NewEdit(store Editor) *Edit {
	return &Edit{store: store}
}

// Open starts editing id and returns the task's current values.
func (e *Edit) Open(id string) (task.Fields, error) {
	t, ok := e.store.Get(id)
	if !ok {
		return task.Fields{}, task.ErrNotFound
	}
	e.taskID = t.ID
	e.draft = t.Fields()
	return e.draft, nil
}

func (e *Edit) Active() bool {
	return e.taskID != ""
}

func (e *Edit) TaskID() string {
	return e.taskID
}

func (e *Edit) Draft() task.Fields {
	return e.draft
}

// Save validates fields and writes them to the store. On a validation error
// the session stays open so the user can correct the input.
func (e *Edit) Save(fields task.Fields) (task.Task, error) {
	if !e.Active() {
		return task.Task{}, ErrNotEditing
	}
	e.draft = fields
	if _, err := fields.Normalize(); err != nil {
		return task.Task{}, err
	}
	t, err := e.store.Update(e.taskID, fields)
	if err != nil && !errors.Is(err, task.ErrNotFound) {
		return task.Task{}, err
	}
	e.Cancel()
	return t, err
}

// Cancel closes the session without touching the store.
func (e *Edit) Cancel() {
	e.taskID = ""
	e.draft = task.Fields{}
}
