package storage

import (
	"strings"

	"github.com/bytedance/sonic"

	"taskgrid/internal/task"
)

const (
	TasksKey = "taskManager_v1"
	ThemeKey = "taskManager_theme"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// LoadTasks never fails: a missing, unreadable, or malformed collection is
// logged and read as empty.
func (s *Store) LoadTasks() []task.Task {
	raw, ok, err := s.Get(TasksKey)
	if err != nil {
		s.log.WithError(err).Error("error loading tasks")
		return []task.Task{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []task.Task{}
	}
	var tasks []task.Task
	if err := sonic.UnmarshalString(raw, &tasks); err != nil {
		s.log.WithError(err).Warn("stored tasks are corrupt, starting empty")
		return []task.Task{}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	s.log.WithField("count", len(tasks)).Debug("tasks read from storage")
	return tasks
}

func (s *Store) SaveTasks(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	raw, err := sonic.MarshalString(tasks)
	if err != nil {
		return err
	}
	if err := s.Set(TasksKey, raw); err != nil {
		return err
	}
	s.log.WithField("count", len(tasks)).Debug("tasks saved")
	return nil
}

func (s *Store) LoadTheme() Theme {
	v, _, err := s.Get(ThemeKey)
	if err != nil {
		s.log.WithError(err).Warn("error loading theme")
	}
	if Theme(v) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (s *Store) SaveTheme(t Theme) error {
	return s.Set(ThemeKey, string(t))
}
