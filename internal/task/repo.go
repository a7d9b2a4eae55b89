package task

import (
	"errors"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

var (
	ErrNotFound       = errors.New("task not found")
	ErrEmptyTitle     = errors.New("task title is empty")
	ErrInvalidWeekday = errors.New("invalid weekday")
	ErrInvalidStatus  = errors.New("invalid status")
)

// Repo is the board-task store. Implementations assign IDs on Create.
type Repo interface {
	Create(t model.Task) (model.Task, error)
	Get(id int64) (model.Task, error)
	// Move changes a task's weekday column and/or kanban status.
	Move(id int64, day model.Weekday, status model.Status) (model.Task, error)
	Delete(id int64) error
	// ListByWeekday returns the column's tasks ordered by priority (critical
	// first), then creation time.
	ListByWeekday(day model.Weekday) ([]model.Task, error)
	List() ([]model.Task, error)
}

func normalizeTask(t *model.Task) {
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if t.Origin == "" {
		t.Origin = model.OriginManual
	}
	t.Priority = model.ClampPriority(t.Priority)
}

func lessTasks(a, b model.Task) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
