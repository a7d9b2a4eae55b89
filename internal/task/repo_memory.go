package task

import (
	"sort"
	"sync"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

// MemoryRepo keeps tasks in a mutex-guarded map. Used by the dev server and
// all over the tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	tasks  map[int64]model.Task
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: map[int64]model.Task{}}
}

func (r *MemoryRepo) Create(t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now()
	t.ID = r.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	normalizeTask(&t)

	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Get(id int64) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) Move(id int64, day model.Weekday, status model.Status) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	t.Weekday = day
	t.Status = status
	t.UpdatedAt = time.Now()
	r.tasks[id] = t
	return t, nil
}

func (r *MemoryRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepo) ListByWeekday(day model.Weekday) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0)
	for _, t := range r.tasks {
		if t.Weekday == day {
			out = append(out, t)
		}
	}
	sortTasks(out)
	return out, nil
}

func (r *MemoryRepo) List() ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sortTasks(out)
	return out, nil
}

func sortTasks(ts []model.Task) {
	sort.Slice(ts, func(i, j int) bool { return lessTasks(ts[i], ts[j]) })
}
