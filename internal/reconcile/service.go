// Package reconcile projects due grid activities into board tasks: at most
// one schedule-origin task per (slot, calendar date).
package reconcile

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
	"github.com/Igor-TCA/kanban-calender-app/internal/schedule"
	"github.com/Igor-TCA/kanban-calender-app/internal/telemetry"
)

// Store is the persistence contract the engine consumes.
type Store interface {
	GridCells() ([]model.GridCell, error)
	TasksForWeekday(day model.Weekday) ([]model.Task, error)
	CreateTask(t model.Task) (model.Task, error)
}

// Result summarizes one reconciliation run.
type Result struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// Service runs the grid-to-board synchronization. The mutex serializes runs:
// the duplicate-check-then-insert sequence is not atomic, so two concurrent
// runs against the same store could both pass the check.
type Service struct {
	mu     sync.Mutex
	store  Store
	events telemetry.Repository
	logger *log.Logger
}

func NewService(store Store, events telemetry.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: store, events: events, logger: logger}
}

// Synchronize materializes every activity due on today as a to-do board
// task, skipping activities already materialized for today. Idempotent: a
// second run on an unchanged grid creates nothing.
//
// A grid read failure aborts the run with zero counts and a single error;
// per-item creation failures are collected and do not stop the loop.
func (s *Service) Synchronize(today time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Errors: []string{}}

	day, ok := model.WeekdayForDate(today)
	if !ok {
		// Weekend: there is no column for today.
		s.logger.Printf("[sync] %s is a weekend, nothing to do", today.Format(model.DateLayout))
		return res
	}
	column := day.Column()
	todayStr := today.Format(model.DateLayout)

	cells, err := s.store.GridCells()
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("read grid cells: %v", err))
		return res
	}

	existing, err := s.store.TasksForWeekday(day)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("read board tasks: %v", err))
		return res
	}

	for _, cell := range cells {
		text := strings.TrimSpace(cell.Text)
		if text == "" {
			continue
		}

		meta := schedule.Decode(text)

		// Daily activities are due regardless of which column they were
		// stored in; everything else only competes in today's column.
		if cell.Column != column && meta.Recurrence != schedule.Daily {
			continue
		}

		createdOn := meta.CreatedOn
		if createdOn.IsZero() {
			// No date tag: treat the activity as created today.
			createdOn = today
		}
		if !schedule.IsDue(today, meta.Recurrence, createdOn) {
			continue
		}

		title := "[" + cell.TimeLabel + "] " + text

		if alreadyMaterialized(existing, title, todayStr) {
			res.Skipped++
			continue
		}

		slot := cell.Slot()
		created, err := s.store.CreateTask(model.Task{
			Title:      title,
			Weekday:    day,
			Status:     model.StatusTodo,
			TimeLabel:  cell.TimeLabel,
			Priority:   meta.Priority,
			Origin:     model.OriginSchedule,
			SourceSlot: &slot,
			CreatedOn:  todayStr,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("create task %q: %v", title, err))
			continue
		}

		existing = append(existing, created)
		res.Created++
		s.record(telemetry.EventTaskCreated, telemetry.EventMetadata{
			"id": created.ID, "title": created.Title, "weekday": created.Weekday, "origin": created.Origin,
		})
		s.logger.Printf("[sync] created task %d %q (P%d)", created.ID, title, meta.Priority)
	}

	s.logger.Printf("[sync] %s done: %d created, %d skipped, %d errors",
		todayStr, res.Created, res.Skipped, len(res.Errors))
	s.recordRun(todayStr, res)
	return res
}

// alreadyMaterialized applies the dual duplicate rule: a schedule-origin
// task with the same title created today, or any schedule-origin task with
// the same title whose record predates creation-date tracking. The legacy
// rule can false-positive when titles collide across days; narrowing it
// would change observable behavior against old databases.
func alreadyMaterialized(tasks []model.Task, title, today string) bool {
	for _, t := range tasks {
		if t.Title != title || t.Origin != model.OriginSchedule {
			continue
		}
		if t.CreatedOn == today {
			return true
		}
		if t.CreatedOn == "" {
			return true
		}
	}
	return false
}

func (s *Service) recordRun(day string, res Result) {
	s.record(telemetry.EventSyncCompleted, telemetry.EventMetadata{
		"day":     day,
		"created": res.Created,
		"skipped": res.Skipped,
		"errors":  len(res.Errors),
	})
}

func (s *Service) record(typ telemetry.EventType, meta telemetry.EventMetadata) {
	if s.events == nil {
		return
	}
	if err := s.events.RecordEvent(typ, meta); err != nil {
		s.logger.Printf("[sync] record event %s: %v", typ, err)
	}
}

// Repos adapts the domain repositories to the Store contract.
type Repos struct {
	Grid  GridRepo
	Tasks TaskRepo
}

// GridRepo is the slice of the grid repository the engine needs.
type GridRepo interface {
	Cells() ([]model.GridCell, error)
}

// TaskRepo is the slice of the task repository the engine needs.
type TaskRepo interface {
	ListByWeekday(day model.Weekday) ([]model.Task, error)
	Create(t model.Task) (model.Task, error)
}

func (r Repos) GridCells() ([]model.GridCell, error) { return r.Grid.Cells() }

func (r Repos) TasksForWeekday(day model.Weekday) ([]model.Task, error) {
	return r.Tasks.ListByWeekday(day)
}

func (r Repos) CreateTask(t model.Task) (model.Task, error) { return r.Tasks.Create(t) }
