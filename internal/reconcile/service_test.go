package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Igor-TCA/kanban-calender-app/internal/grid"
	"github.com/Igor-TCA/kanban-calender-app/internal/model"
	"github.com/Igor-TCA/kanban-calender-app/internal/task"
	"github.com/Igor-TCA/kanban-calender-app/internal/telemetry"
)

// 2024-01-10 is a Wednesday.
var wednesday = time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) (*Service, *grid.MemoryRepo, *task.MemoryRepo, *telemetry.MemoryRepository) {
	t.Helper()
	g := grid.NewMemoryRepo()
	tasks := task.NewMemoryRepo()
	events := telemetry.NewMemoryRepository()
	svc := NewService(Repos{Grid: g, Tasks: tasks}, events, nil)
	return svc, g, tasks, events
}

func TestSynchronizeCreatesDueTasks(t *testing.T) {
	svc, g, tasks, _ := newFixture(t)

	if err := g.SaveCell("09:00", model.Wednesday.Column(), "Revisar contratos"); err != nil {
		t.Fatalf("save cell: %v", err)
	}
	if err := g.SaveCell("14:00", model.Wednesday.Column(), "[P1][semanal][2024-01-03] Reuniao de equipe"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.Errors)

	got, err := tasks.ListByWeekday(model.Wednesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if assert.Len(t, got, 2) {
		// Priority ordering puts P1 first.
		assert.Equal(t, "[14:00] [P1][semanal][2024-01-03] Reuniao de equipe", got[0].Title)
		assert.Equal(t, 1, got[0].Priority)
		assert.Equal(t, model.OriginSchedule, got[0].Origin)
		assert.Equal(t, model.StatusTodo, got[0].Status)
		assert.Equal(t, "2024-01-10", got[0].CreatedOn)
		if assert.NotNil(t, got[0].SourceSlot) {
			assert.Equal(t, "14:00", got[0].SourceSlot.TimeLabel)
		}
	}
}

func TestSynchronizeIdempotent(t *testing.T) {
	svc, g, _, _ := newFixture(t)

	for i, text := range []string{"Planejamento", "[diaria] Inbox zero", "[P0][semanal] Deploy"} {
		if err := g.SaveCell(fmt.Sprintf("0%d:00", 7+i), model.Wednesday.Column(), text); err != nil {
			t.Fatalf("save cell: %v", err)
		}
	}

	first := svc.Synchronize(wednesday)
	assert.Equal(t, 3, first.Created)
	assert.Equal(t, 0, first.Skipped)

	second := svc.Synchronize(wednesday)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Skipped)
	assert.Empty(t, second.Errors)
}

func TestSynchronizeWeekend(t *testing.T) {
	svc, g, tasks, _ := newFixture(t)

	if err := g.SaveCell("09:00", 0, "[diaria] Standup"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	saturday := time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)
	res := svc.Synchronize(saturday)
	assert.Equal(t, Result{Created: 0, Skipped: 0, Errors: []string{}}, res)

	got, err := tasks.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	assert.Empty(t, got)
}

func TestSynchronizeDailyIgnoresColumn(t *testing.T) {
	svc, g, tasks, _ := newFixture(t)

	// A daily activity stored in the Monday column is still due on Wednesday.
	if err := g.SaveCell("08:00", model.Monday.Column(), "[diaria] Checar e-mails"); err != nil {
		t.Fatalf("save cell: %v", err)
	}
	// A weekly one in the Monday column is not.
	if err := g.SaveCell("10:00", model.Monday.Column(), "[semanal] Retro"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 1, res.Created)

	got, err := tasks.ListByWeekday(model.Wednesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if assert.Len(t, got, 1) {
		assert.Equal(t, "[08:00] [diaria] Checar e-mails", got[0].Title)
		assert.Equal(t, model.Wednesday, got[0].Weekday)
	}
}

func TestSynchronizeNotDueSkipsSilently(t *testing.T) {
	svc, g, _, _ := newFixture(t)

	// Biweekly created 2024-01-03: due on the 3rd and the 17th, not the 10th.
	if err := g.SaveCell("09:00", model.Wednesday.Column(), "[quinzenal][2024-01-03] Um-a-um"); err != nil {
		t.Fatalf("save cell: %v", err)
	}
	// Once, already consumed on its creation date.
	if err := g.SaveCell("11:00", model.Wednesday.Column(), "[unica][2024-01-03] Dentista"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.Errors)
}

func TestSynchronizeDuplicateRules(t *testing.T) {
	svc, g, tasks, _ := newFixture(t)

	if err := g.SaveCell("09:00", model.Wednesday.Column(), "[diaria] Standup"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	// Same title materialized today.
	_, err := tasks.Create(model.Task{
		Title:     "[09:00] [diaria] Standup",
		Weekday:   model.Wednesday,
		Status:    model.StatusDone,
		Origin:    model.OriginSchedule,
		CreatedOn: "2024-01-10",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Skipped)
}

func TestSynchronizeLegacyDuplicateRule(t *testing.T) {
	svc, g, tasks, _ := newFixture(t)

	if err := g.SaveCell("09:00", model.Wednesday.Column(), "[diaria] Standup"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	// A record from before creation dates were tracked blocks on title alone.
	_, err := tasks.Create(model.Task{
		Title:   "[09:00] [diaria] Standup",
		Weekday: model.Wednesday,
		Status:  model.StatusDone,
		Origin:  model.OriginSchedule,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Skipped)
}

func TestSynchronizeManualTaskDoesNotBlock(t *testing.T) {
	svc, g, tasks, _ := newFixture(t)

	if err := g.SaveCell("09:00", model.Wednesday.Column(), "[diaria] Standup"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	// Same title, but created by hand: not a duplicate.
	_, err := tasks.Create(model.Task{
		Title:     "[09:00] [diaria] Standup",
		Weekday:   model.Wednesday,
		Status:    model.StatusTodo,
		Origin:    model.OriginManual,
		CreatedOn: "2024-01-10",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Skipped)
}

type failingStore struct {
	cellsErr  error
	tasksErr  error
	createErr error
	inner     Store
}

func (f failingStore) GridCells() ([]model.GridCell, error) {
	if f.cellsErr != nil {
		return nil, f.cellsErr
	}
	return f.inner.GridCells()
}

func (f failingStore) TasksForWeekday(day model.Weekday) ([]model.Task, error) {
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	return f.inner.TasksForWeekday(day)
}

func (f failingStore) CreateTask(t model.Task) (model.Task, error) {
	if f.createErr != nil {
		return model.Task{}, f.createErr
	}
	return f.inner.CreateTask(t)
}

func TestSynchronizeFatalReadError(t *testing.T) {
	store := failingStore{cellsErr: errors.New("disk gone")}
	svc := NewService(store, nil, nil)

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 0, res.Skipped)
	if assert.Len(t, res.Errors, 1) {
		assert.Contains(t, res.Errors[0], "disk gone")
	}
}

func TestSynchronizeCreateFailuresCollected(t *testing.T) {
	g := grid.NewMemoryRepo()
	tasks := task.NewMemoryRepo()
	if err := g.SaveCell("09:00", model.Wednesday.Column(), "Primeira"); err != nil {
		t.Fatalf("save cell: %v", err)
	}
	if err := g.SaveCell("10:00", model.Wednesday.Column(), "Segunda"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	store := failingStore{createErr: errors.New("insert failed"), inner: Repos{Grid: g, Tasks: tasks}}
	svc := NewService(store, nil, nil)

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 0, res.Created)
	assert.Len(t, res.Errors, 2)
}

func TestSynchronizeRecordsRunEvent(t *testing.T) {
	svc, g, _, events := newFixture(t)

	if err := g.SaveCell("09:00", model.Wednesday.Column(), "Plantar alface"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 1, res.Created)

	got, err := events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventSyncCompleted})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if assert.Len(t, got, 1) {
		var meta telemetry.EventMetadata
		if err := json.Unmarshal([]byte(got[0].Metadata), &meta); err != nil {
			t.Fatalf("metadata: %v", err)
		}
		assert.Equal(t, "2024-01-10", meta["day"])
		assert.Equal(t, float64(1), meta["created"])
	}
}

func TestSynchronizeRecordsTaskCreatedEvents(t *testing.T) {
	svc, g, _, events := newFixture(t)

	if err := g.SaveCell("09:00", model.Wednesday.Column(), "Plantar alface"); err != nil {
		t.Fatalf("save cell: %v", err)
	}
	if err := g.SaveCell("10:00", model.Wednesday.Column(), "[P2][diaria] Regar horta"); err != nil {
		t.Fatalf("save cell: %v", err)
	}

	res := svc.Synchronize(wednesday)
	assert.Equal(t, 2, res.Created)

	// Sync-created tasks count in the event log like manual ones do.
	got, err := events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventTaskCreated})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if assert.Len(t, got, 2) {
		var meta telemetry.EventMetadata
		if err := json.Unmarshal([]byte(got[0].Metadata), &meta); err != nil {
			t.Fatalf("metadata: %v", err)
		}
		assert.Equal(t, string(model.OriginSchedule), meta["origin"])
	}

	// The skipped duplicates of a second run record nothing new.
	_ = svc.Synchronize(wednesday)
	got, err = events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventTaskCreated})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	assert.Len(t, got, 2)
}
