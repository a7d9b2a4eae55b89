package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

func TestMemoryRepoCRUD(t *testing.T) {
	r := NewMemoryRepo()

	created, err := r.Create(model.Task{Title: "Pagar contas", Weekday: model.Monday})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.StatusTodo, created.Status)
	assert.Equal(t, model.OriginManual, created.Origin)
	assert.Equal(t, model.DefaultPriority, created.Priority)

	got, err := r.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	assert.Equal(t, created.Title, got.Title)

	moved, err := r.Move(created.ID, model.Friday, model.StatusDone)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	assert.Equal(t, model.Friday, moved.Weekday)
	assert.Equal(t, model.StatusDone, moved.Status)

	if err := r.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = r.Get(created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryRepoNotFound(t *testing.T) {
	r := NewMemoryRepo()

	_, err := r.Get(99)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = r.Move(99, model.Monday, model.StatusTodo)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(r.Delete(99), ErrNotFound))
}

func TestMemoryRepoListByWeekdayOrdering(t *testing.T) {
	r := NewMemoryRepo()

	for _, tc := range []struct {
		title    string
		priority int
	}{
		{"baixa", 3},
		{"critica", 0},
		{"media", 2},
	} {
		_, err := r.Create(model.Task{Title: tc.title, Weekday: model.Tuesday, Priority: tc.priority})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_, err := r.Create(model.Task{Title: "outra coluna", Weekday: model.Friday})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := r.ListByWeekday(model.Tuesday)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if assert.Len(t, got, 3) {
		assert.Equal(t, "critica", got[0].Title)
		assert.Equal(t, "media", got[1].Title)
		assert.Equal(t, "baixa", got[2].Title)
	}

	all, err := r.List()
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	assert.Len(t, all, 4)
}
