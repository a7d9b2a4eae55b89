package grid

import (
	"sort"
	"sync"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

// MemoryRepo keeps the grid in mutex-guarded maps.
type MemoryRepo struct {
	mu     sync.RWMutex
	labels map[string]bool
	cells  map[model.Slot]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		labels: map[string]bool{},
		cells:  map[model.Slot]string{},
	}
}

func (r *MemoryRepo) SaveCell(timeLabel string, column int, text string) error {
	if column < 0 || column > 4 {
		return ErrInvalidColumn
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.labels[timeLabel] = true
	slot := model.Slot{TimeLabel: timeLabel, Column: column}
	if text == "" {
		delete(r.cells, slot)
		return nil
	}
	r.cells[slot] = text
	return nil
}

func (r *MemoryRepo) Cells() ([]model.GridCell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.GridCell, 0, len(r.cells))
	for slot, text := range r.cells {
		out = append(out, model.GridCell{TimeLabel: slot.TimeLabel, Column: slot.Column, Text: text})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimeLabel != out[j].TimeLabel {
			return out[i].TimeLabel < out[j].TimeLabel
		}
		return out[i].Column < out[j].Column
	})
	return out, nil
}

func (r *MemoryRepo) TimeLabels() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.labels))
	for l := range r.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepo) AddTimeLabel(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.labels[label] = true
	return nil
}

func (r *MemoryRepo) RemoveTimeLabel(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.labels[label] {
		return ErrLabelNotFound
	}
	delete(r.labels, label)
	for slot := range r.cells {
		if slot.TimeLabel == label {
			delete(r.cells, slot)
		}
	}
	return nil
}
