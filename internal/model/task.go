package model

import (
	"time"
)

// Slot identifies a cell in the weekly grid: a time row and a weekday column.
type Slot struct {
	TimeLabel string `json:"timeLabel"`
	Column    int    `json:"column"`
}

// GridCell is a slot together with the encoded activity text stored in it.
// Empty text means the cell is unoccupied.
type GridCell struct {
	TimeLabel string `json:"timeLabel"`
	Column    int    `json:"column"`
	Text      string `json:"text"`
}

func (c GridCell) Slot() Slot {
	return Slot{TimeLabel: c.TimeLabel, Column: c.Column}
}

// Task is a board task: one kanban card on one weekday column.
//
// CreatedOn is the calendar date the task was created (DateLayout); tasks
// written before creation-date tracking existed have it empty, which the
// reconciliation duplicate check must tolerate.
type Task struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Weekday   Weekday `json:"weekday"`
	Status    Status  `json:"status"`
	TimeLabel string  `json:"timeLabel,omitempty"`
	Priority  int     `json:"priority"`
	Origin    Origin  `json:"origin"`

	// SourceSlot records which grid cell a schedule-origin task came from.
	// Informational only; it is not a foreign key.
	SourceSlot *Slot `json:"sourceSlot,omitempty"`

	CreatedOn string `json:"createdOn,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
