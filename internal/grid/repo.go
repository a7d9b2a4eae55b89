// Package grid holds the weekly template grid: time-labelled rows crossing
// the five business-day columns, each cell storing one encoded activity.
package grid

import (
	"errors"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

var (
	ErrLabelNotFound = errors.New("time label not found")
	ErrInvalidColumn = errors.New("column out of range")
	ErrInvalidLabel  = errors.New("time label must be HH:MM")
)

// Repo is the grid store. Saving an empty text clears a cell; removing a
// time label removes the whole row with it.
type Repo interface {
	SaveCell(timeLabel string, column int, text string) error
	Cells() ([]model.GridCell, error)

	TimeLabels() ([]string, error)
	AddTimeLabel(label string) error
	RemoveTimeLabel(label string) error
}
