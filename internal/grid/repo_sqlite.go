package grid

import (
	"database/sql"
	"fmt"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

const gridSchema = `
CREATE TABLE IF NOT EXISTS time_slots (
	label TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS grid_cells (
	time_label TEXT NOT NULL,
	column_idx INTEGER NOT NULL,
	activity   TEXT NOT NULL,
	PRIMARY KEY (time_label, column_idx)
);
`

// SQLiteRepo persists the grid in the shared SQLite database.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) (*SQLiteRepo, error) {
	if _, err := db.Exec(gridSchema); err != nil {
		return nil, fmt.Errorf("create grid schema: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) SaveCell(timeLabel string, column int, text string) error {
	if column < 0 || column > 4 {
		return ErrInvalidColumn
	}
	if _, err := r.db.Exec(
		"INSERT OR IGNORE INTO time_slots (label) VALUES (?)", timeLabel,
	); err != nil {
		return fmt.Errorf("ensure time slot: %w", err)
	}
	if text == "" {
		if _, err := r.db.Exec(
			"DELETE FROM grid_cells WHERE time_label = ? AND column_idx = ?",
			timeLabel, column,
		); err != nil {
			return fmt.Errorf("clear cell: %w", err)
		}
		return nil
	}
	if _, err := r.db.Exec(
		"INSERT OR REPLACE INTO grid_cells (time_label, column_idx, activity) VALUES (?,?,?)",
		timeLabel, column, text,
	); err != nil {
		return fmt.Errorf("save cell: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Cells() ([]model.GridCell, error) {
	rows, err := r.db.Query(
		"SELECT time_label, column_idx, activity FROM grid_cells ORDER BY time_label, column_idx",
	)
	if err != nil {
		return nil, fmt.Errorf("read cells: %w", err)
	}
	defer rows.Close()

	out := make([]model.GridCell, 0)
	for rows.Next() {
		var c model.GridCell
		if err := rows.Scan(&c.TimeLabel, &c.Column, &c.Text); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) TimeLabels() ([]string, error) {
	rows, err := r.db.Query("SELECT label FROM time_slots ORDER BY label")
	if err != nil {
		return nil, fmt.Errorf("read time slots: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) AddTimeLabel(label string) error {
	if _, err := r.db.Exec("INSERT OR IGNORE INTO time_slots (label) VALUES (?)", label); err != nil {
		return fmt.Errorf("add time slot: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) RemoveTimeLabel(label string) error {
	res, err := r.db.Exec("DELETE FROM time_slots WHERE label = ?", label)
	if err != nil {
		return fmt.Errorf("remove time slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLabelNotFound
	}
	if _, err := r.db.Exec("DELETE FROM grid_cells WHERE time_label = ?", label); err != nil {
		return fmt.Errorf("remove row cells: %w", err)
	}
	return nil
}
