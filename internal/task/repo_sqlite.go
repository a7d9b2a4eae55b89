package task

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
	"github.com/Igor-TCA/kanban-calender-app/internal/store"
)

const tasksSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	title             TEXT NOT NULL,
	weekday           TEXT NOT NULL,
	status            TEXT NOT NULL,
	time_label        TEXT NOT NULL DEFAULT '',
	priority          INTEGER NOT NULL DEFAULT 3,
	origin            TEXT NOT NULL DEFAULT 'manual',
	source_time_label TEXT,
	source_column     INTEGER,
	created_on        TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);
`

// Columns added after the first released schema. Older databases are
// upgraded in place; rows predating created_on keep it empty, which the
// reconciliation duplicate check relies on.
var tasksLegacyColumns = []struct{ name, decl string }{
	{"priority", "INTEGER NOT NULL DEFAULT 3"},
	{"origin", "TEXT NOT NULL DEFAULT 'manual'"},
	{"source_time_label", "TEXT"},
	{"source_column", "INTEGER"},
	{"created_on", "TEXT NOT NULL DEFAULT ''"},
}

// SQLiteRepo persists board tasks in the shared SQLite database.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) (*SQLiteRepo, error) {
	if _, err := db.Exec(tasksSchema); err != nil {
		return nil, fmt.Errorf("create tasks schema: %w", err)
	}
	if err := migrateTasks(db); err != nil {
		return nil, fmt.Errorf("migrate tasks schema: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func migrateTasks(db *sql.DB) error {
	cols, err := store.TableColumns(db, "tasks")
	if err != nil {
		return err
	}
	for _, c := range tasksLegacyColumns {
		if cols[c.name] {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE tasks ADD COLUMN %s %s", c.name, c.decl)); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepo) Create(t model.Task) (model.Task, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	normalizeTask(&t)

	var srcLabel sql.NullString
	var srcColumn sql.NullInt64
	if t.SourceSlot != nil {
		srcLabel = sql.NullString{String: t.SourceSlot.TimeLabel, Valid: true}
		srcColumn = sql.NullInt64{Int64: int64(t.SourceSlot.Column), Valid: true}
	}

	res, err := r.db.Exec(`
		INSERT INTO tasks
			(title, weekday, status, time_label, priority, origin,
			 source_time_label, source_column, created_on, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.Title, string(t.Weekday), string(t.Status), t.TimeLabel,
		t.Priority, string(t.Origin), srcLabel, srcColumn,
		t.CreatedOn, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("task id: %w", err)
	}
	t.ID = id
	return t, nil
}

func (r *SQLiteRepo) Get(id int64) (model.Task, error) {
	row := r.db.QueryRow(selectTasks+" WHERE id = ?", id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepo) Move(id int64, day model.Weekday, status model.Status) (model.Task, error) {
	res, err := r.db.Exec(
		"UPDATE tasks SET weekday = ?, status = ?, updated_at = ? WHERE id = ?",
		string(day), string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("move task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Task{}, err
	}
	if n == 0 {
		return model.Task{}, ErrNotFound
	}
	return r.Get(id)
}

func (r *SQLiteRepo) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) ListByWeekday(day model.Weekday) ([]model.Task, error) {
	return r.list(selectTasks+" WHERE weekday = ? ORDER BY priority ASC, created_at ASC, id ASC", string(day))
}

func (r *SQLiteRepo) List() ([]model.Task, error) {
	return r.list(selectTasks + " ORDER BY priority ASC, created_at ASC, id ASC")
}

const selectTasks = `
	SELECT id, title, weekday, status, time_label, priority, origin,
	       source_time_label, source_column, created_on, created_at, updated_at
	FROM tasks`

func (r *SQLiteRepo) list(query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var (
		t         model.Task
		weekday   string
		status    string
		origin    string
		srcLabel  sql.NullString
		srcColumn sql.NullInt64
	)
	err := s.Scan(
		&t.ID, &t.Title, &weekday, &status, &t.TimeLabel, &t.Priority,
		&origin, &srcLabel, &srcColumn, &t.CreatedOn, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	t.Weekday = model.Weekday(weekday)
	t.Status = model.Status(status)
	t.Origin = model.Origin(origin)
	if srcLabel.Valid {
		t.SourceSlot = &model.Slot{TimeLabel: srcLabel.String, Column: int(srcColumn.Int64)}
	}
	return t, nil
}
