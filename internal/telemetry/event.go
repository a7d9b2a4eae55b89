package telemetry

import "time"

type EventType string

const (
	EventTaskCreated   EventType = "task_created"
	EventTaskMoved     EventType = "task_moved"
	EventTaskDeleted   EventType = "task_deleted"
	EventGridCellSaved EventType = "grid_cell_saved"
	EventSlotAdded     EventType = "slot_added"
	EventSlotRemoved   EventType = "slot_removed"
	EventSyncCompleted EventType = "sync_completed"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
