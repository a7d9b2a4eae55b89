package telemetry

import (
	"encoding/json"
	"time"
)

// SyncStats aggregates reconciliation runs recorded since a given date.
type SyncStats struct {
	Period       string            `json:"period"`
	EventCounts  map[EventType]int `json:"event_counts"`
	SyncRuns     int               `json:"sync_runs"`
	TasksCreated int               `json:"tasks_created"`
	TasksSkipped int               `json:"tasks_skipped"`
	SyncErrors   int               `json:"sync_errors"`
}

// CalculateSyncStats computes run totals from recorded events.
func CalculateSyncStats(events []Event, since time.Time) (SyncStats, error) {
	stats := SyncStats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		if event.Type != EventSyncCompleted {
			continue
		}
		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}
		stats.SyncRuns++
		stats.TasksCreated += intField(metadata, "created")
		stats.TasksSkipped += intField(metadata, "skipped")
		stats.SyncErrors += intField(metadata, "errors")
	}

	return stats, nil
}

func intField(m EventMetadata, key string) int {
	// JSON numbers decode as float64.
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return 0
}
