package reconcile

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/telemetry"
	"github.com/Igor-TCA/kanban-calender-app/internal/worker"
)

type Handler struct {
	svc    *Service
	pool   *worker.Pool
	events telemetry.Repository
}

func NewHandler(svc *Service, pool *worker.Pool, events telemetry.Repository) *Handler {
	return &Handler{svc: svc, pool: pool, events: events}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// /api/sync triggers a synchronization run for today. The run itself happens
// on the worker pool so that concurrent triggers queue instead of piling up
// on the handler goroutines.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}

	done := make(chan Result, 1)
	err := worker.Async(h.pool, func() (Result, error) {
		return h.svc.Synchronize(time.Now()), nil
	}, func(res Result) { done <- res }, nil)
	if errors.Is(err, worker.ErrQueueFull) {
		writeErr(w, 503, "sync queue full")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	select {
	case res := <-done:
		writeJSON(w, 200, res)
	case <-r.Context().Done():
		writeErr(w, 499, "client closed request")
	}
}

// /api/sync/history reports past synchronization runs from the event log.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	if h.events == nil {
		writeJSON(w, 200, map[string]any{"runs": []telemetry.Event{}})
		return
	}

	runs, err := h.events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventSyncCompleted})
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	stats, err := telemetry.CalculateSyncStats(runs, time.Time{})
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"runs": runs, "stats": stats})
}
