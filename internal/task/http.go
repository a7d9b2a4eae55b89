package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if dayParam := strings.TrimSpace(r.URL.Query().Get("weekday")); dayParam != "" {
			day, ok := model.ParseWeekday(dayParam)
			if !ok {
				writeErr(w, 400, "unknown weekday")
				return
			}
			ts, err := h.svc.ForWeekday(day)
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, ts)
			return
		}
		ts, err := h.svc.All()
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, ts)
		return

	case http.MethodPost:
		var in struct {
			Title     string `json:"title"`
			Weekday   string `json:"weekday"`
			Status    string `json:"status"`
			TimeLabel string `json:"timeLabel"`
			Priority  *int   `json:"priority"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		day, ok := model.ParseWeekday(in.Weekday)
		if !ok {
			writeErr(w, 400, "unknown weekday")
			return
		}
		priority := model.DefaultPriority
		if in.Priority != nil {
			priority = *in.Priority
		}

		t, err := h.svc.Create(CreateInput{
			Title:     in.Title,
			Weekday:   day,
			Status:    model.Status(strings.TrimSpace(in.Status)),
			TimeLabel: in.TimeLabel,
			Priority:  priority,
			Origin:    model.OriginManual,
		})
		if err != nil {
			if errors.Is(err, ErrEmptyTitle) || errors.Is(err, ErrInvalidStatus) {
				writeErr(w, 400, err.Error())
				return
			}
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 201, t)
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/tasks/{id}
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tasks/"), "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}
	id, err := strconv.ParseInt(tail, 10, 64)
	if err != nil {
		writeErr(w, 404, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := h.svc.Get(id)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, t)
		return

	case http.MethodPatch:
		var in struct {
			Weekday string `json:"weekday"`
			Status  string `json:"status"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		day, ok := model.ParseWeekday(in.Weekday)
		if !ok {
			writeErr(w, 400, "unknown weekday")
			return
		}
		status, ok := model.ParseStatus(in.Status)
		if !ok {
			writeErr(w, 400, "unknown status")
			return
		}

		t, err := h.svc.Move(id, day, status)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, t)
		return

	case http.MethodDelete:
		err := h.svc.Delete(id)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}
