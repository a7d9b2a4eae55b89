package grid

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
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

// /api/grid/cells
func (h *Handler) Cells(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cells, err := h.svc.Cells()
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, cells)
		return

	case http.MethodPut:
		var in struct {
			TimeLabel string `json:"timeLabel"`
			Column    int    `json:"column"`
			Text      string `json:"text"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if err := h.svc.SaveActivity(in.TimeLabel, in.Column, in.Text); err != nil {
			if errors.Is(err, ErrInvalidColumn) || errors.Is(err, ErrInvalidLabel) {
				writeErr(w, 400, err.Error())
				return
			}
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

// /api/grid/slots  (collection)
func (h *Handler) SlotsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		labels, err := h.svc.OrderedTimeLabels()
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, labels)
		return

	case http.MethodPost:
		var in struct {
			Label string `json:"label"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if err := h.svc.AddTimeLabel(in.Label); err != nil {
			if errors.Is(err, ErrInvalidLabel) {
				writeErr(w, 400, err.Error())
				return
			}
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 201, map[string]any{"ok": true})
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/grid/slots/{label}
func (h *Handler) SlotsSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/grid/slots/"), "/")
	label, err := url.PathUnescape(tail)
	if err != nil || label == "" {
		writeErr(w, 404, "not found")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		err := h.svc.RemoveTimeLabel(label)
		if errors.Is(err, ErrLabelNotFound) {
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
