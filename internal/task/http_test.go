package task

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(NewMemoryRepo(), nil, nil))
}

func TestHandlerCreateAndList(t *testing.T) {
	h := newTestHandler()

	body := `{"title":"Pagar contas","weekday":"monday","priority":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.TasksRoot(rec, req)
	assert.Equal(t, 201, rec.Code)

	var created model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assert.Equal(t, "Pagar contas", created.Title)
	assert.Equal(t, 1, created.Priority)

	req = httptest.NewRequest(http.MethodGet, "/api/tasks?weekday=monday", nil)
	rec = httptest.NewRecorder()
	h.TasksRoot(rec, req)
	assert.Equal(t, 200, rec.Code)

	var listed []model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assert.Len(t, listed, 1)
}

func TestHandlerCreateValidation(t *testing.T) {
	h := newTestHandler()

	for _, body := range []string{
		`{"title":"","weekday":"monday"}`,
		`{"title":"ok","weekday":"sunday"}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.TasksRoot(rec, req)
		assert.Equal(t, 400, rec.Code, "body %s", body)
	}
}

func TestHandlerMoveAndDelete(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/tasks",
		strings.NewReader(`{"title":"mover","weekday":"monday"}`))
	rec := httptest.NewRecorder()
	h.TasksRoot(rec, req)
	if rec.Code != 201 {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	url := fmt.Sprintf("/api/tasks/%d", created.ID)
	req = httptest.NewRequest(http.MethodPatch, url,
		strings.NewReader(`{"weekday":"friday","status":"done"}`))
	rec = httptest.NewRecorder()
	h.TasksSub(rec, req)
	assert.Equal(t, 200, rec.Code)

	var moved model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &moved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assert.Equal(t, model.Friday, moved.Weekday)
	assert.Equal(t, model.StatusDone, moved.Status)

	req = httptest.NewRequest(http.MethodDelete, url, nil)
	rec = httptest.NewRecorder()
	h.TasksSub(rec, req)
	assert.Equal(t, 200, rec.Code)

	req = httptest.NewRequest(http.MethodGet, url, nil)
	rec = httptest.NewRecorder()
	h.TasksSub(rec, req)
	assert.Equal(t, 404, rec.Code)
}

func TestHandlerBadID(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/abc", nil)
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	assert.Equal(t, 404, rec.Code)
}
