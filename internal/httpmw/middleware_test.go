package httpmw

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func TestWithRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})
	h := WithRequestID(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	generated := rec.Header().Get("X-Request-Id")
	if generated == "" {
		t.Fatalf("expected a generated request id header")
	}
	assert.Equal(t, generated, seen)

	// A caller-supplied id is kept.
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "abc-123", seen)
}

func TestWithRecoverServesJSONOnAPIPaths(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := WithRecover(logger)(panicking)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body, got %q", rec.Body.String())
	}
	assert.Equal(t, "internal server error", body["error"])
	assert.Contains(t, logs.String(), "panic_recovered")
	assert.Contains(t, logs.String(), "boom")
}

func TestWithAccessLogAnnotatesBoardDay(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	h := WithAccessLog(logger)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/grid/cells", nil))

	line := strings.TrimSpace(logs.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("access log is not JSON: %q", line)
	}
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "/api/grid/cells", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])

	want := "weekend"
	if day, ok := model.WeekdayForDate(time.Now()); ok {
		want = day.String()
	}
	assert.Equal(t, want, entry["day"])
}

func TestWithAccessLogSkipsHealthEndpoints(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	h := WithAccessLog(logger)(okHandler())
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Empty(t, logs.String())
}

func TestWithAccessLogWarnsOnSlowRequests(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(slowRequestThreshold)
	})
	h := WithAccessLog(logger)(slow)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(logs.String())), &entry); err != nil {
		t.Fatalf("access log is not JSON: %q", logs.String())
	}
	assert.Equal(t, "warn", entry["level"])
}

func TestChainAppliesOutermostFirst(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mw("outer"), mw("inner"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
