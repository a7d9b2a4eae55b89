package serverapp

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/config"
	"github.com/Igor-TCA/kanban-calender-app/internal/grid"
	"github.com/Igor-TCA/kanban-calender-app/internal/httpmw"
	"github.com/Igor-TCA/kanban-calender-app/internal/reconcile"
	"github.com/Igor-TCA/kanban-calender-app/internal/store"
	"github.com/Igor-TCA/kanban-calender-app/internal/task"
	"github.com/Igor-TCA/kanban-calender-app/internal/telemetry"
	"github.com/Igor-TCA/kanban-calender-app/internal/worker"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
}

// Server wires repositories, services and handlers into one http.Handler.
// Close releases the worker pool and, for SQLite storage, the database.
type Server struct {
	Handler http.Handler
	Tasks   *task.Service
	Grid    *grid.Service

	pool *worker.Pool
	db   *sql.DB
}

func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := opts.Config

	var (
		taskRepo task.Repo
		gridRepo grid.Repo
		db       *sql.DB
	)
	switch cfg.Storage.Driver {
	case "memory":
		taskRepo = task.NewMemoryRepo()
		gridRepo = grid.NewMemoryRepo()
	default:
		var err error
		db, err = store.Open(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		taskRepo, err = task.NewSQLiteRepo(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		gridRepo, err = grid.NewSQLiteRepo(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	events := telemetry.NewMemoryRepository()
	taskService := task.NewService(taskRepo, events, opts.Logger)
	gridService := grid.NewService(gridRepo, events, opts.Logger)
	syncService := reconcile.NewService(
		reconcile.Repos{Grid: gridRepo, Tasks: taskRepo}, events, opts.Logger)

	if err := gridService.EnsureDefaultLabels(cfg.Grid.DayStartHour, cfg.Grid.DayEndHour); err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	pool := worker.New(cfg.Sync.Workers, cfg.Sync.QueueSize)

	if cfg.Sync.OnStartup {
		if err := pool.Submit(func() { syncService.Synchronize(time.Now()) }); err != nil {
			opts.Logger.Printf("[serverapp] startup sync: %v", err)
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "planner",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := taskRepo.List(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		if _, err := gridRepo.TimeLabels(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "grid storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "planner",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	taskHandler := task.NewHandler(taskService)
	mux.HandleFunc("/api/tasks", taskHandler.TasksRoot)
	mux.HandleFunc("/api/tasks/", taskHandler.TasksSub)

	gridHandler := grid.NewHandler(gridService)
	mux.HandleFunc("/api/grid/cells", gridHandler.Cells)
	mux.HandleFunc("/api/grid/slots", gridHandler.SlotsRoot)
	mux.HandleFunc("/api/grid/slots/", gridHandler.SlotsSub)

	syncHandler := reconcile.NewHandler(syncService, pool, events)
	mux.HandleFunc("/api/sync", syncHandler.Sync)
	mux.HandleFunc("/api/sync/history", syncHandler.History)

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	handler := httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	)

	return &Server{
		Handler: handler,
		Tasks:   taskService,
		Grid:    gridService,
		pool:    pool,
		db:      db,
	}, nil
}

func (s *Server) Close() error {
	s.pool.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
