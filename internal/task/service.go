package task

import (
	"log"
	"strings"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
	"github.com/Igor-TCA/kanban-calender-app/internal/telemetry"
)

// Service owns board-task business rules on top of a Repo.
type Service struct {
	repo   Repo
	events telemetry.Repository
	logger *log.Logger
}

func NewService(repo Repo, events telemetry.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{repo: repo, events: events, logger: logger}
}

// CreateInput is what callers provide; the service fills in the rest.
type CreateInput struct {
	Title     string
	Weekday   model.Weekday
	Status    model.Status
	TimeLabel string
	Priority  int
	Origin    model.Origin
	Source    *model.Slot
}

// Create validates and persists a new board task. Empty titles are rejected
// here, not in the codec.
func (s *Service) Create(in CreateInput) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if !in.Weekday.Valid() {
		return model.Task{}, ErrInvalidWeekday
	}
	status := in.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !status.Valid() {
		return model.Task{}, ErrInvalidStatus
	}
	origin := in.Origin
	if origin == "" {
		origin = model.OriginManual
	}

	t, err := s.repo.Create(model.Task{
		Title:      title,
		Weekday:    in.Weekday,
		Status:     status,
		TimeLabel:  strings.TrimSpace(in.TimeLabel),
		Priority:   model.ClampPriority(in.Priority),
		Origin:     origin,
		SourceSlot: in.Source,
		CreatedOn:  time.Now().Format(model.DateLayout),
	})
	if err != nil {
		return model.Task{}, err
	}

	s.record(telemetry.EventTaskCreated, telemetry.EventMetadata{
		"id": t.ID, "title": t.Title, "weekday": t.Weekday, "origin": t.Origin,
	})
	s.logger.Printf("[task] created %d %q (P%d, %s)", t.ID, t.Title, t.Priority, t.Origin)
	return t, nil
}

func (s *Service) Move(id int64, day model.Weekday, status model.Status) (model.Task, error) {
	if !day.Valid() {
		return model.Task{}, ErrInvalidWeekday
	}
	if !status.Valid() {
		return model.Task{}, ErrInvalidStatus
	}
	t, err := s.repo.Move(id, day, status)
	if err != nil {
		return model.Task{}, err
	}
	s.record(telemetry.EventTaskMoved, telemetry.EventMetadata{
		"id": t.ID, "weekday": t.Weekday, "status": t.Status,
	})
	return t, nil
}

func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.record(telemetry.EventTaskDeleted, telemetry.EventMetadata{"id": id})
	return nil
}

func (s *Service) Get(id int64) (model.Task, error) { return s.repo.Get(id) }

func (s *Service) ForWeekday(day model.Weekday) ([]model.Task, error) {
	if !day.Valid() {
		return nil, ErrInvalidWeekday
	}
	return s.repo.ListByWeekday(day)
}

func (s *Service) All() ([]model.Task, error) { return s.repo.List() }

func (s *Service) record(typ telemetry.EventType, meta telemetry.EventMetadata) {
	if s.events == nil {
		return
	}
	if err := s.events.RecordEvent(typ, meta); err != nil {
		s.logger.Printf("[task] record event %s: %v", typ, err)
	}
}
