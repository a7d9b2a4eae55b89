package grid

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Igor-TCA/kanban-calender-app/internal/model"
	"github.com/Igor-TCA/kanban-calender-app/internal/schedule"
	"github.com/Igor-TCA/kanban-calender-app/internal/telemetry"
)

const timeLayout = "15:04"

// Service owns grid business rules: label validation, chronological
// ordering, and seeding the default hourly rows of a fresh store.
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

// EnsureDefaultLabels populates hourly labels [startHour, endHour) when the
// grid has none yet. A fresh planner starts with a 07:00-22:00 day.
func (s *Service) EnsureDefaultLabels(startHour, endHour int) error {
	labels, err := s.repo.TimeLabels()
	if err != nil {
		return err
	}
	if len(labels) > 0 {
		return nil
	}
	for h := startHour; h < endHour; h++ {
		if err := s.repo.AddTimeLabel(fmt.Sprintf("%02d:00", h)); err != nil {
			return err
		}
	}
	s.logger.Printf("[grid] seeded default time labels %02d:00-%02d:00", startHour, endHour)
	return nil
}

// SaveActivity writes a cell. Empty text clears the cell. Text pasted back
// from a board task carries a leading [HH:MM] prefix naming the cell's own
// row; that prefix is stripped so the sync does not stack a second one.
func (s *Service) SaveActivity(timeLabel string, column int, text string) error {
	label := strings.TrimSpace(timeLabel)
	if !validLabel(label) {
		return ErrInvalidLabel
	}
	text = strings.TrimSpace(text)
	if prefix, ok := schedule.ExtractTimeLabel(text); ok && prefix == label {
		text = strings.TrimSpace(strings.TrimPrefix(text, "["+prefix+"]"))
	}
	if err := s.repo.SaveCell(label, column, text); err != nil {
		return err
	}
	s.record(telemetry.EventGridCellSaved, telemetry.EventMetadata{
		"timeLabel": label, "column": column, "cleared": text == "",
	})
	return nil
}

func (s *Service) Cells() ([]model.GridCell, error) { return s.repo.Cells() }

// OrderedTimeLabels returns labels sorted chronologically. Labels that fail
// to parse sort last, so a corrupt row stays visible instead of vanishing.
func (s *Service) OrderedTimeLabels() ([]string, error) {
	labels, err := s.repo.TimeLabels()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return labelSortKey(labels[i]).Before(labelSortKey(labels[j]))
	})
	return labels, nil
}

func (s *Service) AddTimeLabel(label string) error {
	label = strings.TrimSpace(label)
	if !validLabel(label) {
		return ErrInvalidLabel
	}
	if err := s.repo.AddTimeLabel(label); err != nil {
		return err
	}
	s.record(telemetry.EventSlotAdded, telemetry.EventMetadata{"timeLabel": label})
	return nil
}

// RemoveTimeLabel drops a row and every activity stored in it.
func (s *Service) RemoveTimeLabel(label string) error {
	label = strings.TrimSpace(label)
	if err := s.repo.RemoveTimeLabel(label); err != nil {
		return err
	}
	s.record(telemetry.EventSlotRemoved, telemetry.EventMetadata{"timeLabel": label})
	return nil
}

func validLabel(label string) bool {
	_, err := time.Parse(timeLayout, label)
	return err == nil
}

func labelSortKey(label string) time.Time {
	// Labels may carry a suffix after the time part; sort on the time part.
	part := strings.TrimSpace(strings.SplitN(label, " ", 2)[0])
	t, err := time.Parse(timeLayout, part)
	if err != nil {
		return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

func (s *Service) record(typ telemetry.EventType, meta telemetry.EventMetadata) {
	if s.events == nil {
		return
	}
	if err := s.events.RecordEvent(typ, meta); err != nil {
		s.logger.Printf("[grid] record event %s: %v", typ, err)
	}
}
