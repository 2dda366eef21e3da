package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"webflash/internal/models"
	"webflash/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
)

var knownEventTypes = map[string]struct{}{
	models.EventManifestReload: {},
	models.EventFlashStart:     {},
	models.EventFlashSuccess:   {},
	models.EventFlashError:     {},
	models.EventPresetSaved:    {},
	models.EventPresetDeleted:  {},
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the filter.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	if eventType != "" {
		if _, ok := knownEventTypes[eventType]; !ok {
			return time.Time{}, time.Time{}, "", ErrUnknownEventType
		}
	}
	return from, to, eventType, nil
}

// List returns audit events in the filter's range. A session filter narrows the
// result to the start and outcome events of that flash.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.Event, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, from, to, typ)
	if err != nil {
		return nil, err
	}
	session := strings.TrimSpace(f.Session)
	if session == "" {
		return events, nil
	}
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if flashSessionOf(e) == session {
			out = append(out, e)
		}
	}
	return out, nil
}

// flashSessionOf returns the flasher session id recorded on a flash event.
func flashSessionOf(e models.Event) string {
	if !strings.HasPrefix(e.Type, "FLASH_") {
		return ""
	}
	meta, ok := e.Metadata.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := meta["session_id"].(string)
	return id
}
