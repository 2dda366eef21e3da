package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"webflash/internal/firmware"
	"webflash/internal/models"
	"webflash/internal/repository"
)

const maxPresetNameLength = 64

var (
	ErrInvalidPresetName = fmt.Errorf("preset name must be 1-%d characters", maxPresetNameLength)
	ErrPresetNotFound    = errors.New("preset not found")
	ErrIncompletePreset  = errors.New("preset needs mount and power")
)

// SavedPresetService manages operator-saved configurations.
type SavedPresetService struct {
	repo      repository.PresetRepo
	eventRepo repository.EventRepo
	now       func() time.Time
}

func NewSavedPresetService(repo repository.PresetRepo, eventRepo repository.EventRepo) *SavedPresetService {
	return &SavedPresetService{repo: repo, eventRepo: eventRepo, now: time.Now}
}

func (s *SavedPresetService) List(ctx context.Context) ([]models.SavedPreset, error) {
	return s.repo.List(ctx)
}

// Save stores state under name, replacing a preset with the same name. Unknown
// keys and values in state are dropped.
func (s *SavedPresetService) Save(ctx context.Context, name string, state map[string]string) (models.SavedPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxPresetNameLength {
		return models.SavedPreset{}, ErrInvalidPresetName
	}
	clean := firmware.SanitizeState(state)
	if clean.Mount == "" || clean.Power == "" {
		return models.SavedPreset{}, ErrIncompletePreset
	}

	now := s.now().UTC()
	saved, err := s.repo.Save(ctx, models.SavedPreset{
		Name:      name,
		State:     clean,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.SavedPreset{}, err
	}
	_ = s.eventRepo.Append(ctx, models.Event{
		OccurredAt:  now,
		Type:        models.EventPresetSaved,
		Description: "Preset saved: " + saved.Name,
		Metadata:    map[string]any{"id": saved.ID, "name": saved.Name, "state": saved.State},
	})
	return saved, nil
}

func (s *SavedPresetService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPresetNotFound
	}
	_ = s.eventRepo.Append(ctx, models.Event{
		OccurredAt:  s.now().UTC(),
		Type:        models.EventPresetDeleted,
		Description: "Preset deleted",
		Metadata:    map[string]any{"id": id},
	})
	return nil
}

// Apply marks the preset as used and returns it as query parameters the
// configurator accepts.
func (s *SavedPresetService) Apply(ctx context.Context, id string) (AppliedPreset, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return AppliedPreset{}, err
	}
	if p == nil {
		return AppliedPreset{}, ErrPresetNotFound
	}
	if err := s.repo.MarkApplied(ctx, p.ID, s.now()); err != nil {
		return AppliedPreset{}, err
	}

	params := firmware.ApplyPreset(url.Values{}, firmware.Preset{State: p.State})
	res := firmware.ParseConfigParams(params)
	return AppliedPreset{
		State: p.State,
		Name:  p.Name,
		Query: params.Encode(),
		Config: ParseResult{
			ConfigResult: res,
			Wizard:       firmware.ToWizardConfiguration(res.Sanitized),
		},
	}, nil
}
