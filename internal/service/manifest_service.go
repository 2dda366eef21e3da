package service

import (
	"context"
	"fmt"

	"webflash/internal/manifest"
	"webflash/internal/models"
	"webflash/internal/repository"
)

type ManifestService struct {
	store     *manifest.Store
	eventRepo repository.EventRepo
}

func NewManifestService(store *manifest.Store, eventRepo repository.EventRepo) *ManifestService {
	return &ManifestService{store: store, eventRepo: eventRepo}
}

func (s *ManifestService) Snapshot() (*manifest.Snapshot, error) {
	if s.store == nil {
		return nil, manifest.ErrNotLoaded
	}
	return s.store.Current()
}

// Reload refreshes the manifest and records the attempt in the audit log.
func (s *ManifestService) Reload(ctx context.Context) (*manifest.Snapshot, error) {
	if s.store == nil {
		return nil, manifest.ErrNotLoaded
	}
	snap, err := s.store.Reload(ctx)
	if err != nil {
		s.record(ctx, models.Event{
			Type:        models.EventManifestReload,
			Description: "Manifest reload failed",
			Metadata:    map[string]any{"error": err.Error()},
		})
		return nil, fmt.Errorf("reload manifest: %w", err)
	}
	s.record(ctx, models.Event{
		Type:        models.EventManifestReload,
		Description: "Manifest reloaded",
		Metadata: map[string]any{
			"source":  snap.Source,
			"version": snap.Manifest.Version,
			"builds":  len(snap.Builds()),
		},
	})
	return snap, nil
}

// record appends to the audit log when one is attached; failures are ignored.
func (s *ManifestService) record(ctx context.Context, e models.Event) {
	if s.eventRepo == nil {
		return
	}
	_ = s.eventRepo.Append(ctx, e)
}
