package service

import (
	"context"
	"errors"
	"testing"

	"webflash/internal/firmware"
	"webflash/internal/manifest"
	"webflash/internal/models"
)

type stubSource struct {
	m   firmware.Manifest
	err error
}

func (s *stubSource) Load(ctx context.Context) (firmware.Manifest, error) { return s.m, s.err }

func TestManifestService_Reload(t *testing.T) {
	src := &stubSource{m: testManifest()}
	events := &fakeEventRepo{}
	svc := NewManifestService(manifest.NewStore(src, "stub"), events)
	ctx := context.Background()

	if _, err := svc.Snapshot(); !errors.Is(err, manifest.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded before reload, got %v", err)
	}

	snap, err := svc.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(snap.Builds()) != 5 || snap.Source != "stub" {
		t.Fatalf("snapshot %+v", snap)
	}

	src.err = errors.New("network down")
	if _, err := svc.Reload(ctx); err == nil {
		t.Fatalf("expected reload error")
	}
	cur, err := svc.Snapshot()
	if err != nil || cur != snap {
		t.Fatalf("previous snapshot should stay active, err=%v", err)
	}

	if len(events.appended) != 2 {
		t.Fatalf("events %+v", events.appended)
	}
	for _, e := range events.appended {
		if e.Type != models.EventManifestReload {
			t.Fatalf("event type %q", e.Type)
		}
	}
	if events.appended[1].Description != "Manifest reload failed" {
		t.Fatalf("failure event %+v", events.appended[1])
	}
}

func TestManifestService_NilStore(t *testing.T) {
	svc := NewManifestService(nil, &fakeEventRepo{})
	if _, err := svc.Reload(context.Background()); !errors.Is(err, manifest.ErrNotLoaded) {
		t.Fatalf("err=%v", err)
	}
}
