package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"webflash/internal/firmware"
	"webflash/internal/models"
)

func newTestSavedPresets() (*SavedPresetService, *fakePresetRepo, *fakeEventRepo) {
	repo := newFakePresetRepo()
	events := &fakeEventRepo{}
	svc := NewSavedPresetService(repo, events)
	at := time.Date(2025, time.May, 4, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }
	return svc, repo, events
}

func TestSavedPresets_SaveSanitizes(t *testing.T) {
	svc, _, events := newTestSavedPresets()

	p, err := svc.Save(context.Background(), "  Lobby ", map[string]string{
		"mounting": "ceiling",
		"power":    "poe",
		"fan":      "pwm",
		"presence": "pro",
		"colour":   "blue",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := firmware.SanitizedConfig{
		Core: firmware.ValueNone, Mount: firmware.MountCeiling, Power: firmware.PowerPOE,
		AirIQ: firmware.ValueNone, Presence: firmware.ValuePro, Comfort: firmware.ValueNone, Fan: firmware.ValueNone,
	}
	if p.Name != "Lobby" || p.State != want {
		t.Fatalf("saved %+v", p)
	}
	if types := events.types(); len(types) != 1 || types[0] != models.EventPresetSaved {
		t.Fatalf("events %v", types)
	}
}

func TestSavedPresets_SaveValidation(t *testing.T) {
	svc, _, events := newTestSavedPresets()
	ctx := context.Background()
	full := map[string]string{"mount": "wall", "power": "usb"}

	if _, err := svc.Save(ctx, " ", full); !errors.Is(err, ErrInvalidPresetName) {
		t.Fatalf("blank name err=%v", err)
	}
	if _, err := svc.Save(ctx, strings.Repeat("x", maxPresetNameLength+1), full); !errors.Is(err, ErrInvalidPresetName) {
		t.Fatalf("long name err=%v", err)
	}
	if _, err := svc.Save(ctx, "half", map[string]string{"mount": "wall"}); !errors.Is(err, ErrIncompletePreset) {
		t.Fatalf("incomplete err=%v", err)
	}
	if len(events.appended) != 0 {
		t.Fatalf("rejected saves must not be logged")
	}
}

func TestSavedPresets_ApplyAndDelete(t *testing.T) {
	svc, repo, events := newTestSavedPresets()
	ctx := context.Background()

	p, err := svc.Save(ctx, "desk", map[string]string{"mount": "wall", "power": "usb", "fan": "analog"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	applied, err := svc.Apply(ctx, p.ID)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !applied.Config.IsValid || applied.Config.ConfigKey != "Wall-USB-FanAnalog" {
		t.Fatalf("applied config %+v", applied.Config.ConfigResult)
	}
	if !strings.Contains(applied.Query, "mount=wall") || applied.Name != "desk" {
		t.Fatalf("applied %+v", applied)
	}
	if _, ok := repo.applied[p.ID]; !ok {
		t.Fatalf("preset not marked applied")
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, p.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("second delete err=%v", err)
	}
	if _, err := svc.Apply(ctx, p.ID); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("apply deleted err=%v", err)
	}
	types := events.types()
	if types[len(types)-1] != models.EventPresetDeleted {
		t.Fatalf("events %v", types)
	}
}

func TestParsePresetCatalog(t *testing.T) {
	doc := []byte(`
presets:
  - name: Office
    label: Office ceiling
    state:
      mount: ceiling
      power: poe
      presence: pro
      fan: pwm
  - name: ""
    state:
      mount: wall
`)
	c, err := ParsePresetCatalog(doc)
	if err != nil {
		t.Fatalf("ParsePresetCatalog: %v", err)
	}
	if len(c.List()) != 2 {
		t.Fatalf("presets %+v", c.List())
	}
	p, ok := c.ByName("office")
	if !ok || p.Label != "Office ceiling" || p.State.Fan != firmware.ValueNone || p.State.Presence != firmware.ValuePro {
		t.Fatalf("office %+v ok=%v", p, ok)
	}

	if _, err := ParsePresetCatalog([]byte("presets: [")); err == nil {
		t.Fatalf("expected decode error")
	}
	if c, err := LoadPresetCatalog(""); err != nil || len(c.List()) != 1 {
		t.Fatalf("empty path catalog err=%v", err)
	}
}

func TestHistoryService_ClampsLimit(t *testing.T) {
	repo := &fakeHistoryRepo{cleared: 3}
	svc := NewHistoryService(repo)
	ctx := context.Background()

	if _, err := svc.List(ctx, 0); err != nil || repo.listLimit != 50 {
		t.Fatalf("limit=%d err=%v", repo.listLimit, err)
	}
	if _, err := svc.List(ctx, 10); err != nil || repo.listLimit != 10 {
		t.Fatalf("limit=%d err=%v", repo.listLimit, err)
	}
	if n, err := svc.Clear(ctx); err != nil || n != 3 {
		t.Fatalf("cleared=%d err=%v", n, err)
	}
}
