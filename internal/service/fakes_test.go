package service

import (
	"context"
	"sync"
	"time"

	"webflash/internal/firmware"
	"webflash/internal/manifest"
	"webflash/internal/models"
)

// fakeEventRepo records appended events and serves List from configured output.
type fakeEventRepo struct {
	mu       sync.Mutex
	appended []models.Event

	gotCtx  context.Context
	gotFrom time.Time
	gotTo   time.Time
	gotType string

	events    []models.Event
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error) {
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

type finishCall struct {
	id, status, errMsg string
	durationMs         int64
}

type fakeHistoryRepo struct {
	mu       sync.Mutex
	added    []models.FlashRecord
	finished []finishCall
	addErr   error

	listLimit int
	cleared   int64
}

func (f *fakeHistoryRepo) Add(ctx context.Context, rec models.FlashRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, rec)
	return nil
}

func (f *fakeHistoryRepo) Finish(ctx context.Context, id, status, errMsg string, durationMs int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, finishCall{id: id, status: status, errMsg: errMsg, durationMs: durationMs})
	return nil
}

func (f *fakeHistoryRepo) List(ctx context.Context, limit int) ([]models.FlashRecord, error) {
	f.listLimit = limit
	return f.added, nil
}

func (f *fakeHistoryRepo) Clear(ctx context.Context) (int64, error) {
	return f.cleared, nil
}

type fakePresetRepo struct {
	presets map[string]models.SavedPreset
	applied map[string]time.Time
	nextID  int
}

func newFakePresetRepo() *fakePresetRepo {
	return &fakePresetRepo{presets: map[string]models.SavedPreset{}, applied: map[string]time.Time{}}
}

func (f *fakePresetRepo) Save(ctx context.Context, p models.SavedPreset) (models.SavedPreset, error) {
	for id, existing := range f.presets {
		if existing.Name == p.Name {
			existing.State = p.State
			existing.UpdatedAt = p.UpdatedAt
			f.presets[id] = existing
			return existing, nil
		}
	}
	f.nextID++
	p.ID = string(rune('a' + f.nextID - 1))
	f.presets[p.ID] = p
	return p, nil
}

func (f *fakePresetRepo) List(ctx context.Context) ([]models.SavedPreset, error) {
	out := make([]models.SavedPreset, 0, len(f.presets))
	for _, p := range f.presets {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePresetRepo) Get(ctx context.Context, id string) (*models.SavedPreset, error) {
	p, ok := f.presets[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePresetRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.presets[id]; !ok {
		return false, nil
	}
	delete(f.presets, id)
	return true, nil
}

func (f *fakePresetRepo) MarkApplied(ctx context.Context, id string, at time.Time) error {
	f.applied[id] = at
	return nil
}

func testManifest() firmware.Manifest {
	return firmware.Manifest{
		Name:    "Sense360",
		Version: "2024.06",
		Builds: []firmware.Build{
			{
				ConfigString: "Wall-USB-AirIQBase-PresenceBase",
				Version:      "1.2.0",
				Channel:      "stable",
				FileSize:     300 << 10,
				Parts:        []firmware.Part{{Path: "firmware/wall-usb-1.2.0.bin"}},
			},
			{
				ConfigString: "Wall-USB-AirIQBase-PresenceBase",
				Version:      "1.3.0",
				Channel:      "beta",
				Parts:        []firmware.Part{{Path: "firmware/wall-usb-1.3.0.bin"}},
			},
			{
				ConfigString: "Ceiling-POE",
				Version:      "1.0.0",
				Channel:      "stable",
				FileSize:     1 << 20,
				Parts:        []firmware.Part{{Path: "bootloader.bin"}, {Path: "app.bin", Offset: 65536}},
			},
			{ConfigString: "Wall-POE", Version: "1.0.0", Channel: "stable"},
			{Model: "Sense360", Variant: "Mini", Version: "0.9.0", Parts: []firmware.Part{{Path: "mini.bin"}}},
		},
	}
}

func newTestConfigurator() (*ConfiguratorService, *fakeEventRepo) {
	events := &fakeEventRepo{}
	manifests := NewManifestService(manifest.NewStaticStore(testManifest(), "test"), events)
	return NewConfiguratorService(manifests, nil, nil), events
}
