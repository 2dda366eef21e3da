package manifest

import (
	"context"
	"errors"
	"sync"
	"time"

	"webflash/internal/firmware"
)

// ErrNotLoaded is returned before the first successful load.
var ErrNotLoaded = errors.New("manifest not loaded")

// Snapshot is an immutable view of one loaded manifest.
type Snapshot struct {
	Manifest     firmware.Manifest
	Availability *firmware.AvailabilityIndex
	Source       string
	LoadedAt     time.Time
}

// Builds returns the snapshot's builds.
func (s *Snapshot) Builds() []firmware.Build {
	if s == nil {
		return nil
	}
	return s.Manifest.Builds
}

// Source loads manifests; *Loader satisfies it.
type Source interface {
	Load(ctx context.Context) (firmware.Manifest, error)
}

// Store holds the current snapshot and swaps it atomically on reload.
type Store struct {
	src    Source
	name   string
	mu     sync.RWMutex
	cur    *Snapshot
	loadMu sync.Mutex
	now    func() time.Time
}

// NewStore creates an empty store; call Reload to populate it.
func NewStore(src Source, name string) *Store {
	return &Store{src: src, name: name, now: time.Now}
}

// NewStaticStore wraps an already decoded manifest.
func NewStaticStore(m firmware.Manifest, name string) *Store {
	s := &Store{name: name, now: time.Now}
	s.cur = newSnapshot(m, name, s.now())
	return s
}

func newSnapshot(m firmware.Manifest, name string, at time.Time) *Snapshot {
	if m.Builds == nil {
		m.Builds = []firmware.Build{}
	}
	return &Snapshot{
		Manifest:     m,
		Availability: firmware.BuildAvailabilityIndex(m.Builds),
		Source:       name,
		LoadedAt:     at.UTC(),
	}
}

// Current returns the active snapshot.
func (s *Store) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return nil, ErrNotLoaded
	}
	return s.cur, nil
}

// Reload fetches the manifest and replaces the snapshot. On failure the previous
// snapshot stays active.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	if s.src == nil {
		return s.Current()
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	m, err := s.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	snap := newSnapshot(m, s.name, s.now())

	s.mu.Lock()
	s.cur = snap
	s.mu.Unlock()
	return snap, nil
}
