package service

import (
	"context"
	"net/url"
	"time"

	"webflash/internal/firmware"
	"webflash/internal/logger"
	"webflash/internal/manifest"
	"webflash/internal/models"
	"webflash/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Configurator turns wizard/query input into firmware answers. It never mutates state.
type Configurator interface {
	Parse(params url.Values) ParseResult
	Resolve(ctx context.Context, q ResolveQuery) (Resolution, error)
	InstallManifest(ctx context.Context, q ResolveQuery) (firmware.Manifest, error)
	Legacy(ctx context.Context, model, variant, sensorAddon string) ([]firmware.Build, error)
	Availability(ctx context.Context, mount, power string) ([]firmware.BaseAvailability, error)
	Changelog(ctx context.Context, configKey string) ([]firmware.ChangelogEntry, error)
	Versions(ctx context.Context, configKey, channel string) ([]string, error)
	CheckUpdates(ctx context.Context, currentVersion, configKey string) (firmware.UpdateCheck, error)
	BuiltinPresets() []firmware.Preset
	BuiltinPreset(name string) (firmware.Preset, bool)
}

// Manifest exposes the loaded manifest snapshot.
type Manifest interface {
	Snapshot() (*manifest.Snapshot, error)
	Reload(ctx context.Context) (*manifest.Snapshot, error)
}

// Flasher drives simulated flash sessions. Stop Run via context cancellation.
type Flasher interface {
	Start(ctx context.Context, req FlashRequest) (models.FlashProgress, error)
	Progress(id string) (models.FlashProgress, error)
	Cancel(ctx context.Context, id string) (models.FlashProgress, error)
	Run(ctx context.Context, tick time.Duration)
}

type History interface {
	List(ctx context.Context, limit int) ([]models.FlashRecord, error)
	Clear(ctx context.Context) (int64, error)
}

// EventLog exposes the append-only audit log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

type SavedPresets interface {
	List(ctx context.Context) ([]models.SavedPreset, error)
	Save(ctx context.Context, name string, state map[string]string) (models.SavedPreset, error)
	Delete(ctx context.Context, id string) error
	Apply(ctx context.Context, id string) (AppliedPreset, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Configurator
	Manifest
	Flasher
	History
	EventLog
	SavedPresets
}

// Deps carries the non-repository collaborators.
type Deps struct {
	Store   *manifest.Store
	Presets *firmware.PresetCatalog
	// BaseURL resolves relative part paths in install manifests; nil keeps them as is.
	BaseURL *url.URL
	Auth    AuthConfig
	Log     *logger.Logger
}

// NewService wires the repository layer and collaborators into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	manifests := NewManifestService(deps.Store, repos.EventRepo)
	configurator := NewConfiguratorService(manifests, deps.Presets, deps.BaseURL)
	return &Service{
		Authorization: NewAuthService(repos.Auth, deps.Auth),
		Configurator:  configurator,
		Manifest:      manifests,
		Flasher:       NewFlasherService(configurator, repos.History, repos.EventRepo, deps.Log),
		History:       NewHistoryService(repos.History),
		EventLog:      NewEventLogService(repos.EventRepo),
		SavedPresets:  NewSavedPresetService(repos.Presets, repos.EventRepo),
	}
}
