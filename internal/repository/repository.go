package repository

import (
	"context"
	"database/sql"
	"time"

	"webflash/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// HistoryRepo stores the flash history, newest first, capped at MaxHistoryEntries.
type HistoryRepo interface {
	Add(ctx context.Context, rec models.FlashRecord) error
	Finish(ctx context.Context, id, status, errMsg string, durationMs int64) error
	List(ctx context.Context, limit int) ([]models.FlashRecord, error)
	Clear(ctx context.Context) (int64, error)
}

// PresetRepo stores operator-saved presets, capped at models.MaxSavedPresets.
type PresetRepo interface {
	Save(ctx context.Context, p models.SavedPreset) (models.SavedPreset, error)
	List(ctx context.Context) ([]models.SavedPreset, error)
	Get(ctx context.Context, id string) (*models.SavedPreset, error)
	Delete(ctx context.Context, id string) (bool, error)
	MarkApplied(ctx context.Context, id string, at time.Time) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error)
}

type Repository struct {
	History   HistoryRepo
	Presets   PresetRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		History:   NewHistorySQLite(db),
		Presets:   NewPresetSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
