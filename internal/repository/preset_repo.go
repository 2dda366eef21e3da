package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"webflash/internal/models"

	"github.com/google/uuid"
)

type PresetSQLite struct {
	db *sql.DB
}

func NewPresetSQLite(db *sql.DB) *PresetSQLite {
	return &PresetSQLite{db: db}
}

var _ PresetRepo = (*PresetSQLite)(nil)

const (
	upsertPresetSQL = `
		INSERT INTO presets (id, name, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			state=excluded.state,
			updated_at=excluded.updated_at
	`

	evictPresetsSQL = `
		DELETE FROM presets WHERE id NOT IN (
			SELECT id FROM presets ORDER BY updated_at DESC LIMIT ?
		)
	`

	presetColumns = `id, name, state, created_at, updated_at, applied_at`

	selectPresetByNameSQL = `SELECT ` + presetColumns + ` FROM presets WHERE name = ?`
	selectPresetByIDSQL   = `SELECT ` + presetColumns + ` FROM presets WHERE id = ?`
	selectPresetsSQL      = `SELECT ` + presetColumns + ` FROM presets ORDER BY updated_at DESC`
	deletePresetSQL       = `DELETE FROM presets WHERE id = ?`
	markPresetAppliedSQL  = `UPDATE presets SET applied_at = ? WHERE id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (models.SavedPreset, error) {
	var (
		p       models.SavedPreset
		state   string
		applied sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Name, &state, &p.CreatedAt, &p.UpdatedAt, &applied); err != nil {
		return models.SavedPreset{}, err
	}
	if err := json.Unmarshal([]byte(state), &p.State); err != nil {
		return models.SavedPreset{}, fmt.Errorf("decode preset %s state: %w", p.ID, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if applied.Valid {
		at := applied.Time.UTC()
		p.AppliedAt = &at
	}
	return p, nil
}

// Save inserts a preset or replaces the state of the preset with the same name.
// The oldest presets beyond models.MaxSavedPresets are evicted.
func (r *PresetSQLite) Save(ctx context.Context, p models.SavedPreset) (models.SavedPreset, error) {
	name := strings.TrimSpace(p.Name)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := p.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	state, err := json.Marshal(p.State)
	if err != nil {
		return models.SavedPreset{}, fmt.Errorf("encode preset %q state: %w", name, err)
	}

	if _, err := r.db.ExecContext(ctx, upsertPresetSQL, p.ID, name, string(state), now.UTC(), now.UTC()); err != nil {
		return models.SavedPreset{}, fmt.Errorf("upsert preset %q: %w", name, err)
	}
	if _, err := r.db.ExecContext(ctx, evictPresetsSQL, models.MaxSavedPresets); err != nil {
		return models.SavedPreset{}, fmt.Errorf("evict presets: %w", err)
	}

	saved, err := scanPreset(r.db.QueryRowContext(ctx, selectPresetByNameSQL, name))
	if err != nil {
		return models.SavedPreset{}, fmt.Errorf("reload preset %q: %w", name, err)
	}
	return saved, nil
}

// List returns saved presets, most recently updated first.
func (r *PresetSQLite) List(ctx context.Context) ([]models.SavedPreset, error) {
	rows, err := r.db.QueryContext(ctx, selectPresetsSQL)
	if err != nil {
		return nil, fmt.Errorf("select presets: %w", err)
	}
	defer rows.Close()

	out := make([]models.SavedPreset, 0, models.MaxSavedPresets)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns (nil, nil) if the preset does not exist.
func (r *PresetSQLite) Get(ctx context.Context, id string) (*models.SavedPreset, error) {
	p, err := scanPreset(r.db.QueryRowContext(ctx, selectPresetByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select preset %s: %w", id, err)
	}
	return &p, nil
}

// Delete reports whether a preset was removed.
func (r *PresetSQLite) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deletePresetSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete preset %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete preset %s: %w", id, err)
	}
	return n > 0, nil
}

func (r *PresetSQLite) MarkApplied(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, markPresetAppliedSQL, at.UTC(), id); err != nil {
		return fmt.Errorf("mark preset %s applied: %w", id, err)
	}
	return nil
}
