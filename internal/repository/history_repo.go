package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"webflash/internal/models"

	"github.com/google/uuid"
)

// MaxHistoryEntries is how many flash records are kept.
const MaxHistoryEntries = 50

// defaultHistoryLimit applies when List is called with a non-positive limit.
const defaultHistoryLimit = MaxHistoryEntries

type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite {
	return &HistorySQLite{db: db}
}

var _ HistoryRepo = (*HistorySQLite)(nil)

const (
	insertHistorySQL = `
		INSERT INTO flash_history (id, started_at, config_string, firmware_version, channel, status, error_message, client, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	trimHistorySQL = `
		DELETE FROM flash_history WHERE id NOT IN (
			SELECT id FROM flash_history ORDER BY started_at DESC LIMIT ?
		)
	`

	finishHistorySQL = `
		UPDATE flash_history SET status = ?, error_message = ?, duration_ms = ? WHERE id = ?
	`

	selectHistorySQL = `
		SELECT id, started_at, config_string, firmware_version, channel, status, error_message, client, duration_ms
		FROM flash_history ORDER BY started_at DESC LIMIT ?
	`

	clearHistorySQL = `DELETE FROM flash_history`
)

// Add inserts a record and drops everything beyond the newest MaxHistoryEntries.
func (r *HistorySQLite) Add(ctx context.Context, rec models.FlashRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	} else {
		startedAt = startedAt.UTC()
	}
	if rec.Status == "" {
		rec.Status = models.FlashStarted
	}

	if _, err := r.db.ExecContext(ctx, insertHistorySQL,
		rec.ID,
		startedAt,
		rec.ConfigString,
		rec.FirmwareVersion,
		rec.Channel,
		rec.Status,
		rec.ErrorMessage,
		rec.Client,
		rec.DurationMs,
	); err != nil {
		return fmt.Errorf("insert flash record %s: %w", rec.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, trimHistorySQL, MaxHistoryEntries); err != nil {
		return fmt.Errorf("trim flash history: %w", err)
	}
	return nil
}

// Finish records the outcome of a started flash.
func (r *HistorySQLite) Finish(ctx context.Context, id, status, errMsg string, durationMs int64) error {
	res, err := r.db.ExecContext(ctx, finishHistorySQL, status, errMsg, durationMs, id)
	if err != nil {
		return fmt.Errorf("update flash record %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update flash record %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// List returns up to limit records, newest first.
func (r *HistorySQLite) List(ctx context.Context, limit int) ([]models.FlashRecord, error) {
	if limit <= 0 || limit > MaxHistoryEntries {
		limit = defaultHistoryLimit
	}
	rows, err := r.db.QueryContext(ctx, selectHistorySQL, limit)
	if err != nil {
		return nil, fmt.Errorf("select flash history: %w", err)
	}
	defer rows.Close()

	out := make([]models.FlashRecord, 0, limit)
	for rows.Next() {
		var rec models.FlashRecord
		var version, channel, msg, client sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.StartedAt,
			&rec.ConfigString,
			&version,
			&channel,
			&rec.Status,
			&msg,
			&client,
			&rec.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("scan flash record: %w", err)
		}
		rec.StartedAt = rec.StartedAt.UTC()
		rec.FirmwareVersion = version.String
		rec.Channel = channel.String
		rec.ErrorMessage = msg.String
		rec.Client = client.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear deletes the whole history and returns how many records were removed.
func (r *HistorySQLite) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, clearHistorySQL)
	if err != nil {
		return 0, fmt.Errorf("clear flash history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear flash history: %w", err)
	}
	return n, nil
}
