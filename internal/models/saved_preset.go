package models

import (
	"time"

	"webflash/internal/firmware"
)

// MaxSavedPresets caps the number of operator-saved presets.
const MaxSavedPresets = 20

// SavedPreset is an operator-saved configuration.
type SavedPreset struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	State     firmware.SanitizedConfig `json:"state"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
	AppliedAt *time.Time               `json:"applied_at,omitempty"`
}
