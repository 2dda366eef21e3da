package models

import "time"

// Event types written to the audit log.
const (
	EventManifestReload = "MANIFEST_RELOAD"
	EventFlashStart     = "FLASH_START"
	EventFlashSuccess   = "FLASH_SUCCESS"
	EventFlashError     = "FLASH_ERROR"
	EventPresetSaved    = "PRESET_SAVED"
	EventPresetDeleted  = "PRESET_DELETED"
)

// Event is a single audit log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
