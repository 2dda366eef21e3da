package models

import "time"

// Flash history statuses.
const (
	FlashStarted = "started"
	FlashSuccess = "success"
	FlashError   = "error"
)

// FlashRecord is one entry of the flash history.
type FlashRecord struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	ConfigString    string    `json:"config_string"`
	FirmwareVersion string    `json:"firmware_version,omitempty"`
	Channel         string    `json:"channel,omitempty"`
	Status          string    `json:"status"` // started | success | error
	ErrorMessage    string    `json:"error_message,omitempty"`
	Client          string    `json:"client,omitempty"`
	DurationMs      int64     `json:"duration_ms,omitempty"`
}
