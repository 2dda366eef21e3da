package models

import "time"

// Flash session stages, in order.
const (
	StageConnecting = "connecting"
	StageErasing    = "erasing"
	StageWriting    = "writing"
	StageVerifying  = "verifying"
	StageDone       = "done"
	StageFailed     = "failed"
)

// FlashProgress is a point-in-time view of a flash session.
type FlashProgress struct {
	SessionID    string    `json:"session_id"`
	ConfigString string    `json:"config_string"`
	Version      string    `json:"version,omitempty"`
	Channel      string    `json:"channel,omitempty"`
	Stage        string    `json:"stage"`
	Part         int       `json:"part"`
	PartsTotal   int       `json:"parts_total"`
	BytesWritten int64     `json:"bytes_written"`
	BytesTotal   int64     `json:"bytes_total"`
	Percent      float64   `json:"percent"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Finished reports whether the session reached a terminal stage.
func (p FlashProgress) Finished() bool {
	return p.Stage == StageDone || p.Stage == StageFailed
}
