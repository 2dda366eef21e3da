package handlers

import (
	"errors"
	"net/http"

	"webflash/internal/firmware"
	"webflash/internal/manifest"
	"webflash/internal/repository"
	"webflash/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBodyPref = "invalid body: "
	errInternal        = "internal error"
)

// statusForError maps service sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, manifest.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrInvalidConfig),
		errors.Is(err, firmware.ErrNoInstallableParts):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNoFirmware),
		errors.Is(err, service.ErrChannelUnavailable),
		errors.Is(err, service.ErrUnknownPreset),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionFinished),
		errors.Is(err, repository.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidPresetName),
		errors.Is(err, service.ErrIncompletePreset),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrUnknownEventType),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyUsername):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondError picks the status from err. Client errors expose the error text;
// server errors get userMsg.
func (h *Handler) respondError(c *gin.Context, err error, userMsg, logKey string, kv ...interface{}) {
	code := statusForError(err)
	msg := userMsg
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}
