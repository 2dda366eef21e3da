package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"webflash/internal/firmware"
	"webflash/internal/service"

	"github.com/gin-gonic/gin"
)

// StartFlashRequest selects the firmware to flash, either as configuration query
// parameters or as a configuration key.
type StartFlashRequest struct {
	// Query string of configuration parameters
	Query string `json:"query,omitempty" example:"mount=wall&power=usb&airiq=base"`
	// Configuration key, used when query is empty
	ConfigString string `json:"config_string,omitempty" example:"Wall-USB-AirIQBase"`
	// Release channel
	Channel string `json:"channel,omitempty" example:"stable"`
}

// params converts the request into configuration parameters.
func (r StartFlashRequest) params() (url.Values, bool) {
	if q := strings.TrimSpace(r.Query); q != "" {
		v, err := url.ParseQuery(strings.TrimPrefix(q, "?"))
		return v, err == nil
	}
	if key := strings.TrimSpace(r.ConfigString); key != "" {
		state, ok := firmware.ParseConfigStringState(key)
		if !ok {
			return nil, false
		}
		return firmware.ApplyPreset(url.Values{}, firmware.Preset{State: state}), true
	}
	return nil, false
}

// @Summary      Reload manifest
// @Tags         manifest
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "source, version, builds, loaded_at"
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/manifest/reload [post]
// @Security     BearerAuth
func (h *Handler) reloadManifest(c *gin.Context) {
	snap, err := h.services.Manifest.Reload(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, "failed to reload manifest", "manifest_reload_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":    snap.Source,
		"version":   snap.Manifest.Version,
		"builds":    len(snap.Builds()),
		"loaded_at": snap.LoadedAt,
	})
}

// @Summary      Start flash
// @Description  Starts a simulated flash session for the selected firmware. Follow progress on /ws/flash/{id}.
// @Tags         flash
// @Accept       json
// @Produce      json
// @Param        body  body  StartFlashRequest  true  "Firmware selection"
// @Success      202  {object}  models.FlashProgress
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/flash [post]
// @Security     BearerAuth
func (h *Handler) startFlash(c *gin.Context) {
	var req StartFlashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	params, ok := req.params()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + "query or config_string is required"})
		return
	}
	p, err := h.services.Flasher.Start(c.Request.Context(), service.FlashRequest{
		Params:  params,
		Channel: req.Channel,
		Client:  c.Request.UserAgent(),
	})
	if err != nil {
		h.respondError(c, err, "failed to start flash", "flash_start_failed")
		return
	}
	c.JSON(http.StatusAccepted, p)
}

// @Summary      Flash progress
// @Tags         flash
// @Produce      json
// @Param        id  path  string  true  "Session id"
// @Success      200  {object}  models.FlashProgress
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/flash/{id} [get]
// @Security     BearerAuth
func (h *Handler) getFlash(c *gin.Context) {
	p, err := h.services.Flasher.Progress(c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to load flash session", "flash_progress_failed")
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Cancel flash
// @Tags         flash
// @Produce      json
// @Param        id  path  string  true  "Session id"
// @Success      200  {object}  models.FlashProgress
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/flash/{id} [delete]
// @Security     BearerAuth
func (h *Handler) cancelFlash(c *gin.Context) {
	p, err := h.services.Flasher.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to cancel flash", "flash_cancel_failed", "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Flash history
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Maximum records (1-50)"
// @Success      200  {object}  map[string]interface{}  "count, records"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history [get]
// @Security     BearerAuth
func (h *Handler) listHistory(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	records, err := h.services.History.List(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err, "failed to load history", "history_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}

// @Summary      Clear flash history
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "deleted"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history [delete]
// @Security     BearerAuth
func (h *Handler) clearHistory(c *gin.Context) {
	n, err := h.services.History.Clear(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to clear history", "history_clear_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
