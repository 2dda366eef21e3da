package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SavePresetRequest stores the current wizard selection under a name.
type SavePresetRequest struct {
	Name string `json:"name" binding:"required" example:"Office"`
	// Wizard state, e.g. {"mounting":"wall","power":"usb","fan":"pwm"}
	State map[string]string `json:"state" binding:"required"`
}

// @Summary      List saved presets
// @Tags         saved-presets
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, presets"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/saved-presets [get]
// @Security     BearerAuth
func (h *Handler) listSavedPresets(c *gin.Context) {
	presets, err := h.services.SavedPresets.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to load presets", "saved_presets_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(presets), "presets": presets})
}

// @Summary      Save preset
// @Description  Unknown keys and values are dropped; a preset with the same name is replaced.
// @Tags         saved-presets
// @Accept       json
// @Produce      json
// @Param        body  body  SavePresetRequest  true  "Preset"
// @Success      201  {object}  models.SavedPreset
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/saved-presets [post]
// @Security     BearerAuth
func (h *Handler) savePreset(c *gin.Context) {
	var req SavePresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	p, err := h.services.SavedPresets.Save(c.Request.Context(), req.Name, req.State)
	if err != nil {
		h.respondError(c, err, "failed to save preset", "saved_preset_save_failed", "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Delete saved preset
// @Tags         saved-presets
// @Param        id  path  string  true  "Preset id"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/saved-presets/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteSavedPreset(c *gin.Context) {
	if err := h.services.SavedPresets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete preset", "saved_preset_delete_failed", "id", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Apply saved preset
// @Description  Returns the preset as configuration query parameters and its parse result.
// @Tags         saved-presets
// @Produce      json
// @Param        id  path  string  true  "Preset id"
// @Success      200  {object}  service.AppliedPreset
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/saved-presets/{id}/apply [post]
// @Security     BearerAuth
func (h *Handler) applySavedPreset(c *gin.Context) {
	applied, err := h.services.SavedPresets.Apply(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to apply preset", "saved_preset_apply_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, applied)
}
