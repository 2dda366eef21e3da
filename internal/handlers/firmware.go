package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"webflash/internal/firmware"
	"webflash/internal/service"

	"github.com/gin-gonic/gin"
)

// Query keys consumed by the handlers themselves rather than the configuration parser.
const (
	queryChannel  = "channel"
	queryPreset   = "preset"
	queryFragment = "fragment"

	statusOK = "ok"
)

var reservedQueryKeys = []string{queryChannel, queryPreset, queryFragment}

// configParams returns the configuration parameters of the request. A "fragment"
// parameter carries the page's hash params, which the query string overrides.
func configParams(c *gin.Context) url.Values {
	q := c.Request.URL.Query()
	fragment := q.Get(queryFragment)
	for _, k := range reservedQueryKeys {
		q.Del(k)
	}
	if fragment == "" {
		return q
	}
	return firmware.MergeLocationParams(q.Encode(), fragment)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Parse configuration
// @Description  Validates configuration query parameters (mount, power, airiq, presence, comfort, fan, core) and returns the sanitized configuration, per-field outcomes and the configuration key.
// @Tags         config
// @Produce      json
// @Param        mount     query  string  false  "Mounting"  Enums(wall,ceiling)
// @Param        power     query  string  false  "Power"     Enums(usb,poe,ac,pwr)
// @Param        airiq     query  string  false  "AirIQ module"  Enums(none,base,pro)
// @Param        presence  query  string  false  "Presence module"  Enums(none,base,pro)
// @Param        comfort   query  string  false  "Comfort module"  Enums(none,base)
// @Param        fan       query  string  false  "Fan module"  Enums(none,base,pwm,analog)
// @Param        fragment  query  string  false  "Hash parameters, overridden by the query"
// @Success      200  {object}  service.ParseResult
// @Router       /api/v1/config/parse [get]
func (h *Handler) parseConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Configurator.Parse(configParams(c)))
}

// @Summary      Resolve firmware
// @Description  Parses the configuration and lists the compatible builds, best first. An invalid configuration returns 200 with is_valid=false and no matches.
// @Tags         firmware
// @Produce      json
// @Param        channel  query  string  false  "Release channel to select"  Enums(stable,beta,dev)
// @Param        preset   query  string  false  "Preset filling unset fields"
// @Success      200  {object}  service.Resolution
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/firmware/resolve [get]
func (h *Handler) resolveFirmware(c *gin.Context) {
	res, err := h.services.Configurator.Resolve(c.Request.Context(), service.ResolveQuery{
		Params:  configParams(c),
		Channel: c.Query(queryChannel),
		Preset:  c.Query(queryPreset),
	})
	if err != nil {
		h.respondError(c, err, "failed to resolve firmware", "firmware_resolve_failed")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Install manifest
// @Description  Single-build manifest for the selected firmware, ready for the web installer.
// @Tags         firmware
// @Produce      json
// @Param        channel  query  string  false  "Release channel"  Enums(stable,beta,dev)
// @Param        preset   query  string  false  "Preset filling unset fields"
// @Success      200  {object}  firmware.Manifest
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/firmware/install-manifest [get]
func (h *Handler) installManifest(c *gin.Context) {
	m, err := h.services.Configurator.InstallManifest(c.Request.Context(), service.ResolveQuery{
		Params:  configParams(c),
		Channel: c.Query(queryChannel),
		Preset:  c.Query(queryPreset),
	})
	if err != nil {
		h.respondError(c, err, "failed to build install manifest", "install_manifest_failed")
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Legacy firmware
// @Description  Builds without a configuration string, matched by model and variant.
// @Tags         firmware
// @Produce      json
// @Param        model         query  string  true   "Device model"
// @Param        variant       query  string  false  "Variant"
// @Param        sensor_addon  query  string  false  "Sensor add-on"
// @Success      200  {object}  map[string]interface{}  "count, builds"
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/firmware/legacy [get]
func (h *Handler) legacyFirmware(c *gin.Context) {
	model := strings.TrimSpace(c.Query("model"))
	if model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	}
	builds, err := h.services.Configurator.Legacy(c.Request.Context(), model, c.Query("variant"), c.Query("sensor_addon"))
	if err != nil {
		h.respondError(c, err, "failed to load legacy firmware", "legacy_firmware_failed", "model", model)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(builds), "builds": builds})
}

// @Summary      Module availability
// @Description  Module variants shipped per mount/power base. Both mount and power narrow the result to one base.
// @Tags         firmware
// @Produce      json
// @Param        mount  query  string  false  "Mounting"
// @Param        power  query  string  false  "Power"
// @Success      200  {object}  map[string]interface{}  "count, bases"
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/firmware/availability [get]
func (h *Handler) availability(c *gin.Context) {
	bases, err := h.services.Configurator.Availability(c.Request.Context(), c.Query("mount"), c.Query("power"))
	if err != nil {
		h.respondError(c, err, "failed to load availability", "availability_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bases), "bases": bases})
}

// @Summary      Changelog
// @Tags         firmware
// @Produce      json
// @Param        config  query  string  false  "Configuration key; all releases when empty"
// @Success      200  {object}  map[string]interface{}  "count, entries"
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/firmware/changelog [get]
func (h *Handler) changelog(c *gin.Context) {
	entries, err := h.services.Configurator.Changelog(c.Request.Context(), c.Query("config"))
	if err != nil {
		h.respondError(c, err, "failed to load changelog", "changelog_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "entries": entries})
}

// @Summary      Versions for a configuration
// @Tags         firmware
// @Produce      json
// @Param        config   query  string  true   "Configuration key"
// @Param        channel  query  string  false  "Release channel"
// @Success      200  {object}  map[string]interface{}  "config, versions"
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/firmware/versions [get]
func (h *Handler) versions(c *gin.Context) {
	key := strings.TrimSpace(c.Query("config"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "config is required"})
		return
	}
	versions, err := h.services.Configurator.Versions(c.Request.Context(), key, c.Query(queryChannel))
	if err != nil {
		h.respondError(c, err, "failed to load versions", "versions_failed", "config", key)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": firmware.NormalizeConfigKey(key), "versions": versions})
}

// @Summary      Check for updates
// @Tags         firmware
// @Produce      json
// @Param        version  query  string  false  "Version currently on the device"
// @Param        config   query  string  false  "Configuration key"
// @Success      200  {object}  firmware.UpdateCheck
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/firmware/updates [get]
func (h *Handler) checkUpdates(c *gin.Context) {
	res, err := h.services.Configurator.CheckUpdates(c.Request.Context(), c.Query("version"), c.Query("config"))
	if err != nil {
		h.respondError(c, err, "failed to check updates", "update_check_failed")
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      List presets
// @Tags         presets
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, presets"
// @Router       /api/v1/presets [get]
func (h *Handler) listPresets(c *gin.Context) {
	presets := h.services.Configurator.BuiltinPresets()
	c.JSON(http.StatusOK, gin.H{"count": len(presets), "presets": presets})
}

// @Summary      Get preset
// @Tags         presets
// @Produce      json
// @Param        name  path  string  true  "Preset name"
// @Success      200  {object}  firmware.Preset
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/presets/{name} [get]
func (h *Handler) getPreset(c *gin.Context) {
	p, ok := h.services.Configurator.BuiltinPreset(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUnknownPreset.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}
