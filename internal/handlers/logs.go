package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"webflash/internal/service"

	"github.com/gin-gonic/gin"
)

// Accepted forms of the from/to bounds, tried in order.
var queryTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// @Summary      List audit log
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' covers that whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(MANIFEST_RELOAD,FLASH_START,FLASH_SUCCESS,FLASH_ERROR,PRESET_SAVED,PRESET_DELETED)
// @Param        session  query  string  false  "Flash session id"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	filter, err := logFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "failed to load logs", "logs_list_failed",
			"from", filter.From, "to", filter.To, "type", filter.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

func logFilterFromQuery(c *gin.Context) (service.LogFilter, error) {
	f := service.LogFilter{
		Type:    strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		Session: strings.TrimSpace(c.Query("session")),
	}
	if raw := c.Query("from"); raw != "" {
		t, _, err := parseQueryTime(raw)
		if err != nil {
			return f, fmt.Errorf("invalid 'from': %w", err)
		}
		f.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, dateOnly, err := parseQueryTime(raw)
		if err != nil {
			return f, fmt.Errorf("invalid 'to': %w", err)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	return f, nil
}

// parseQueryTime returns the instant in UTC and whether s carried no time of day.
func parseQueryTime(s string) (time.Time, bool, error) {
	for i, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), i == len(queryTimeLayouts)-1, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%q is not RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
