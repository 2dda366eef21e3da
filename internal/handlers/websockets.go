package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 500 * time.Millisecond
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms

	msgProgress = "progress"
	msgError    = "error"
)

// wsEnvelope is the message frame written to websocket clients.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict to the configured installer origin
}

// @Summary      Flash progress stream
// @Description  WebSocket. Sends {"type":"progress","data":FlashProgress} every interval until the session finishes, then closes.
// @Tags         flash
// @Param        id           path   string  true   "Session id"
// @Param        interval     query  string  false  "Update interval, e.g. 250ms (max 10s)"
// @Param        interval_ms  query  int     false  "Update interval in milliseconds"
// @Success      101
// @Failure      404  {object}  map[string]string
// @Router       /ws/flash/{id} [get]
func (h *Handler) wsFlashProgress(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.services.Flasher.Progress(id); err != nil {
		h.respondError(c, err, "failed to load flash session", "ws_flash_lookup_failed", "session", id)
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if finished, err := h.sendProgress(conn, id); err != nil || finished {
		h.closeStream(conn, err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if finished, err := h.sendProgress(conn, id); err != nil || finished {
				h.closeStream(conn, err)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendProgress writes the session's current progress and reports whether it has finished.
func (h *Handler) sendProgress(conn *websocket.Conn, id string) (bool, error) {
	p, err := h.services.Flasher.Progress(id)
	if err != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: msgError, Error: err.Error()})
		return true, err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: msgProgress, Data: p}); err != nil {
		return true, err
	}
	return p.Finished(), nil
}

// closeStream sends a close frame; abnormal endings are logged.
func (h *Handler) closeStream(conn *websocket.Conn, err error) {
	code, text := websocket.CloseNormalClosure, "flash finished"
	if err != nil {
		code, text = websocket.CloseInternalServerErr, "stream error"
		if h.log != nil {
			h.log.Infow("ws_flash_stream_failed", "err", err)
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}
