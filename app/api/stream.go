package api

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
)

// StreamEntries upgrades to a websocket and sends one snapshot message per
// guestbook change, starting with the current state.
func (h *Handler) StreamEntries(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader already replied
		slog.Debug("Websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub, err := h.store.Subscribe(ctx)
	if err != nil {
		slog.Error("Failed to subscribe", "error", err)
		h.writeClose(ws, websocket.CloseTryAgainLater, "store unavailable")
		return
	}
	defer sub.Close()

	slog.Debug("Websocket subscriber connected", "subscription_id", sub.ID, "remote", c.ClientIP())

	readTimeout := 2 * h.pingInterval

	// Clients only send control frames. Reading is still required to
	// process pongs and notice the close.
	go func() {
		defer cancel()

		ws.SetReadLimit(512)
		ws.SetReadDeadline(time.Now().Add(readTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(readTimeout))
		})

		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Websocket subscriber disconnected", "subscription_id", sub.ID)
			return

		case snapshot, ok := <-sub.C():
			if !ok {
				h.writeClose(ws, websocket.CloseGoingAway, "server shutting down")
				return
			}

			ws.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := ws.WriteJSON(guestbook.NewSnapshotMessage(snapshot)); err != nil {
				// a websocket write deadline cannot be recovered
				slog.Debug("Websocket write failed", "subscription_id", sub.ID, "error", err)
				return
			}

		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
				return
			}
		}
	}
}

// StreamEntriesSSE is the server-sent events variant of StreamEntries for
// clients that cannot open a websocket.
func (h *Handler) StreamEntriesSSE(c *gin.Context) {
	ctx := c.Request.Context()

	sub, err := h.store.Subscribe(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snapshot, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent(guestbook.MessageTypeSnapshot, guestbook.NewSnapshotMessage(snapshot))
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"time": time.Now().Unix()})
			return true
		}
	})
}

func (h *Handler) writeClose(ws *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.writeTimeout))
}
