package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lysyi3m/wedding-feed/app/cfg"
	"github.com/lysyi3m/wedding-feed/app/feed"
	"github.com/lysyi3m/wedding-feed/app/guestbook"
	"github.com/lysyi3m/wedding-feed/app/invitation"
	"github.com/lysyi3m/wedding-feed/app/rsvp"
	"github.com/lysyi3m/wedding-feed/app/tasks"
)

func NewHandler(store *guestbook.Store, rsvps *rsvp.Service, invitationCache *invitation.Cache,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	pingInterval := cfg.Get().PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}

	return &Handler{
		store:      store,
		rsvps:      rsvps,
		invitation: invitationCache,
		generator:  feed.NewGenerator(),
		scheduler:  scheduler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// the page is served from a different origin than the API
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pingInterval: pingInterval,
		writeTimeout: 10 * time.Second,
	}
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	entry, err := h.store.Append(c.Request.Context(), guestbook.AppendRequest{
		AuthorName:     req.AuthorName,
		Message:        req.Message,
		DeletePassword: req.DeletePassword,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{ID: entry.ID, CreatedAt: entry.CreatedAt})
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	var req DeleteEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	if err := h.store.Remove(c.Request.Context(), c.Param("id"), req.DeletePassword); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ListEntries(c *gin.Context) {
	snapshot, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) CreateRSVP(c *gin.Context) {
	var req CreateRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	result, err := h.rsvps.Submit(c.Request.Context(), rsvp.SubmitRequest{
		Name:           req.Name,
		Attending:      req.Attending,
		PartySize:      req.PartySize,
		MealPreference: req.MealPreference,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedResponse{ID: result.ID, CreatedAt: result.CreatedAt})
}

func (h *Handler) GetGuestbookFeed(c *gin.Context) {
	snapshot, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "load_snapshot", "error", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}

	rss, err := h.generator.Run(h.invitation.Get(), snapshot.Entries)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(snapshot.Entries)))
	c.Header("X-Feed-Revision", strconv.FormatInt(snapshot.Revision, 10))

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.Get().Version,
	}

	count, err := h.store.EntryCount(c.Request.Context())
	if err != nil {
		slog.Error("Health check failed", "error", err)
		health["status"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["entries"] = count

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := h.store.Stats()

	response := map[string]interface{}{
		"revision":          stats.Revision,
		"subscribers":       stats.Subscribers,
		"dropped_snapshots": stats.Dropped,
	}

	if count, err := h.store.EntryCount(c.Request.Context()); err == nil {
		response["entries"] = count
	}
	if summary, err := h.rsvps.Summary(c.Request.Context()); err == nil {
		response["rsvp_responses"] = summary.Responses
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) APIListRSVPs(c *gin.Context) {
	rsvps, err := h.rsvps.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"rsvps": rsvps,
		"total": len(rsvps),
	})
}

func (h *Handler) APIGetRSVPSummary(c *gin.Context) {
	summary, err := h.rsvps.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) APIReloadInvitation(c *gin.Context) {
	config, err := h.invitation.Reload()
	if err != nil {
		slog.Error("Error reloading invitation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload invitation",
			"details": err.Error(),
		})
		return
	}

	syncTask := tasks.NewSyncSnapshotTask(h.store)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	summarizeTask := tasks.NewSummarizeRSVPTask(h.rsvps)
	if err := h.scheduler.EnqueueTask(summarizeTask); err != nil {
		slog.Error("Error enqueueing summarize task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue summarize task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Invitation reloaded and tasks enqueued successfully",
		"invitation": gin.H{
			"title":   config.DisplayTitle(),
			"date":    config.Date,
			"filters": len(config.Guestbook.Filters),
			"rsvp":    config.RSVP.IsOpen(time.Now()),
		},
		"tasks": []gin.H{
			{"id": syncTask.ID, "type": syncTask.Type},
			{"id": summarizeTask.ID, "type": summarizeTask.Type},
		},
	})
}
