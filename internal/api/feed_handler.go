package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/livechat-history-viewer/internal/config"
	"github.com/livechat-history-viewer/internal/feed"
	"github.com/rs/zerolog"
)

const keepAliveInterval = 15 * time.Second

// FeedHandler serves the live document
type FeedHandler struct {
	doc       *feed.Document
	keepAlive time.Duration
	log       zerolog.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(doc *feed.Document, cfg config.RenderConfig, log zerolog.Logger) *FeedHandler {
	keepAlive := cfg.KeepAlive
	if keepAlive <= 0 {
		keepAlive = keepAliveInterval
	}
	return &FeedHandler{
		doc:       doc,
		keepAlive: keepAlive,
		log:       log.With().Str("handler", "feed").Logger(),
	}
}

// GetSnapshot handles GET /v1/feed
func (h *FeedHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.doc.Snapshot())
}

// StreamEvents handles GET /v1/feed/events
// Sends a snapshot event followed by every mutation as a server-sent event
func (h *FeedHandler) StreamEvents(c *gin.Context) {
	ctx := c.Request.Context()

	sub, snap := h.doc.Subscribe()
	defer h.doc.Unsubscribe(sub)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.log.Debug().Uint64("seq", snap.Seq).Msg("Feed subscriber connected")

	c.SSEvent("snapshot", snap)
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Msg("Feed subscriber disconnected")
			return
		case ev, ok := <-sub.Events():
			if !ok {
				// Dropped for falling behind; the client reconnects and
				// starts again from a fresh snapshot
				c.SSEvent("resync", gin.H{})
				c.Writer.Flush()
				return
			}
			c.SSEvent(string(ev.Type), ev)
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"time": time.Now().Unix()})
			c.Writer.Flush()
		}
	}
}
