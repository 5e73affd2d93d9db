package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/livechat-history-viewer/internal/service"
	"github.com/rs/zerolog"
)

// SessionHandler handles the two halves of the bridge
type SessionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(services *service.Services, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		services: services,
		log:      log.With().Str("handler", "session").Logger(),
	}
}

// RequestSessions handles POST /v1/requests
// Forwards the path to the bridge and returns without waiting for it
func (h *SessionHandler) RequestSessions(c *gin.Context) {
	var req models.BridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.log.Info().Str("path", req.Path).Msg("Sessions requested")
	h.services.Bridge.Request(req.Path)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Request forwarded",
		"path":    req.Path,
	})
}

// DeliverSessions handles POST /v1/sessions
// This is the callback the bridge invokes with the session list
func (h *SessionHandler) DeliverSessions(c *gin.Context) {
	var sessions []models.Session
	if err := c.ShouldBindJSON(&sessions); err != nil {
		h.log.Warn().Err(err).Msg("Rejected session delivery")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session list: " + err.Error()})
		return
	}

	passID := h.services.Render.Deliver(sessions)
	if passID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "renderer is shutting down"})
		return
	}

	h.log.Info().
		Str("pass_id", passID).
		Int("sessions", len(sessions)).
		Msg("Sessions delivered")

	c.JSON(http.StatusAccepted, gin.H{
		"pass_id":  passID,
		"sessions": len(sessions),
	})
}

// GetLastPass handles GET /v1/passes/last
func (h *SessionHandler) GetLastPass(c *gin.Context) {
	last := h.services.Render.LastPass()
	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pass has finished yet"})
		return
	}

	c.JSON(http.StatusOK, last)
}
