package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SnapshotFunc returns the message sent right after a student connects
type SnapshotFunc func(ctx context.Context, studentID int64) (msgType string, payload any, err error)

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	snapshot SnapshotFunc
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. snapshot may be nil.
func NewHandler(hub *Hub, snapshot SnapshotFunc, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		snapshot: snapshot,
		logger:   logger,
	}
}

// HandleConnection godoc
// @Summary Live weekly schedule
// @Description Upgrades to a WebSocket that receives the schedule grid whenever the cart changes
// @Tags schedule, websocket
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /schedule/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	studentID := c.GetInt64("studentID")
	if studentID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Student ID not found in context",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		studentID: studentID,
		snapshot:  h.snapshot,
		logger:    h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("studentID", studentID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
