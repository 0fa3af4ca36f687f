package ws

import (
	"net/http"
	"time"

	"fieldserve_backend/internal/logger"
	"fieldserve_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type PreviewHandler struct {
	Manager     *PreviewManager
	Attachments services.AttachmentService
	ResetDelay  time.Duration
}

func NewPreviewHandler(manager *PreviewManager, attachments services.AttachmentService, resetDelay time.Duration) *PreviewHandler {
	return &PreviewHandler{
		Manager:     manager,
		Attachments: attachments,
		ResetDelay:  resetDelay,
	}
}

// ServeWS upgrades the connection and starts a preview session bound to
// the authenticated user.
func (h *PreviewHandler) ServeWS(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(uuid.NewString(), userID.(string), conn, c.Request.Context(), h.Manager, h.Attachments, h.ResetDelay)
	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
