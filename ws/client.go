package ws

import (
	"context"
	"encoding/json"
	"time"

	"fieldserve_backend/internal/logger"
	"fieldserve_backend/internal/preview"
	"fieldserve_backend/internal/services"

	"github.com/gorilla/websocket"
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type OutgoingWSMessage struct {
	Type  string        `json:"type"`
	State preview.State `json:"state,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Client is one connected preview session. Each client owns exactly one
// overlay, so gesture state never leaks across connections. ID is a
// per-connection identifier: the same user may hold several sessions at
// once and they must not displace each other in the registry.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan any
	Ctx    context.Context

	Manager     *PreviewManager
	Attachments services.AttachmentService
	Overlay     *preview.Overlay
}

func NewClient(id, userID string, conn *websocket.Conn, ctx context.Context, manager *PreviewManager, attachments services.AttachmentService, resetDelay time.Duration) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		Conn:        conn,
		Send:        make(chan any, 256),
		Ctx:         ctx,
		Manager:     manager,
		Attachments: attachments,
		Overlay:     preview.NewOverlay(resetDelay),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", "client_id", c.ID, "error", err)
			}
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Warn("failed to parse websocket message", "client_id", c.ID, "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.Warn("websocket write error", "client_id", c.ID, "error", err)
			break
		}
	}
}

type openPayload struct {
	OwnerKind    string `json:"owner_kind"`
	OwnerID      string `json:"owner_id"`
	AttachmentID string `json:"attachment_id"`
	StorageKey   string `json:"storage_key"`
}

type pointerPayload struct {
	Point preview.Point `json:"point"`
}

type pinchPayload struct {
	A preview.Point `json:"a"`
	B preview.Point `json:"b"`
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {

	case "open":
		var payload openPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid open payload")
			return
		}
		c.handleOpen(payload)

	case "close":
		c.Overlay.Close()
		c.sendState()

	case "zoom_in":
		c.Overlay.ZoomIn()
		c.sendState()

	case "zoom_out":
		c.Overlay.ZoomOut()
		c.sendState()

	case "pointer_down":
		var payload pointerPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid pointer payload")
			return
		}
		c.Overlay.PointerDown(payload.Point)
		c.sendState()

	case "pointer_move":
		var payload pointerPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid pointer payload")
			return
		}
		c.Overlay.PointerMove(payload.Point)
		c.sendState()

	case "pointer_up", "pointer_leave":
		c.Overlay.PointerUp()
		c.sendState()

	case "pinch_start":
		var payload pinchPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid pinch payload")
			return
		}
		c.Overlay.PinchStart(payload.A, payload.B)
		c.sendState()

	case "pinch_move":
		var payload pinchPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid pinch payload")
			return
		}
		c.Overlay.PinchMove(payload.A, payload.B)
		c.sendState()

	case "pinch_end":
		c.Overlay.PinchEnd()
		c.sendState()

	default:
		logger.Debug("unhandled preview action", "client_id", c.ID, "action", msg.Action)
		c.sendError("unknown action")
	}
}

// handleOpen resolves the requested attachment through the lifecycle
// service so the overlay only ever shows attachments the store can
// actually serve.
func (c *Client) handleOpen(payload openPayload) {
	kind, ok := services.OwnerKindByName(payload.OwnerKind)
	if !ok {
		c.sendError("unknown owner kind")
		return
	}

	views, err := c.Attachments.List(c.Ctx, kind, payload.OwnerID)
	if err != nil {
		logger.Warn("preview open failed to list attachments", "client_id", c.ID, "error", err)
		c.sendError("failed to resolve attachment")
		return
	}

	for _, view := range views {
		if (payload.AttachmentID != "" && view.ID == payload.AttachmentID) ||
			(payload.AttachmentID == "" && view.StorageKey == payload.StorageKey) {
			c.Overlay.Open(view.ID, view.URL, view.DisplayName, view.MediaClass)
			c.sendState()
			return
		}
	}
	c.sendError("attachment not found")
}

func (c *Client) sendState() {
	c.Send <- OutgoingWSMessage{Type: "state", State: c.Overlay.State()}
}

func (c *Client) sendError(msg string) {
	c.Send <- OutgoingWSMessage{Type: "error", Error: msg}
}
