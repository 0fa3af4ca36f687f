package ws

import (
	"sync"

	"fieldserve_backend/internal/logger"
)

// PreviewManager tracks connected preview sessions. Each client owns its
// own overlay state; the manager only handles registration and targeted
// delivery.
type PreviewManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewPreviewManager() *PreviewManager {
	return &PreviewManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *PreviewManager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.ID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("preview client registered", "client_id", client.ID, "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client.ID]; ok {
				close(client.Send)
				delete(m.clients, client.ID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("preview client unregistered", "client_id", client.ID, "total", total)
		}
	}
}

// SendToClient delivers a message to one session, dropping the client if
// its send channel is full.
func (m *PreviewManager) SendToClient(clientID string, message any) {
	m.mu.RLock()
	client, ok := m.clients[clientID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		go func() {
			m.unregister <- client
		}()
		logger.Warn("preview client dropped, send channel full", "client_id", clientID)
	}
}

func (m *PreviewManager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *PreviewManager) IsClientConnected(clientID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.clients[clientID]
	return exists
}
