package ws

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegisteredClient(t *testing.T, m *PreviewManager, userID string) *Client {
	t.Helper()
	client := &Client{
		ID:      uuid.NewString(),
		UserID:  userID,
		Send:    make(chan any, 16),
		Manager: m,
	}
	m.register <- client
	return client
}

func TestPreviewManager_SameUserTwoSessions(t *testing.T) {
	t.Parallel()

	m := NewPreviewManager()
	go m.Run()

	// two connections from one user must both stay registered
	first := newRegisteredClient(t, m, "user-1")
	second := newRegisteredClient(t, m, "user-1")

	require.Eventually(t, func() bool {
		return m.ClientCount() == 2
	}, time.Second, 5*time.Millisecond)
	assert.True(t, m.IsClientConnected(first.ID))
	assert.True(t, m.IsClientConnected(second.ID))

	// dropping one session leaves the other untouched
	m.unregister <- first
	require.Eventually(t, func() bool {
		return m.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, m.IsClientConnected(first.ID))
	assert.True(t, m.IsClientConnected(second.ID))
}

func TestPreviewManager_SendToClient(t *testing.T) {
	t.Parallel()

	m := NewPreviewManager()
	go m.Run()

	client := newRegisteredClient(t, m, "user-1")
	require.Eventually(t, func() bool {
		return m.IsClientConnected(client.ID)
	}, time.Second, 5*time.Millisecond)

	m.SendToClient(client.ID, "hello")
	select {
	case msg := <-client.Send:
		assert.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("expected a delivered message")
	}

	// unknown ids are a silent no-op
	m.SendToClient("absent", "dropped")
	assert.Equal(t, 1, m.ClientCount())
}
