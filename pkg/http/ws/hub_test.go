package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveHub registers every upgraded connection under userID and returns a
// dialed client.
func serveHub(t *testing.T, hub *Hub, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := NewUpgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(raw, zerolog.Nop())
		hub.RegisterConnection(userID, conn)
		go conn.WritePump()
		conn.ReadPump(func(Message) error { return nil })
		hub.UnregisterConnection(userID, conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestHubSendToUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := uuid.New()
	client := serveHub(t, hub, userID)

	require.Eventually(t, func() bool {
		_, ok := hub.GetConnection(userID)
		return ok
	}, time.Second, 10*time.Millisecond)

	msg, err := NewMessage(TypeImportProgress, ImportProgressPayload{JobID: "job-1", Total: 4, Processed: 1, Fraction: 0.25})
	require.NoError(t, err)
	require.NoError(t, hub.SendToUser(userID, msg))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Message
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, TypeImportProgress, got.Type)

	var payload ImportProgressPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "job-1", payload.JobID)
	assert.Equal(t, 0.25, payload.Fraction)
}

func TestMalformedFrameGetsErrorReply(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := serveHub(t, hub, uuid.New())

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("not json")))

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Message
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, TypeError, got.Type)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "invalid_payload", payload.Code)
}

func TestHubSendToUnknownUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	err := hub.SendToUser(uuid.New(), Message{Type: TypePong})
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestUnregisterKeepsNewerConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	userID := uuid.New()

	older := &Connection{sendCh: make(chan Message, 1), closed: true}
	newer := &Connection{sendCh: make(chan Message, 1)}
	hub.connections[userID] = newer

	hub.UnregisterConnection(userID, older)
	current, ok := hub.GetConnection(userID)
	require.True(t, ok)
	assert.Same(t, newer, current)
}

func TestSendAfterClose(t *testing.T) {
	conn := &Connection{sendCh: make(chan Message, 1), closed: true}
	assert.ErrorIs(t, conn.Send(Message{Type: TypePong}), ErrConnectionClosed)

	full := &Connection{sendCh: make(chan Message, 1)}
	require.NoError(t, full.Send(Message{Type: TypePong}))
	assert.ErrorIs(t, full.Send(Message{Type: TypePong}), ErrSendQueueFull)
}

func TestUpgraderOrigins(t *testing.T) {
	up := NewUpgrader([]string{"https://algosync.dev/"})

	req := httptest.NewRequest(http.MethodGet, "http://api.algosync.dev/ws/imports", nil)
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "https://algosync.dev")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "https://api.algosync.dev")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, up.CheckOrigin(req))

	assert.True(t, NewUpgrader([]string{"*"}).CheckOrigin(req))
}
