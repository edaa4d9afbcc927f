package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"structiv/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	hub := NewHub(nil, &logger)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("recipient"))
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PushReachesRecipientOnly(t *testing.T) {
	hub, base := startHub(t)

	admin := dial(t, base+"?recipient=admin")
	user := dial(t, base+"?recipient=user:2")
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	n := &models.Notification{ID: "n1", Recipient: models.RecipientAdmin, Type: models.NotificationBooking, Title: "New booking request"}
	assert.Equal(t, 1, hub.Push(models.RecipientAdmin, n))

	require.NoError(t, admin.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := admin.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "notification", msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, "n1", msg.Data.ID)

	require.NoError(t, user.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = user.ReadMessage()
	assert.Error(t, err)

	assert.Equal(t, 0, hub.Push("user:99", n))
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, base := startHub(t)

	conn := dial(t, base+"?recipient=admin")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SlowClientDropsMessages(t *testing.T) {
	logger := zerolog.New(io.Discard)
	hub := NewHub(nil, &logger)

	c := &Client{recipient: "admin", send: make(chan []byte, 1), hub: hub}
	hub.clients[c] = struct{}{}

	n := &models.Notification{ID: "x"}
	assert.Equal(t, 1, hub.Push("admin", n))
	assert.Equal(t, 0, hub.Push("admin", n))

	hub.Close()
	assert.Equal(t, 0, hub.Clients())
	_, open := <-c.send
	assert.True(t, open)
	_, open = <-c.send
	assert.False(t, open)
}

func TestOriginChecker(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.True(t, originChecker(nil)(req))

	check := originChecker([]string{"http://localhost:5173"})
	assert.True(t, check(req))
	req.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, check(req))
	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
