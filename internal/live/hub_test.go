package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecopulse/internal/models"
)

// dialHub stands up a websocket endpoint that registers every accepted
// connection on the hub and returns a connected client.
func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	stop := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Add(conn)
		<-stop
	}))
	t.Cleanup(func() {
		close(stop)
		server.Close()
	})

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func TestPublishRecordDeliversToClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	client := dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.clientCount() == 1 }, time.Second, 10*time.Millisecond)

	record := models.EmissionRecord{ID: uuid.New(), Model: "gpt-4o", Region: "europe-west1", Tokens: 1200}
	hub.PublishRecord(record)

	client.SetReadDeadline(time.Now().Add(time.Second))
	var got models.EmissionRecord
	require.NoError(t, client.ReadJSON(&got))
	require.Equal(t, record.ID, got.ID)
	require.Equal(t, record.Region, got.Region)
}

// A dashboard that stops reading must not wedge the publish path: once its
// socket buffers fill, the write deadline expires and the client is dropped.
func TestPublishRecordDropsStalledClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.writeTimeout = 100 * time.Millisecond
	dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.clientCount() == 1 }, time.Second, 10*time.Millisecond)

	record := models.EmissionRecord{
		ID:     uuid.New(),
		Model:  strings.Repeat("x", 4096),
		Region: "us-central1",
		Tokens: 1,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5000; i++ {
			hub.PublishRecord(record)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish loop blocked on an unresponsive client")
	}
	require.Equal(t, 0, hub.clientCount())
}
