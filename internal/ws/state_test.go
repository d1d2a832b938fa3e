package ws

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameFanout(t *testing.T) {
	s := NewState(4, 2)
	srv := httptest.NewServer(http.HandlerFunc(s.HandleFramesWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var topo topologyMsg
	require.NoError(t, conn.ReadJSON(&topo))
	assert.Equal(t, "topology", topo.Type)
	assert.Equal(t, 4, topo.Width)
	assert.Equal(t, 2, topo.Height)

	rgb := make([]byte, 4*2*3)
	for i := range rgb {
		rgb[i] = byte(i)
	}
	// The subscriber map is written asynchronously by the handler; wait for
	// the registration before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		n := len(s.clients)
		s.mu.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.Broadcast(rgb)

	var frame frameMsg
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "frame", frame.Type)
	assert.Equal(t, uint64(1), frame.FrameID)
	got, err := base64.StdEncoding.DecodeString(frame.RGB)
	require.NoError(t, err)
	assert.Equal(t, rgb, got)
}

func TestHealthReportsCounters(t *testing.T) {
	s := NewState(8, 8)
	s.Broadcast(make([]byte, 8*8*3))
	s.Broadcast(make([]byte, 8*8*3))

	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(2), body["frames"])
}
