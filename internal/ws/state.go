// Package ws broadcasts reconstructed preview frames to websocket clients.
package ws

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type topologyMsg struct {
	Type   string `json:"type"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

type frameMsg struct {
	Type    string `json:"type"`
	FrameID uint64 `json:"frame_id"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	RGB     string `json:"rgb"` // base64, packed RGB bytes, row major
}

// State fans reconstructed frames out to connected preview clients.
type State struct {
	mu      sync.Mutex
	width   int
	height  int
	frameID uint64
	started time.Time
	clients map[*websocket.Conn]bool
}

func NewState(width, height int) *State {
	return &State{
		width:   width,
		height:  height,
		started: time.Now(),
		clients: map[*websocket.Conn]bool{},
	}
}

// HandleFramesWS upgrades a client and keeps it subscribed until it hangs
// up. Clients send nothing; the read loop exists to notice disconnects.
func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	n := len(s.clients)
	s.mu.Unlock()
	log.Info().Int("clients", n).Msg("preview client connected")

	_ = conn.WriteJSON(topologyMsg{Type: "topology", Width: s.width, Height: s.height})

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends one reconstructed frame to every client. Slow clients are
// dropped rather than allowed to stall the tick loop.
func (s *State) Broadcast(rgb []byte) {
	s.mu.Lock()
	s.frameID++
	msg := frameMsg{
		Type:    "frame",
		FrameID: s.frameID,
		Width:   s.width,
		Height:  s.height,
		RGB:     base64.StdEncoding.EncodeToString(rgb),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.mu.Unlock()
		return
	}
	var drop []*websocket.Conn
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			drop = append(drop, conn)
		}
	}
	for _, conn := range drop {
		delete(s.clients, conn)
		_ = conn.Close()
	}
	s.mu.Unlock()
	if len(drop) > 0 {
		log.Warn().Int("dropped", len(drop)).Msg("preview clients dropped")
	}
}

// HandleHealth reports liveness and uptime.
func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"ok":       true,
		"uptime_s": time.Since(s.started).Seconds(),
		"frames":   s.frameID,
		"clients":  len(s.clients),
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
