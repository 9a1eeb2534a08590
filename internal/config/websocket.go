package config

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader    websocket.Upgrader
	ReadLimit   int64
	IdleTimeout time.Duration
}

// NewWebSocket accepts upgrades from origins, or from anyone when origins
// is empty.
func NewWebSocket(origins []string) (*WebSocket, error) {
	idle, err := envDuration("WS_IDLE_TIMEOUT", time.Minute*10)
	if err != nil {
		return nil, err
	}
	ws := &WebSocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				return slices.Contains(origins, r.Header.Get("Origin"))
			},
		},
		ReadLimit:   512,
		IdleTimeout: idle,
	}
	return ws, nil
}
