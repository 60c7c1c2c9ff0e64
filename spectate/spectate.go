// Package spectate streams game snapshots to watchers over WebSocket.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"snake-chase/game"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 5 * time.Second
	clientBuffer = 8
)

// Hub fans snapshots out to every connected watcher. Watchers that fall
// behind by more than clientBuffer frames are disconnected.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan []byte]struct{}
	last    []byte
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[chan []byte]struct{}),
	}
}

// Publish sends snap to all watchers without blocking
func (h *Hub) Publish(snap game.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		glog.Warningf("Spectate: marshal snapshot: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		select {
		case c <- data:
		default:
			glog.V(1).Infof("Spectate: dropping slow watcher")
			delete(h.clients, c)
			close(c)
		}
	}
}

// Clients returns the number of connected watchers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register() chan []byte {
	c := make(chan []byte, clientBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last != nil {
		c <- h.last
	}
	h.clients[c] = struct{}{}
	return c
}

func (h *Hub) unregister(c chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c)
	}
}

// ServeWS upgrades the request and streams snapshots until the watcher leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("Spectate: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := h.register()
	defer h.unregister(c)
	glog.Infof("Spectate: watcher %s connected", r.RemoteAddr)

	// watchers never send anything; reading only notices the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
					time.Now().Add(writeTimeout))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				glog.V(1).Infof("Spectate: write to %s: %v", r.RemoteAddr, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				glog.V(1).Infof("Spectate: ping %s: %v", r.RemoteAddr, err)
				return
			}
		case <-closed:
			glog.Infof("Spectate: watcher %s disconnected", r.RemoteAddr)
			return
		}
	}
}

func (h *Hub) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": h.Clients()})
}

// Handler routes /ws to the feed and /healthz to a status report
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/healthz", h.healthz)
	return mux
}

// Serve listens on addr until ctx is cancelled
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}
	errc := make(chan error, 1)
	go func() {
		glog.Infof("Spectate: listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("spectate server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
