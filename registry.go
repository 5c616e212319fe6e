package main

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// SessionManager owns the room-code → hub registry. Hubs are created on
// first use and reaped once idle for longer than the configured session
// timeout, so abandoned rooms cannot accumulate goroutines forever.
type SessionManager struct {
	mu   sync.Mutex
	hubs map[string]*Hub
	cfg  *Config
	dir  Directory

	idleTimeout time.Duration
}

func newSessionManager(cfg *Config, dir Directory) *SessionManager {
	return &SessionManager{
		hubs:        make(map[string]*Hub),
		cfg:         cfg,
		dir:         dir,
		idleTimeout: cfg.sessionTimeout,
	}
}

// getHub returns the hub for a room code, starting one if needed. All
// clients for the same code share one hub and therefore one event loop.
func (sm *SessionManager) getHub(code string) *Hub {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	hub, ok := sm.hubs[code]
	if !ok {
		hub = newHub(sm.cfg, sm.dir, code)
		sm.hubs[code] = hub

		go hub.run()

		logf(sm.cfg, "ROOMS: Opened session hub for %s", code)
	}

	return hub
}

func (sm *SessionManager) hubCount() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.hubs)
}

// drop removes a hub from the registry, but only if the code still maps to
// that exact hub; a newer hub under the same code stays.
func (sm *SessionManager) drop(code string, hub *Hub) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.hubs[code] == hub {
		delete(sm.hubs, code)
	}
}

// attach registers a client with the hub for a room code. The reaper can
// evict a hub between lookup and registration, leaving a loop that will
// never serve the register channel; attach detects that through the done
// channel and retries with a fresh hub instead of blocking forever.
func (sm *SessionManager) attach(code string, client *Client) *Hub {
	for {
		hub := sm.getHub(code)

		select {
		case hub.register <- client:
			return hub
		case <-hub.done:
			sm.drop(code, hub)
		}
	}
}

// reapIdle evicts every hub whose last activity is older than the idle
// timeout. Eviction only closes the hub's done channel; the run loop
// observes it, disconnects its own clients, and exits along with any stage
// driver. The reaper never touches hub state directly.
func (sm *SessionManager) reapIdle(now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	reaped := 0
	for code, hub := range sm.hubs {
		if now.Sub(hub.idleSince()) < sm.idleTimeout {
			continue
		}

		close(hub.done)
		delete(sm.hubs, code)
		reaped++

		logf(sm.cfg, "ROOMS: Reaped idle session hub for %s", code)
	}

	return reaped
}

func (sm *SessionManager) reaperLoop() {
	ticker := time.NewTicker(sm.idleTimeout / 2)
	defer ticker.Stop()

	for now := range ticker.C {
		sm.reapIdle(now)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveSessionWS(sm *SessionManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		code := strings.ToUpper(p.ByName("code"))
		if code == "" {
			http.Error(w, "missing room code", http.StatusBadRequest)

			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(sm.cfg, "ROOMS: Websocket upgrade for %s failed: %v", code, err)

			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 8),
		}

		hub := sm.attach(code, client)

		go client.writePump()
		go client.readPump(hub)

		logf(sm.cfg, "ROOMS: %s connected to %s", realIP(r), code)
	}
}

func registerSessionRoutes(cfg *Config, prefix string, mux *httprouter.Router, dir Directory) {
	sm := newSessionManager(cfg, dir)

	go sm.reaperLoop()

	mux.GET(cfg.prefix+prefix+"/:code/ws", serveSessionWS(sm))
	mux.GET(cfg.prefix+prefix+"/:code/qr", serveSessionQR(cfg))
}
