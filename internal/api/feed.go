package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/pkg/logger"
)

const writeWait = 10 * time.Second

// Feed pushes every completed scan report to connected websocket clients.
// Slow or dead clients are dropped, never waited on.
type Feed struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewFeed creates the scan feed.
func NewFeed(log *logger.Logger) *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handle upgrades the connection and keeps it registered until the client
// goes away.
// GET /ws/scan
func (f *Feed) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	f.mu.Lock()
	f.clients[conn] = true
	n := len(f.clients)
	f.mu.Unlock()
	f.logger.WithField("clients", n).Debug("Feed client connected")

	// Reads are discarded; the loop only notices disconnects.
	go func() {
		defer f.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends the report to every connected client.
func (f *Feed) Broadcast(rep *scanner.Report) {
	f.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(f.clients))
	for conn := range f.clients {
		conns = append(conns, conn)
	}
	f.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(rep); err != nil {
			f.logger.WithError(err).Debug("Feed client dropped")
			f.drop(conn)
		}
	}
}

func (f *Feed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	if _, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
		conn.Close()
	}
	f.mu.Unlock()
}
