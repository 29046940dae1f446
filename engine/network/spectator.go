package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	writeWait      = 5 * time.Second
	sendBufferSize = 8
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Spectator streams world frames to read-only websocket viewers. Slow
// viewers miss frames rather than stall the game loop.
type Spectator struct {
	mu       sync.Mutex
	clients  map[string]*client
	lastHash uint64
	hasLast  bool
	closed   bool

	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewSpectator(log *zap.Logger) *Spectator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Spectator{
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeHTTP upgrades the request and registers a viewer
func (s *Spectator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("spectator upgrade failed", zap.Error(err))
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBufferSize)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[c.id] = c
	// a new viewer needs the next frame even if nothing changed
	s.hasLast = false
	s.mu.Unlock()

	s.log.Info("spectator connected", zap.String("client", c.id), zap.String("remote", r.RemoteAddr))
	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop discards inbound messages and unregisters on disconnect
func (s *Spectator) readLoop(c *client) {
	defer s.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Spectator) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.log.Debug("spectator write failed", zap.String("client", c.id), zap.Error(err))
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Spectator) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.send)
	}
	s.mu.Unlock()
	s.log.Info("spectator disconnected", zap.String("client", c.id))
}

// Broadcast sends f to every viewer. Frames whose entity states match the
// previous broadcast are skipped; the return value reports whether f was sent.
func (s *Spectator) Broadcast(f Frame) (bool, error) {
	body, err := json.Marshal(f.Entities)
	if err != nil {
		return false, errors.Wrap(err, "encode entities")
	}
	h := xxhash.Sum64(body)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) == 0 || s.closed {
		return false, nil
	}
	if s.hasLast && h == s.lastHash {
		return false, nil
	}

	msg, err := json.Marshal(f)
	if err != nil {
		return false, errors.Wrap(err, "encode frame")
	}
	s.lastHash, s.hasLast = h, true
	for _, c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.log.Debug("spectator frame dropped", zap.String("client", c.id))
		}
	}
	return true, nil
}

// ClientCount returns the number of connected viewers
func (s *Spectator) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every viewer and rejects new ones
func (s *Spectator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, c := range s.clients {
		delete(s.clients, id)
		close(c.send)
	}
}

// ListenAndServe serves the feed on addr at /ws until ctx is done
func (s *Spectator) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("spectator feed listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "spectator listen")
	case <-ctx.Done():
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "spectator shutdown")
		}
		return nil
	}
}
