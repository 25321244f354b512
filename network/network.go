package network

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"snatch/config"
	"snatch/game"
	"snatch/protocol"
	"snatch/room"
)

const (
	readLimit    = 1 << 20 // 1MB
	readTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second // must stay under readTimeout
	writeTimeout = 10 * time.Second
	sendBuffer   = 64
	infoTimeout  = 2 * time.Second
)

var errClosed = errors.New("connection closed")

// Server exposes the arena over HTTP and websockets.
type Server struct {
	room     *room.Room
	cfg      config.Config
	upgrader websocket.Upgrader
	conns    atomic.Int32
}

func NewServer(r *room.Room, cfg config.Config) *Server {
	s := &Server{room: r, cfg: cfg}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/arena", s.handleArena)
	r.Get("/ws", s.handleWS)
	return r
}

// checkOrigin allows everything when no origins are configured (dev),
// otherwise same-host plus the configured list.
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		log.Printf("invalid origin %q", origin)
		return false
	}
	if u.Host == r.Host {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	log.Printf("rejected websocket origin %s", origin)
	return false
}

func (s *Server) handleArena(w http.ResponseWriter, r *http.Request) {
	reply := make(chan protocol.ArenaInfo, 1)
	select {
	case s.room.Inbox <- room.Info{Reply: reply}:
	case <-r.Context().Done():
		return
	}
	select {
	case info := <-reply:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	case <-time.After(infoTimeout):
		http.Error(w, "arena busy", http.StatusServiceUnavailable)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if int(s.conns.Add(1)) > s.cfg.MaxConnections {
		s.conns.Add(-1)
		http.Error(w, "server full", http.StatusServiceUnavailable)
		return
	}
	defer s.conns.Add(-1)

	// Upgrade HTTP -> WebSocket
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	c := newConn(ws)
	go c.writePump()
	defer c.Close()

	reply := make(chan room.JoinResult, 1)
	s.room.Inbox <- room.Join{Conn: c, Name: r.URL.Query().Get("name"), Reply: reply}
	playerID := (<-reply).PlayerID
	defer func() { s.room.Inbox <- room.Leave{PlayerID: playerID} }()

	limiter := rate.NewLimiter(rate.Limit(s.cfg.UpdateRate), s.cfg.UpdateBurst)
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Println("read:", err)
			}
			return
		}
		if !limiter.Allow() {
			continue
		}
		if cmd, ok := decodeCommand(playerID, msg); ok {
			s.room.Inbox <- cmd
		}
	}
}

// decodeCommand maps a client message onto a room command. Malformed
// messages are logged and dropped.
func decodeCommand(playerID string, msg []byte) (any, bool) {
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		log.Printf("bad message from %s: %v", playerID, err)
		return nil, false
	}
	switch env.T {
	case protocol.MsgInput:
		in, err := protocol.DecodePayload[protocol.Input](env)
		if err != nil {
			log.Printf("bad input from %s: %v", playerID, err)
			return nil, false
		}
		return room.Input{PlayerID: playerID, Input: game.Input{
			Ax:       float64(in.Ax),
			Ay:       float64(in.Ay),
			PointerX: in.Px,
			PointerY: in.Py,
			Pointer:  in.Pointer,
		}}, true
	case protocol.MsgPlayerUpdate:
		return room.Update{PlayerID: playerID, Update: protocol.DecodePlayerUpdate(env.P)}, true
	case protocol.MsgPlayerDeath, protocol.MsgTrailCollision:
		return room.Death{PlayerID: playerID}, true
	case protocol.MsgHello:
		h, err := protocol.DecodePayload[protocol.Hello](env)
		if err != nil || h.Name == "" {
			return nil, false
		}
		return room.Rename{PlayerID: playerID, Name: h.Name}, true
	default:
		return nil, false
	}
}

// conn is the room's handle on one websocket. Sends never block the room:
// when the buffer is full the frame is dropped.
type conn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *conn) Send(b []byte) error {
	select {
	case <-c.done:
		return errClosed
	default:
	}
	select {
	case c.send <- b:
	default:
		// lagging client; the next snapshot supersedes this one
	}
	return nil
}

func (c *conn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case b := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Println("write:", err)
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}
