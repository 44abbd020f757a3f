// Package remote exposes the viewer's page controls over a websocket so a
// browser can recolor the model, reset the view and drive the panels.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/ansipixels/showcase/render"
	"github.com/gorilla/websocket"
)

// Command operations.
const (
	OpColor  = "color"
	OpReset  = "reset"
	OpToggle = "toggle"
	OpEnter  = "enter"
)

// Command is one client request.
type Command struct {
	Op    string `json:"op"`
	Value string `json:"value,omitempty"`
	Panel int    `json:"panel,omitempty"`
}

// Validate checks the op and its arguments.
func (c Command) Validate() error {
	switch c.Op {
	case OpColor:
		_, err := render.ParseHex(c.Value)
		return err
	case OpReset, OpEnter:
		return nil
	case OpToggle:
		if c.Panel < 0 {
			return fmt.Errorf("invalid panel %d", c.Panel)
		}
		return nil
	}
	return fmt.Errorf("unknown op %q", c.Op)
}

// State is the snapshot broadcast after every applied command.
type State struct {
	Model       string     `json:"model"`
	Placeholder bool       `json:"placeholder"`
	Color       string     `json:"color,omitempty"`
	OpenPanel   int        `json:"open_panel"`
	Section     string     `json:"section"`
	Camera      [3]float64 `json:"camera"`
}

type errorReply struct {
	Error string `json:"error"`
}

// Server fans commands in from websocket clients and state out to them.
// Connection goroutines only see copies of State; the viewer owns the
// scene and drains Commands on its own loop.
type Server struct {
	commands chan Command
	upgrader websocket.Upgrader

	mu      sync.Mutex // guards clients and writes to them
	clients map[*websocket.Conn]bool

	stateMu sync.RWMutex
	state   State
}

// NewServer returns a server queuing up to buffer pending commands.
func NewServer(buffer int) *Server {
	return &Server{
		commands: make(chan Command, max(buffer, 1)),
		clients:  make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true // Local control page, any origin
			},
		},
	}
}

// Commands is drained by the render loop.
func (s *Server) Commands() <-chan Command {
	return s.commands
}

// Handler serves the control page at /, the websocket at /ws and the
// current state at /state.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHome)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/state", s.serveState)
	return mux
}

// Broadcast records st and sends it to every client.
func (s *Server) Broadcast(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()

	data, err := json.Marshal(st)
	if err != nil {
		log.Errf("Marshal state: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			log.LogVf("Websocket write error: %v", err)
			c.Close()
			delete(s.clients, c)
		}
	}
}

// State returns the last broadcast state.
func (s *Server) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Infof("Remote control listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("remote control: %w", err)
}

func (s *Server) serveState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.State())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("Websocket upgrade error: %v", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	err = conn.WriteJSON(s.State())
	s.mu.Unlock()
	log.LogVf("Websocket client %s connected", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
		log.LogVf("Websocket client %s disconnected", r.RemoteAddr)
	}()
	if err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.reply(conn, err)
			continue
		}
		if err := cmd.Validate(); err != nil {
			s.reply(conn, err)
			continue
		}
		select {
		case s.commands <- cmd:
		default:
			log.Warnf("Remote command queue full, dropping %q", cmd.Op)
			s.reply(conn, errors.New("busy"))
		}
	}
}

func (s *Server) reply(conn *websocket.Conn, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = conn.WriteJSON(errorReply{Error: err.Error()})
}

func (s *Server) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(homePage))
}
