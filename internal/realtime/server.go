// Package realtime is a rendering surface for machines without a native
// webview. It serves the document on a loopback address and uses a single
// WebSocket connection as the channel between the page and the host.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"tissue/internal/protocol"
	"tissue/internal/surface"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingInterval   = 30 * time.Second
	readDeadline   = 60 * time.Second
	writeDeadline  = 10 * time.Second
	reconnectGrace = 2 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // The token check guards the socket.
	},
}

// Server is a browser-backed surface. A page that disconnects and does not
// reconnect within the grace period counts as a closed window.
type Server struct {
	sink     surface.Sink
	title    string
	token    string
	listener net.Listener
	httpSrv  *http.Server

	docMu sync.RWMutex
	doc   string

	clientMu sync.Mutex
	client   *client
	grace    *time.Timer

	// reconnectGrace is how long a vanished page has to come back.
	reconnectGrace time.Duration

	closed    chan struct{}
	closeOnce sync.Once
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
	done   chan struct{}
	once   sync.Once
}

// New listens on opts.Addr, which must be a loopback address.
func New(opts surface.Options, sink surface.Sink) (*Server, error) {
	addr := opts.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	if err := checkLoopback(addr); err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &Server{
		sink:           sink,
		title:          opts.Title,
		token:          uuid.NewString(),
		listener:       ln,
		reconnectGrace: reconnectGrace,
		closed:         make(chan struct{}),
	}
	s.httpSrv = &http.Server{Handler: s.Handler()}
	return s, nil
}

// Factory adapts New to surface.Factory.
func Factory(opts surface.Options, sink surface.Sink) (surface.Surface, error) {
	return New(opts, sink)
}

func checkLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("listen address %q is not a loopback address", addr)
	}
	return nil
}

// URL is the address to open in a browser.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String() + "/"
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return mux
}

// Run serves the page until the window is closed.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Printf("%s ready on %s", s.title, s.URL())

	select {
	case <-s.closed:
		return nil
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}
}

// Terminate closes the window.
func (s *Server) Terminate() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Destroy drops the connection and stops serving.
func (s *Server) Destroy() {
	s.Terminate()

	s.clientMu.Lock()
	c := s.client
	s.client = nil
	if s.grace != nil {
		s.grace.Stop()
	}
	s.clientMu.Unlock()

	if c != nil {
		c.close()
	}
	s.httpSrv.Close()
	s.listener.Close()
}

// SetHTML replaces the served document and asks a connected page to reload.
func (s *Server) SetHTML(doc string) error {
	s.docMu.Lock()
	s.doc = doc
	s.docMu.Unlock()

	msg, err := protocol.NewMessage(protocol.TypePageReload, struct{}{})
	if err != nil {
		return err
	}
	s.sendToClient(msg)
	return nil
}

// Eval sends script to the connected page. Without a page the script is
// dropped.
func (s *Server) Eval(script string) error {
	msg, err := protocol.NewMessage(protocol.TypeScriptEval, protocol.ScriptEvalPayload{Script: script})
	if err != nil {
		return err
	}
	if !s.sendToClient(msg) {
		log.Printf("realtime: no page connected, dropped script")
	}
	return nil
}

// handleWebSocket upgrades an HTTP connection to WebSocket. A new page
// replaces the previous one.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("token") != s.token {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		server: s,
		done:   make(chan struct{}),
	}

	s.clientMu.Lock()
	prev := s.client
	s.client = c
	if s.grace != nil {
		s.grace.Stop()
		s.grace = nil
	}
	s.clientMu.Unlock()

	if prev != nil {
		prev.close()
	}

	go c.writePump()
	go c.readPump()
}

// readPump reads messages from the WebSocket connection.
func (c *client) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}

		c.server.handleMessage(c, message)
	}
}

// writePump writes messages to the WebSocket connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// enqueue hands data to the write pump without blocking.
func (c *client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		// Client buffer full, skip.
		return false
	}
}

// removeClient forgets a disconnected page and starts the grace period.
func (s *Server) removeClient(c *client) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	if s.client != c {
		return // Already replaced.
	}
	s.client = nil
	s.grace = time.AfterFunc(s.reconnectGrace, s.expireGrace)
}

func (s *Server) expireGrace() {
	s.clientMu.Lock()
	reconnected := s.client != nil
	s.clientMu.Unlock()

	if !reconnected {
		log.Printf("realtime: page closed")
		s.Terminate()
	}
}

// handleMessage processes a validated page message.
func (s *Server) handleMessage(c *client, raw []byte) {
	msg, err := protocol.ValidateClientMessage(raw)
	if err != nil {
		s.sendError(c, protocol.ErrInvalidMessage, err.Error())
		return
	}

	switch msg.Type {
	case protocol.TypeFormSubmit:
		var payload protocol.FormSubmitPayload
		json.Unmarshal(msg.Payload, &payload)
		s.sink(surface.Event{Kind: surface.EventMessage, Data: *payload.Values})

	case protocol.TypeScriptResult:
		var payload protocol.ScriptResultPayload
		json.Unmarshal(msg.Payload, &payload)
		s.sink(surface.Event{Kind: surface.EventScriptResult, Data: payload.Result})
	}
}

func (s *Server) sendToClient(msg *protocol.Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}

	s.clientMu.Lock()
	c := s.client
	s.clientMu.Unlock()

	if c == nil {
		return false
	}
	return c.enqueue(data)
}

func (s *Server) sendError(c *client, code, message string) {
	msg, _ := protocol.NewErrorMessage(code, message)
	data, _ := json.Marshal(msg)
	c.enqueue(data)
}
