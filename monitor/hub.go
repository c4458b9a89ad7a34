// Package monitor provides a real-time WebSocket broadcast of simulation
// progress: each honest payment and each jamming batch, as the engine
// processes it, pushed out to connected frontend clients.
package monitor

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType tags the payload carried by a Message.
type MessageType string

const (
	// MsgTypeHonestPayment announces an honest-mode payment attempt's outcome.
	MsgTypeHonestPayment MessageType = "HONEST_PAYMENT"
	// MsgTypeJammingBatch announces a jamming batch's outcome.
	MsgTypeJammingBatch MessageType = "JAMMING_BATCH"
	// MsgTypeRunComplete announces that a run has finished.
	MsgTypeRunComplete MessageType = "RUN_COMPLETE"
)

// Message is one WebSocket frame sent to clients.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// HonestPaymentUpdate reports one honest-mode payment's outcome.
type HonestPaymentUpdate struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   int64   `json:"amount"`
	Reached  bool    `json:"reached"`
	SimTime  float64 `json:"sim_time"`
}

// JammingBatchUpdate reports one jamming batch's outcome.
type JammingBatchUpdate struct {
	Attacker      string   `json:"attacker"`
	Victim        string   `json:"victim"`
	FullyJammed   bool     `json:"fully_jammed"`
	RemainingOpen []string `json:"remaining_open"`
	SimTime       float64  `json:"sim_time"`
}

// RunCompleteUpdate reports the final stats of a finished run.
type RunCompleteUpdate struct {
	NumSent            int `json:"num_sent"`
	NumFailed          int `json:"num_failed"`
	NumReachedReceiver int `json:"num_reached_receiver"`
}

// Hub tracks connected WebSocket clients under a single mutex and fans a
// broadcast out to each client's send buffer directly, rather than funneling
// every registration and broadcast through one actor goroutine reading off
// register/unregister/broadcast channels: there is no per-client state
// besides membership, so a goroutine whose only job is to serialize map
// writes is redundant with a mutex that already does exactly that.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// Client represents one connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *Message
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewHub creates a new broadcast hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Run blocks until ctx is cancelled. The hub does no background work of its
// own — registration and broadcast are handled synchronously under mu — so
// this only gives callers a uniform ctx-scoped lifecycle to run it alongside
// other long-running components.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("monitor: client connected (total: %d)", n)
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("monitor: client disconnected (total: %d)", n)
}

// Broadcast sends msg to every connected client. A client whose send buffer
// is full is dropped rather than blocking the broadcaster on a slow reader.
func (h *Hub) Broadcast(msg *Message) {
	msg.Timestamp = time.Now().UnixMilli()

	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.removeClient(c)
	}
}

// BroadcastHonestPayment sends an honest-payment update.
func (h *Hub) BroadcastHonestPayment(u *HonestPaymentUpdate) {
	h.Broadcast(&Message{Type: MsgTypeHonestPayment, Data: u})
}

// BroadcastJammingBatch sends a jamming-batch update.
func (h *Hub) BroadcastJammingBatch(u *JammingBatchUpdate) {
	h.Broadcast(&Message{Type: MsgTypeJammingBatch, Data: u})
}

// BroadcastRunComplete sends the final run stats.
func (h *Hub) BroadcastRunComplete(u *RunCompleteUpdate) {
	h.Broadcast(&Message{Type: MsgTypeRunComplete, Data: u})
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an HTTP request to a WebSocket connection and registers
// the resulting client with the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: upgrade failed: %v", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan *Message, 64)}
	h.addClient(client)

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("monitor: failed to marshal message: %v", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("monitor: read error: %v", err)
			}
			break
		}
	}
}

// Server provides the HTTP server exposing the monitor's WebSocket endpoint.
type Server struct {
	hub    *Hub
	server *http.Server
}

// NewServer builds a monitor server bound to addr.
func NewServer(addr string) *Server {
	hub := NewHub()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return &Server{
		hub:    hub,
		server: &http.Server{Addr: addr, Handler: mux},
	}
}

// Hub returns the underlying broadcast hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the hub loop and serves HTTP until the process is stopped.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	log.Printf("monitor: serving on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
