package rpc

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/LeJamon/goPredictd/internal/core/tx"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512 * 1024

	defaultSendQueue = 256
)

// Hub streams committed events to websocket clients. It is a node event
// sink: every closed block is fanned out to the subscribed clients.
type Hub struct {
	upgrader  websocket.Upgrader
	queueSize int
	logger    *slog.Logger

	// dispatch runs rpc commands sent over the socket
	dispatch func(method string, params json.RawMessage, ctx *RpcContext) (interface{}, *RpcError)
	services *Services

	mu      sync.RWMutex
	clients map[string]*wsClient
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu         sync.Mutex
	subscribed bool
	// proposals restricts the stream when non-empty
	proposals map[uint64]struct{}

	closeOnce sync.Once
	done      chan struct{}
}

// BlockMessage is pushed to subscribers once per closed block.
type BlockMessage struct {
	Type   string     `json:"type"`
	Height uint64     `json:"height"`
	Events []tx.Event `json:"events"`
}

// NewHub creates a hub. queueSize bounds each client's outgoing queue; a
// client that falls that far behind is disconnected.
func NewHub(queueSize int, logger *slog.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = defaultSendQueue
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		queueSize: queueSize,
		logger:    logger.With(slog.String("component", "ws")),
		clients:   make(map[string]*wsClient),
	}
}

// ServeHTTP upgrades the request and starts the client's pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	c := &wsClient{
		id:        uuid.NewString(),
		conn:      conn,
		send:      make(chan []byte, h.queueSize),
		proposals: make(map[uint64]struct{}),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Debug("websocket client connected",
		slog.String("client", c.id),
		slog.String("remote", getClientIP(r)),
	)

	go h.writePump(c)
	go h.readPump(c, getClientIP(r))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish implements node.EventSink.
func (h *Hub) Publish(_ context.Context, height uint64, events []tx.Event) error {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		matched, ok := c.filter(events)
		if !ok {
			continue
		}
		data, err := json.Marshal(BlockMessage{Type: "block", Height: height, Events: matched})
		if err != nil {
			return err
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket client too slow, disconnecting", slog.String("client", c.id))
			h.remove(c)
		}
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.remove(c)
	}
}

// filter returns the events c wants and whether c should get the block at
// all. A proposal filter drops blocks with no matching event.
func (c *wsClient) filter(events []tx.Event) ([]tx.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.subscribed {
		return nil, false
	}
	if len(c.proposals) == 0 {
		if events == nil {
			events = []tx.Event{}
		}
		return events, true
	}
	var out []tx.Event
	for _, e := range events {
		if e.ProposalID == nil {
			continue
		}
		if _, ok := c.proposals[*e.ProposalID]; ok {
			out = append(out, e)
		}
	}
	return out, len(out) > 0
}

func (h *Hub) remove(c *wsClient) {
	c.closeOnce.Do(func() {
		h.mu.Lock()
		delete(h.clients, c.id)
		h.mu.Unlock()
		close(c.done)
		c.conn.Close()
		h.logger.Debug("websocket client disconnected", slog.String("client", c.id))
	})
}

func (h *Hub) readPump(c *wsClient, clientIP string) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read failed", slog.String("client", c.id), slog.String("error", err.Error()))
			}
			return
		}
		reply := h.handleMessage(c, message, clientIP)
		select {
		case c.send <- reply:
		case <-c.done:
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// wsCommand is a request sent over the socket. Fields other than command
// and id are the method's parameters.
type wsCommand struct {
	Command    string          `json:"command"`
	ID         interface{}     `json:"id,omitempty"`
	ProposalID *uint64         `json:"proposal_id,omitempty"`
	raw        json.RawMessage
}

func (h *Hub) handleMessage(c *wsClient, message []byte, clientIP string) []byte {
	var cmd wsCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		return wsResponse(nil, nil, NewRpcError(RpcPARSE_ERROR, "jsonInvalid", "Invalid JSON: "+err.Error()))
	}
	cmd.raw = message
	if cmd.Command == "" {
		return wsResponse(cmd.ID, nil, NewRpcError(RpcMISSING_COMMAND, "missingCommand", "Missing command field"))
	}

	switch cmd.Command {
	case "subscribe":
		c.mu.Lock()
		c.subscribed = true
		if cmd.ProposalID != nil {
			c.proposals[*cmd.ProposalID] = struct{}{}
		} else {
			c.proposals = make(map[uint64]struct{})
		}
		c.mu.Unlock()
		return wsResponse(cmd.ID, map[string]interface{}{}, nil)

	case "unsubscribe":
		c.mu.Lock()
		if cmd.ProposalID != nil {
			delete(c.proposals, *cmd.ProposalID)
			if len(c.proposals) == 0 {
				c.subscribed = false
			}
		} else {
			c.subscribed = false
			c.proposals = make(map[uint64]struct{})
		}
		c.mu.Unlock()
		return wsResponse(cmd.ID, map[string]interface{}{}, nil)
	}

	if h.dispatch == nil {
		return wsResponse(cmd.ID, nil, RpcErrorMethodNotFound(cmd.Command))
	}
	result, rpcErr := h.dispatch(cmd.Command, cmd.raw, &RpcContext{
		Context:  context.Background(),
		Services: h.services,
		ClientIP: clientIP,
	})
	return wsResponse(cmd.ID, result, rpcErr)
}

func wsResponse(id interface{}, result interface{}, rpcErr *RpcError) []byte {
	resp := map[string]interface{}{"type": "response"}
	if id != nil {
		resp["id"] = id
	}
	if rpcErr != nil {
		resp["status"] = "error"
		resp["error"] = rpcErr.ErrorString
		resp["error_code"] = rpcErr.Code
		resp["error_message"] = rpcErr.Message
	} else {
		resp["status"] = "success"
		resp["result"] = result
	}
	data, _ := json.Marshal(resp)
	return data
}
