package websocket

import (
	"sync"

	"Blackjack/internal/utils"
)

type HubInterface interface {
	BroadcastAll(msg OutgoingMessage)
	BroadcastToPlayers(addrs []string, msg OutgoingMessage)
	ClientByAddress(addr string) (*Client, bool)
	SendToPlayer(addr string, msg OutgoingMessage)
	Close()
}

type Hub struct {
	clients    map[string]*Client // address -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	quit       chan struct{}
	mu         sync.RWMutex

	// Callbacks run on their own goroutine so they may call back into
	// the hub.
	OnIncoming func(IncomingMessage)
	OnRegister func(addr string)
}

// broadcastReq with nil Addresses goes to every client.
type broadcastReq struct {
	Addresses []string
	Message   OutgoingMessage
}

type sendReq struct {
	Address string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq),
		sendOne:    make(chan sendReq),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.Address]; ok && old != c {
				close(old.Send)
			}
			h.clients[c.Address] = c
			n := len(h.clients)
			h.mu.Unlock()
			utils.Log.Info("hub register", "address", c.Address, "clients", n)

			if h.OnRegister != nil {
				go h.OnRegister(c.Address)
			}

		case c := <-h.unregister:
			h.mu.Lock()
			// a reconnect may already have replaced this client
			if cur, ok := h.clients[c.Address]; ok && cur == c {
				delete(h.clients, c.Address)
				close(c.Send)
				utils.Log.Info("hub unregister", "address", c.Address, "clients", len(h.clients))
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			h.mu.RLock()
			if req.Addresses == nil {
				for _, client := range h.clients {
					h.deliver(client, req.Message)
				}
			} else {
				for _, addr := range req.Addresses {
					if client, ok := h.clients[addr]; ok {
						h.deliver(client, req.Message)
					}
				}
			}
			h.mu.RUnlock()

		case req := <-h.sendOne:
			h.mu.RLock()
			if client, ok := h.clients[req.Address]; ok {
				h.deliver(client, req.Message)
			}
			h.mu.RUnlock()

		case req := <-h.incoming:
			if h.OnIncoming != nil {
				go h.OnIncoming(req)
			}

		case <-h.quit:
			h.mu.Lock()
			for addr, c := range h.clients {
				close(c.Send)
				delete(h.clients, addr)
			}
			h.mu.Unlock()
			return
		}
	}
}

// deliver drops the message when the client's buffer is full.
func (h *Hub) deliver(c *Client, msg OutgoingMessage) {
	select {
	case c.Send <- msg:
	default:
		utils.Log.Warn("hub dropped message", "address", c.Address, "event", msg.Event)
	}
}

// The senders below give up once the hub is closed, since Run no longer
// receives.

func (h *Hub) BroadcastAll(msg OutgoingMessage) {
	select {
	case h.broadcast <- broadcastReq{Message: msg}:
	case <-h.quit:
	}
}

func (h *Hub) BroadcastToPlayers(addrs []string, msg OutgoingMessage) {
	if addrs == nil {
		addrs = []string{}
	}
	select {
	case h.broadcast <- broadcastReq{Addresses: addrs, Message: msg}:
	case <-h.quit:
	}
}

func (h *Hub) SendToPlayer(addr string, msg OutgoingMessage) {
	select {
	case h.sendOne <- sendReq{Address: addr, Message: msg}:
	case <-h.quit:
	}
}

// registerClient reports false when the hub is already closed.
func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// forward hands a player message to Run; false once the hub is closed.
func (h *Hub) forward(m IncomingMessage) bool {
	select {
	case h.incoming <- m:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) ClientByAddress(addr string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[addr]
	return c, ok
}

func (h *Hub) Close() {
	close(h.quit)
}
