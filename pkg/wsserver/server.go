package wsserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/block52/coinflipchain/pkg/ledger"
	"github.com/block52/coinflipchain/x/coinflip/types"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Ledger is the part of the ledger host the hub reads from.
type Ledger interface {
	Subscribe() (<-chan ledger.Block, func())
	Query(ctx context.Context, fn func(ctx context.Context, qs types.QueryServer) error) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Client represents a WebSocket client connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
}

// Hub manages all client connections and topic subscriptions
type Hub struct {
	cfg    Config
	ledger Ledger

	clients     map[*Client]bool
	topics      map[string]map[*Client]bool
	broadcast   chan *BetUpdate
	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	done        chan struct{}
	mu          sync.RWMutex
}

// Subscription represents a client subscribing to a topic
type Subscription struct {
	client *Client
	topic  Topic
}

// BetUpdate is sent to every client subscribed to one of the event's topics
type BetUpdate struct {
	Topic      string            `json:"topic"`
	Event      string            `json:"event"`
	Height     int64             `json:"height,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Data       json.RawMessage   `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func NewHub(cfg Config, l Ledger) *Hub {
	return &Hub{
		cfg:         cfg,
		ledger:      l,
		clients:     make(map[*Client]bool),
		topics:      make(map[string]map[*Client]bool),
		broadcast:   make(chan *BetUpdate, cfg.SendBuffer),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Subscription),
		unsubscribe: make(chan *Subscription),
		done:        make(chan struct{}),
	}
}

// Stats returns the number of connected clients and followed topics.
func (h *Hub) Stats() (clients, topics int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.topics)
}

// Run dispatches ledger events and client requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	events, cancel := h.ledger.Subscribe()
	defer cancel()
	defer close(h.done)

	log.Info().Msg("WebSocket hub started, listening for coinflip events")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("WebSocket hub stopped")
			return

		case block, ok := <-events:
			if !ok {
				h.closeAll()
				return
			}
			for _, update := range updatesFor(block) {
				h.fanOut(update)
			}

		case update := <-h.broadcast:
			h.fanOut(update)

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Debug().Int("clients", total).Msg("Client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()

		case sub := <-h.subscribe:
			key := sub.topic.String()
			h.mu.Lock()
			if _, ok := h.clients[sub.client]; ok {
				if h.topics[key] == nil {
					h.topics[key] = make(map[*Client]bool)
				}
				h.topics[key][sub.client] = true
				sub.client.topics[key] = true
			}
			subscribers := len(h.topics[key])
			h.mu.Unlock()

			log.Info().Str("topic", key).Int("subscribers", subscribers).Msg("Client subscribed")
			h.queue(sub.client, &BetUpdate{Topic: key, Event: EventSubscribed, Timestamp: time.Now()})
			go h.sendState(ctx, sub.client, sub.topic)

		case sub := <-h.unsubscribe:
			key := sub.topic.String()
			h.mu.Lock()
			h.leave(sub.client, key)
			h.mu.Unlock()
			h.queue(sub.client, &BetUpdate{Topic: key, Event: EventUnsubscribed, Timestamp: time.Now()})
		}
	}
}

// Broadcast queues an update for the subscribers of update.Topic.
func (h *Hub) Broadcast(update *BetUpdate) {
	select {
	case h.broadcast <- update:
	case <-h.done:
	}
}

// send hands a request to the run loop unless the hub has stopped.
func send[T any](h *Hub, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) fanOut(update *BetUpdate) {
	message, err := json.Marshal(update)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal update")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.topics[update.Topic]
	for client := range clients {
		h.deliver(client, message)
	}
	if len(clients) > 0 {
		log.Debug().
			Str("topic", update.Topic).
			Str("event_type", update.Event).
			Int("client_count", len(clients)).
			Msg("Broadcasting event to clients")
	}
}

// deliver must be called with mu held.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		log.Warn().Msg("Client send buffer full, dropping client")
		h.drop(client)
	}
}

// queue hands a message for one client to the run loop.
func (h *Hub) queue(client *Client, update *BetUpdate) {
	message, err := json.Marshal(update)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal update")
		return
	}
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		h.deliver(client, message)
	}
	h.mu.Unlock()
}

// drop must be called with mu held.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	for key := range client.topics {
		h.leave(client, key)
	}
	delete(h.clients, client)
	close(client.send)
}

// leave must be called with mu held.
func (h *Hub) leave(client *Client, key string) {
	delete(client.topics, key)
	if clients, ok := h.topics[key]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topics, key)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.drop(client)
	}
}

func (h *Hub) sendState(ctx context.Context, client *Client, topic Topic) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.SnapshotTimeout)
	defer cancel()

	update := &BetUpdate{Topic: topic.String(), Event: EventState, Timestamp: time.Now()}
	data, err := h.snapshot(ctx, topic)
	if err != nil {
		log.Warn().Err(err).Str("topic", update.Topic).Msg("Failed to query topic state")
		update.Event = EventError
		update.Error = err.Error()
	}
	update.Data = data
	h.queue(client, update)
}

// addressState lists the bets an address currently takes part in.
type addressState struct {
	Pending []types.PendingBet `json:"pending"`
	Ongoing []types.OngoingBet `json:"ongoing"`
}

func (h *Hub) snapshot(ctx context.Context, topic Topic) (json.RawMessage, error) {
	var state any
	err := h.ledger.Query(ctx, func(ctx context.Context, qs types.QueryServer) error {
		switch topic.Kind {
		case TopicBet:
			resp, err := qs.OngoingBet(ctx, &types.QueryOngoingBetRequest{BetId: topic.ID})
			if status.Code(err) == codes.NotFound {
				return nil
			}
			if err != nil {
				return err
			}
			state = resp.Bet
		case TopicAddress:
			pending, err := qs.PendingBetsByAddr(ctx, &types.QueryPendingBetsByAddrRequest{Address: topic.ID})
			if err != nil {
				return err
			}
			ongoing, err := qs.OngoingBetsByAddr(ctx, &types.QueryOngoingBetsByAddrRequest{Address: topic.ID})
			if err != nil {
				return err
			}
			state = addressState{Pending: pending.Bets, Ongoing: ongoing.Bets}
		default:
			return errors.New("unknown topic")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(state)
}

// updatesFor turns a block of ledger events into one update per topic the
// event concerns.
func updatesFor(block ledger.Block) []*BetUpdate {
	var updates []*BetUpdate
	for _, e := range block.Events {
		var topics []string
		if id := e.Attributes[types.AttributeKeyBetId]; id != "" {
			topics = append(topics, Topic{Kind: TopicBet, ID: id}.String())
		}
		seen := map[string]bool{}
		for _, key := range []string{
			types.AttributeKeySender,
			types.AttributeKeyOwner,
			types.AttributeKeyResponder,
			types.AttributeKeyWinner,
			types.AttributeKeyLiquidator,
		} {
			addr := e.Attributes[key]
			if addr == "" || seen[addr] {
				continue
			}
			seen[addr] = true
			topics = append(topics, Topic{Kind: TopicAddress, ID: addr}.String())
		}

		for _, topic := range topics {
			updates = append(updates, &BetUpdate{
				Topic:      topic,
				Event:      e.Type,
				Height:     block.Height,
				Timestamp:  block.Time,
				Attributes: e.Attributes,
			})
		}
	}
	return updates
}

func (c *Client) readPump() {
	defer func() {
		send(c.hub, c.hub.unregister, c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("WebSocket error")
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.queue(c, &BetUpdate{Event: EventError, Timestamp: time.Now(), Error: "malformed message"})
			continue
		}

		switch msg.Type {
		case MsgTypeSubscribe, MsgTypeUnsubscribe:
			topic, err := ParseTopic(msg.Topic)
			if err != nil {
				c.hub.queue(c, &BetUpdate{Topic: msg.Topic, Event: EventError, Timestamp: time.Now(), Error: err.Error()})
				continue
			}
			ch := c.hub.subscribe
			if msg.Type == MsgTypeUnsubscribe {
				ch = c.hub.unsubscribe
			}
			if !send(c.hub, ch, &Subscription{client: c, topic: topic}) {
				return
			}
		case MsgTypePing:
			c.hub.queue(c, &BetUpdate{Event: EventPong, Timestamp: time.Now()})
		default:
			c.hub.queue(c, &BetUpdate{Event: EventError, Timestamp: time.Now(), Error: "unknown message type " + msg.Type})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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

// ServeWs upgrades the request and registers the connection with the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	h.connect(w, r, nil)
}

// ServeTopic connects a client already subscribed to the topic in the path,
// e.g. /ws/bet/{id} or /ws/address/{id}.
func (h *Hub) ServeTopic(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic, err := ParseTopic(kind + ":" + mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.connect(w, r, &topic)
	}
}

func (h *Hub) connect(w http.ResponseWriter, r *http.Request, topic *Topic) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, h.cfg.SendBuffer),
		topics: make(map[string]bool),
	}
	if !send(h, h.register, client) {
		conn.Close()
		return
	}
	if topic != nil {
		send(h, h.subscribe, &Subscription{client: client, topic: *topic})
	}
	log.Info().Str("remote_addr", r.RemoteAddr).Msg("Client connected")

	go client.writePump()
	go client.readPump()
}

// HealthCheckHandler provides a health check endpoint
func (h *Hub) HealthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	clients, topics := h.Stats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":        "ok",
		"service":       "coinflip-websocket",
		"clients":       clients,
		"active_topics": topics,
	})
}

// RegisterRoutes mounts the WebSocket endpoints on router.
func (h *Hub) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.ServeWs)
	router.HandleFunc("/ws/bet/{id}", h.ServeTopic(TopicBet))
	router.HandleFunc("/ws/address/{id}", h.ServeTopic(TopicAddress))
	router.HandleFunc("/health", h.HealthCheckHandler)
}
