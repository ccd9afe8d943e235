package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
)

// client → server events
const (
	joinEvent  = "join-student"
	leaveEvent = "leave-student"
)

// server → client events
const joinedEvent = "joined"

const (
	defaultPingPeriod = 30 * time.Second
	defaultWriteWait  = 10 * time.Second
)

// Frame is the envelope of every websocket message, both ways.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub keeps one room per student and pushes each published timeline event to the
// connections in the room of its student. Slow connections lose events instead of
// holding up the others.
type Hub struct {
	bus      Bus
	conf     core.RealtimeConfig
	logger   core.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	rooms   map[string]map[*client]struct{}
	clients map[*client]struct{}
	closed  bool

	unsubscribe func()
}

var _ campus.Publisher = (*Hub)(nil)

// NewHub subscribes a new hub to bus.
func NewHub(bus Bus, conf *core.Config, logger core.Logger, metrics *Metrics) (*Hub, error) {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	rtConf := conf.Realtime
	if rtConf.PingPeriod <= 0 {
		rtConf.PingPeriod = defaultPingPeriod
	}
	if rtConf.WriteWait <= 0 {
		rtConf.WriteWait = defaultWriteWait
	}
	h := &Hub{
		bus:     bus,
		conf:    rtConf,
		logger:  logger,
		metrics: metrics,
		rooms:   make(map[string]map[*client]struct{}),
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(conf.Server.AllowedOrigins),
	}

	unsubscribe, err := bus.Subscribe(h.deliver)
	if err != nil {
		return nil, errors.Wrap(err, "subscribing hub")
	}
	h.unsubscribe = unsubscribe
	return h, nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Publish sends the timeline entry to the subscribers of its student, on every instance sharing the bus.
func (h *Hub) Publish(ctx context.Context, entry campus.LogEntry) error {
	h.metrics.Published.Inc()
	return h.bus.Publish(ctx, Event{StudentID: entry.StudentID, Action: entry.Action, CreatedAt: entry.CreatedAt})
}

// Healthy reports whether the underlying bus can deliver.
func (h *Hub) Healthy(ctx context.Context) bool {
	return h.bus.Healthy(ctx)
}

func (h *Hub) deliver(ev Event) {
	msg, err := encodeFrame(ev.Name(), ev)
	if err != nil {
		h.logger.Error(fmt.Sprintf("encoding event: %v", err), err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[ev.StudentID] {
		if c.enqueue(msg) {
			h.metrics.Delivered.Inc()
		} else {
			h.metrics.Dropped.Inc()
		}
	}
}

// ServeWS upgrades the request to a websocket and serves it until the peer goes away.
// A `studentId` query parameter joins the room of that student straight away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return errors.Wrap(err, "upgrading connection")
	}

	c := newClient(h, conn, h.conf.SendBuffer)
	if !h.register(c) {
		_ = conn.Close()
		return nil
	}
	go c.writePump()

	if id := core.CleanString(r.URL.Query().Get("studentId")); id != "" {
		h.join(c, id)
	}
	c.readPump()
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.metrics.Connections.Inc()
	return true
}

// unregister removes c from every room and closes its queue. It is a no-op when c is already gone.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for id := range c.rooms {
		h.leaveLocked(c, id)
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.Connections.Dec()
}

func (h *Hub) join(c *client, studentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	room, ok := h.rooms[studentID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[studentID] = room
	}
	room[c] = struct{}{}
	c.rooms[studentID] = struct{}{}

	if msg, err := encodeFrame(joinedEvent, studentID); err == nil {
		c.enqueue(msg)
	}
}

func (h *Hub) leave(c *client, studentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, studentID)
}

func (h *Hub) leaveLocked(c *client, studentID string) {
	delete(c.rooms, studentID)
	if room, ok := h.rooms[studentID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, studentID)
		}
	}
}

// Stats returns the number of open connections and of rooms with at least one subscriber.
func (h *Hub) Stats() (connections, rooms int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.rooms)
}

// Close stops receiving events and disconnects every client.
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func encodeFrame(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
