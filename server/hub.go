package server

import (
	"sync"

	"github.com/vplay-cli/vplay/session"
)

const clientBuffer = 64

// Event is a message pushed to websocket subscribers.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Event types.
const (
	EventStatus   = "status"
	EventRange    = "range"
	EventPosition = "position"
	EventElapsed  = "elapsed"
	EventTotal    = "total"
	EventPlaying  = "playing"
	EventNotify   = "notify"
	EventAlert    = "alert"
	EventError    = "error"
)

type client struct {
	events chan Event
}

// Hub is the session.Surface of the server. It fans every update out to the
// connected websocket clients and never blocks the controller loop: a client
// that cannot keep up is disconnected.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

var _ session.Surface = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) subscribe() *client {
	c := &client{events: make(chan Event, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	return c
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.events)
	}
}

// send queues ev for a single client.
func (h *Hub) send(c *client, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	h.offer(c, ev)
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.offer(c, ev)
	}
}

// offer must be called with mu held.
func (h *Hub) offer(c *client, ev Event) {
	select {
	case c.events <- ev:
	default:
		delete(h.clients, c)
		close(c.events)
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) SetRange(max float64) {
	h.broadcast(Event{Type: EventRange, Payload: map[string]float64{"max": max}})
}

func (h *Hub) SetPosition(seconds float64) {
	h.broadcast(Event{Type: EventPosition, Payload: map[string]float64{"seconds": seconds}})
}

func (h *Hub) SetElapsed(label string) {
	h.broadcast(Event{Type: EventElapsed, Payload: map[string]string{"label": label}})
}

func (h *Hub) SetTotal(label string) {
	h.broadcast(Event{Type: EventTotal, Payload: map[string]string{"label": label}})
}

func (h *Hub) SetPlaying(playing bool) {
	h.broadcast(Event{Type: EventPlaying, Payload: map[string]bool{"playing": playing}})
}

func (h *Hub) Notify(message string) {
	h.broadcast(Event{Type: EventNotify, Payload: map[string]string{"message": message}})
}

func (h *Hub) Alert(message string) {
	h.broadcast(Event{Type: EventAlert, Payload: map[string]string{"message": message}})
}
