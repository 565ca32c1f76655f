package ipc

import (
	"encoding/json"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/types"
)

const subscriberBuffer = 8

type subscriber struct {
	ch   chan Notification
	done chan struct{}
}

// Hub forwards history updates to watch subscribers. It is a display
// surface for the engine: it counts as visible while anyone is watching.
type Hub struct {
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, subs: make(map[*subscriber]struct{})}
}

// PushSnapshot sends the history to every subscriber
func (h *Hub) PushSnapshot(entries []types.ClipEntry) {
	h.broadcast(Notification{Event: EventSnapshot, Entries: types.Summaries(entries)})
}

// Show tells subscribers to open their display
func (h *Hub) Show() { h.broadcast(Notification{Event: EventShow}) }

// Hide tells subscribers to close their display
func (h *Hub) Hide() { h.broadcast(Notification{Event: EventHide}) }

// Visible reports whether anyone is subscribed
func (h *Hub) Visible() bool {
	return h.Subscribers() > 0
}

// Subscribers returns the number of attached watchers
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Serve streams notifications to conn until it closes or the hub is closed
func (h *Hub) Serve(conn net.Conn) {
	sub := &subscriber{
		ch:   make(chan Notification, subscriberBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("Watcher attached")

	defer func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.done)
		}
		h.mu.Unlock()
		h.logger.Debug("Watcher detached")
	}()

	// detect the peer going away; watchers send nothing after the request
	gone := make(chan struct{})
	go func() {
		var buf [1]byte
		conn.Read(buf[:])
		close(gone)
	}()

	enc := json.NewEncoder(conn)
	for {
		select {
		case n := <-sub.ch:
			if err := enc.Encode(n); err != nil {
				return
			}
		case <-gone:
			return
		case <-sub.done:
			return
		}
	}
}

// Close detaches all subscribers
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		close(sub.done)
		delete(h.subs, sub)
	}
}

func (h *Hub) broadcast(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.ch <- n:
		default:
			h.logger.Debug("Dropping notification for slow watcher", zap.String("event", n.Event))
		}
	}
}
