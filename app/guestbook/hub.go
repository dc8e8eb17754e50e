package guestbook

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Hub fans snapshots out to subscriptions. Publish never blocks: each
// subscription has a bounded queue and, when it is full, the oldest pending
// snapshot is dropped. Every snapshot is complete, so a slow subscriber
// still converges on the latest state.
type Hub struct {
	mu       sync.Mutex
	subs     map[string]*Subscription
	revision int64
	buffer   int
	closed   bool
	dropped  atomic.Int64
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:     make(map[string]*Subscription),
		revision: -1,
		buffer:   buffer,
	}
}

// Publish delivers snapshot to every subscription. Snapshots not newer than
// the last published revision are ignored and Publish returns false.
func (h *Hub) Publish(snapshot Snapshot) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || snapshot.Revision <= h.revision {
		return false
	}
	h.revision = snapshot.Revision

	for _, sub := range h.subs {
		sub.deliver(snapshot)
	}

	slog.Debug("Snapshot published", "revision", snapshot.Revision, "entries", len(snapshot.Entries), "subscribers", len(h.subs))

	return true
}

// Subscribe registers a subscription and queues initial as its first snapshot.
func (h *Hub) Subscribe(initial Snapshot) *Subscription {
	sub := &Subscription{
		ID:   uuid.NewString(),
		hub:  h,
		ch:   make(chan Snapshot, h.buffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.closeLocked()
		return sub
	}

	h.subs[sub.ID] = sub
	sub.deliver(initial)

	return sub
}

// Revision returns the last published revision, or -1 before the first publish.
func (h *Hub) Revision() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revision
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns how many queued snapshots were superseded before delivery.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close ends every subscription. Later subscriptions are returned closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, sub := range h.subs {
		sub.closeLocked()
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sub.closeLocked()
}

// Subscription is a live sequence of snapshots. The channel returned by C is
// closed once the subscription ends. A slow reader may skip intermediate
// snapshots; only the newest state is guaranteed to arrive.
type Subscription struct {
	ID     string
	hub    *Hub
	ch     chan Snapshot
	done   chan struct{}
	closed bool
}

func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Done is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close stops delivery. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// deliver and closeLocked run with hub.mu held.
func (s *Subscription) deliver(snapshot Snapshot) {
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- snapshot:
			return
		default:
		}
		select {
		case <-s.ch:
			s.hub.dropped.Add(1)
		default:
		}
	}
}

func (s *Subscription) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	delete(s.hub.subs, s.ID)
	close(s.ch)
	close(s.done)
}
