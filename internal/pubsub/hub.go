// Package pubsub is the real-time fan-out used to push order events to
// connected clients. Delivery is at-most-once: a slow subscriber whose buffer
// is full loses the event, and nothing is replayed after reconnect.
package pubsub

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// DefaultBufferSize is the per-subscription event buffer.
const DefaultBufferSize = 64

// Publisher publishes events to a channel and reports how many subscriptions received it.
type Publisher interface {
	Publish(evt Event) int
}

type counter interface {
	Inc()
}

// Hub keeps subscriptions per channel. It is safe for concurrent use.
type Hub struct {
	mu       sync.Mutex
	channels map[string]*channel

	bufferSize int
	dropped    counter

	totalPublished atomic.Int64
	totalDropped   atomic.Int64
}

type channel struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*Subscription
}

// Option configures a Hub.
type Option func(*Hub)

// WithBufferSize sets the per-subscription buffer size.
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithDroppedCounter counts events lost to full buffers.
func WithDroppedCounter(c counter) Option {
	return func(h *Hub) { h.dropped = c }
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		channels:   make(map[string]*channel),
		bufferSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe joins subscriberID to a channel. Authorization is the caller's job.
func (h *Hub) Subscribe(channelKey, subscriberID string) *Subscription {
	sub := &Subscription{
		id:           uuid.New(),
		channel:      channelKey,
		subscriberID: subscriberID,
		ch:           make(chan Event, h.bufferSize),
		hub:          h,
	}

	h.mu.Lock()
	c, ok := h.channels[channelKey]
	if !ok {
		c = &channel{subs: make(map[uuid.UUID]*Subscription)}
		h.channels[channelKey] = c
	}
	c.mu.Lock()
	c.subs[sub.id] = sub
	c.mu.Unlock()
	h.mu.Unlock()

	return sub
}

// Publish delivers evt to every subscription of evt.Channel without blocking.
// Events on one channel are handed out in call order.
func (h *Hub) Publish(evt Event) int {
	h.mu.Lock()
	c, ok := h.channels[evt.Channel]
	h.mu.Unlock()
	if !ok {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delivered := 0
	for _, sub := range c.subs {
		select {
		case sub.ch <- evt:
			delivered++
		default:
			h.totalDropped.Add(1)
			if h.dropped != nil {
				h.dropped.Inc()
			}
		}
	}
	h.totalPublished.Add(int64(delivered))
	return delivered
}

// Retain closes every subscription of a channel whose subscriber no longer
// passes keep, and returns how many were evicted.
func (h *Hub) Retain(channelKey string, keep func(subscriberID string) bool) int {
	h.mu.Lock()
	c, ok := h.channels[channelKey]
	h.mu.Unlock()
	if !ok {
		return 0
	}

	c.mu.Lock()
	var evicted []*Subscription
	for id, sub := range c.subs {
		if !keep(sub.subscriberID) {
			delete(c.subs, id)
			evicted = append(evicted, sub)
		}
	}
	for _, sub := range evicted {
		sub.closeChan()
	}
	c.mu.Unlock()

	h.dropEmpty(channelKey)
	return len(evicted)
}

// Subscribers returns the number of live subscriptions on a channel.
func (h *Hub) Subscribers(channelKey string) int {
	h.mu.Lock()
	c, ok := h.channels[channelKey]
	h.mu.Unlock()
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Stats contains hub counters.
type Stats struct {
	Channels       int   `json:"channels"`
	TotalPublished int64 `json:"total_published"`
	TotalDropped   int64 `json:"total_dropped"`
}

// Stats returns hub counters.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	n := len(h.channels)
	h.mu.Unlock()
	return Stats{
		Channels:       n,
		TotalPublished: h.totalPublished.Load(),
		TotalDropped:   h.totalDropped.Load(),
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	c, ok := h.channels[sub.channel]
	h.mu.Unlock()
	if !ok {
		sub.closeChan()
		return
	}

	c.mu.Lock()
	delete(c.subs, sub.id)
	sub.closeChan()
	c.mu.Unlock()

	h.dropEmpty(sub.channel)
}

func (h *Hub) dropEmpty(channelKey string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.channels[channelKey]
	if !ok {
		return
	}
	c.mu.Lock()
	empty := len(c.subs) == 0
	c.mu.Unlock()
	if empty {
		delete(h.channels, channelKey)
	}
}

var _ Publisher = (*Hub)(nil)
