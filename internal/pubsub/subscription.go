package pubsub

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription is one membership of a subscriber in a channel.
type Subscription struct {
	id           uuid.UUID
	channel      string
	subscriberID string
	ch           chan Event
	hub          *Hub
	closed       atomic.Bool
}

// C returns the event stream. It is closed when the subscription ends,
// either by Close or by eviction.
func (s *Subscription) C() <-chan Event { return s.ch }

// Channel returns the channel key.
func (s *Subscription) Channel() string { return s.channel }

// SubscriberID returns the subscriber identity.
func (s *Subscription) SubscriberID() string { return s.subscriberID }

// Close releases the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	if s.closed.Load() {
		return
	}
	s.hub.remove(s)
}

// closeChan must be called with the owning channel lock held.
func (s *Subscription) closeChan() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.ch)
	}
}
