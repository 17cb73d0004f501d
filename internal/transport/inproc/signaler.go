// Package inproc carries matching signals inside one process when no broker
// is configured.
package inproc

import (
	"context"
	"sync"
	"time"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pubsub"
)

// HandleFunc processes one matching event.
type HandleFunc func(context.Context, pubsub.Event) error

// Signaler queues matching requests and hands them to a handler on a
// background goroutine. Requests that do not fit the queue are dropped; the
// expiry sweep re-dispatches pending orders that have no pending offer.
type Signaler struct {
	handler HandleFunc
	logger  logx.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan pubsub.Event
	done   chan struct{}
}

// NewSignaler starts the delivery goroutine.
func NewSignaler(h HandleFunc, queueSize int, timeout time.Duration, logger logx.Logger) *Signaler {
	if queueSize < 1 {
		queueSize = 128
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	s := &Signaler{
		handler: h,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan pubsub.Event, queueSize),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

// SignalNewOrder enqueues a new_order_for_matching event.
func (s *Signaler) SignalNewOrder(_ context.Context, req domain.MatchingRequest) error {
	evt := pubsub.NewOrderEvent(pubsub.EventNewOrderForMatching, req.OrderID.String(), req.CreatedAt, req)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return apperr.New(apperr.ErrUpstreamUnavailable, "matching queue is closed")
	}
	select {
	case s.queue <- evt:
		return nil
	default:
		return apperr.New(apperr.ErrUpstreamUnavailable, "matching queue is full")
	}
}

// Close stops accepting signals and waits for queued ones or ctx.
func (s *Signaler) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Signaler) loop() {
	defer close(s.done)
	for evt := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.handler(ctx, evt)
		cancel()
		if err != nil {
			s.logger.Error("matching signal failed",
				logx.String("order_id", evt.OrderID),
				logx.Err(err),
			)
		}
	}
}
