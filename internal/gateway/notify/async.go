package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
)

// ErrQueueFull is returned when the delivery queue has no room left.
var ErrQueueFull = errors.New("notification queue is full")

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("notifier is closed")

type job struct {
	userID  uuid.UUID
	channel string
	message string
	receipt domain.NotificationReceipt
}

// AsyncConfig sizes the background delivery queue.
type AsyncConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type counter interface {
	Inc()
}

// Async hands notifications to a bounded queue drained by background
// workers, so callers never wait on the provider.
type Async struct {
	next    sender
	logger  logx.Logger
	failed  counter
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup
}

// NewAsync starts cfg.Workers goroutines delivering through next.
func NewAsync(next sender, cfg AsyncConfig, logger logx.Logger, failed counter) *Async {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 64
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	a := &Async{
		next:    next,
		logger:  logger,
		failed:  failed,
		timeout: cfg.SendTimeout,
		queue:   make(chan job, cfg.QueueSize),
	}
	a.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go a.work()
	}
	return a
}

// Send enqueues the notification and returns a receipt with status "queued".
func (a *Async) Send(_ context.Context, userID uuid.UUID, channel, message string) (domain.NotificationReceipt, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return domain.NotificationReceipt{}, apperr.New(apperr.ErrUpstreamUnavailable, ErrClosed.Error())
	}

	j := job{
		userID:  userID,
		channel: channel,
		message: message,
		receipt: domain.NotificationReceipt{
			ID:      uuid.NewString(),
			Channel: channel,
			Status:  "queued",
			SentAt:  time.Now().UTC(),
		},
	}
	select {
	case a.queue <- j:
		return j.receipt, nil
	default:
		return domain.NotificationReceipt{}, apperr.New(apperr.ErrUpstreamUnavailable, ErrQueueFull.Error())
	}
}

// Close stops accepting notifications and waits until the queue is drained
// or ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) work() {
	defer a.wg.Done()
	for j := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		_, err := a.next.Send(ctx, j.userID, j.channel, j.message)
		cancel()
		if err == nil {
			continue
		}
		if a.failed != nil {
			a.failed.Inc()
		}
		a.logger.Warn("notification delivery failed",
			logx.String("event", "notification_failed"),
			logx.String("notification_id", j.receipt.ID),
			logx.String("user_id", j.userID.String()),
			logx.String("channel", j.channel),
			logx.Err(err),
		)
	}
}
