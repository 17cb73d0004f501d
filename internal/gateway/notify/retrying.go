package notify

import (
	"context"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/gateway/retry"
)

type sender interface {
	Send(ctx context.Context, userID uuid.UUID, channel, message string) (domain.NotificationReceipt, error)
}

// Retrying retries transient provider failures of next.
type Retrying struct {
	next   sender
	policy *retry.Policy
}

// NewRetrying wraps next. It returns nil when next is nil.
func NewRetrying(next sender, policy *retry.Policy) *Retrying {
	if next == nil || policy == nil {
		return nil
	}
	return &Retrying{next: next, policy: policy}
}

// Send implements the notifier contract.
func (r *Retrying) Send(ctx context.Context, userID uuid.UUID, channel, message string) (domain.NotificationReceipt, error) {
	var receipt domain.NotificationReceipt
	err := r.policy.Do(ctx, "Send", func(ctx context.Context) error {
		var err error
		receipt, err = r.next.Send(ctx, userID, channel, message)
		return err
	})
	if err != nil {
		return domain.NotificationReceipt{}, err
	}
	return receipt, nil
}
