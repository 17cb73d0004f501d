// Package notify delivers user notifications. The providers here log the
// message instead of reaching an SMS, email or push vendor.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
)

// LogNotifier writes every notification to the log and acknowledges it.
type LogNotifier struct {
	logger logx.Logger
	now    func() time.Time
}

// NewLogNotifier returns a LogNotifier.
func NewLogNotifier(logger logx.Logger) *LogNotifier {
	if logger == nil {
		logger = logx.Nop()
	}
	return &LogNotifier{logger: logger, now: time.Now}
}

// Send implements the notifier contract.
func (n *LogNotifier) Send(ctx context.Context, userID uuid.UUID, channel, message string) (domain.NotificationReceipt, error) {
	if err := ctx.Err(); err != nil {
		return domain.NotificationReceipt{}, err
	}
	switch channel {
	case domain.ChannelPush, domain.ChannelSMS, domain.ChannelEmail:
	default:
		return domain.NotificationReceipt{}, apperr.Invalid("unknown notification channel: " + channel)
	}
	if userID == uuid.Nil {
		return domain.NotificationReceipt{}, apperr.Invalid("recipient is required")
	}

	r := domain.NotificationReceipt{
		ID:      uuid.NewString(),
		Channel: channel,
		Status:  "sent",
		SentAt:  n.now().UTC(),
	}
	n.logger.Info("notification sent",
		logx.String("notification_id", r.ID),
		logx.String("user_id", userID.String()),
		logx.String("channel", channel),
		logx.String("message", message),
	)
	return r, nil
}
