package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pubsub"
)

// Processor turns matching signals and waiting orders into auto-dispatch
// attempts. Outcomes that retrying cannot change are logged and swallowed;
// any other error is returned so the transport redelivers the message.
type Processor struct {
	dispatcher AutoDispatcher
	logger     logx.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(d AutoDispatcher, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Processor{dispatcher: d, logger: logger}
}

// Handle processes one event from the matching topic. Unknown types are ignored.
func (p *Processor) Handle(ctx context.Context, evt pubsub.Event) error {
	if evt.Type != pubsub.EventNewOrderForMatching {
		return nil
	}
	var req domain.MatchingRequest
	if err := json.Unmarshal(evt.Data, &req); err != nil {
		p.logger.Warn("malformed matching request",
			logx.String("event", "matching_request_malformed"),
			logx.Err(err),
		)
		return nil
	}
	return p.dispatch(ctx, req.OrderID)
}

// Redispatch retries matching for the given orders, once per order.
func (p *Processor) Redispatch(ctx context.Context, orderIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(orderIDs))
	var errs []error
	for _, id := range orderIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if err := p.dispatch(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("order %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (p *Processor) dispatch(ctx context.Context, orderID uuid.UUID) error {
	offer, err := p.dispatcher.AutoDispatch(ctx, orderID)
	switch {
	case err == nil:
		p.logger.Debug("order offered",
			logx.String("order_id", orderID.String()),
			logx.String("courier_id", offer.CourierID.String()),
		)
		return nil
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrInvalidTransition):
		p.logger.Info("order not dispatched",
			logx.String("event", "dispatch_skipped"),
			logx.String("order_id", orderID.String()),
			logx.String("reason", apperr.MessageOf(err)),
		)
		return nil
	default:
		return err
	}
}
