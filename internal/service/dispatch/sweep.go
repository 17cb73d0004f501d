package dispatch

import (
	"context"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
)

// unmatchedBatch bounds how many waiting orders one sweep re-dispatches.
const unmatchedBatch = 100

// ExpireOverdue moves every pending offer past its deadline to expired and
// returns them. Their orders stay pending for re-dispatch.
func (s *Service) ExpireOverdue(ctx context.Context) ([]domain.AssignmentOffer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	expired, err := s.store.ExpireOverdueOffers(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	s.count(string(domain.OfferExpired), len(expired))
	s.logger.Info("offers expired",
		logx.String("event", "offers_expired"),
		logx.Int("count", len(expired)),
	)
	return expired, nil
}

// Unmatched returns pending orders that nobody is currently offered, oldest
// first: orders whose offers expired or were declined, whose first match
// found no courier, or whose matching signal was lost.
func (s *Service) Unmatched(ctx context.Context) ([]uuid.UUID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.ListUnmatchedOrders(ctx, unmatchedBatch)
}
