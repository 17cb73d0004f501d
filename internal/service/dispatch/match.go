package dispatch

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/geo"
	"parcel-dispatch/internal/logx"
)

type candidate struct {
	courierID  uuid.UUID
	distanceKm float64
}

// AutoDispatch offers a pending order to the nearest courier with spare
// capacity inside the match radius. Couriers that declined the order or let
// an offer for it expire are skipped. ErrNotFound means nobody qualifies.
func (s *Service) AutoDispatch(ctx context.Context, orderID uuid.UUID) (*domain.AssignmentOffer, error) {
	cctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.store.GetOrder(cctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := awaitingCourier(o); err != nil {
		return nil, err
	}

	history, err := s.store.ListOffers(cctx, orderID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[uuid.UUID]struct{}, len(history))
	for _, off := range history {
		switch off.Status {
		case domain.OfferPending:
			return nil, apperr.New(apperr.ErrConflict, "order already has a pending offer")
		case domain.OfferDeclined, domain.OfferExpired:
			excluded[off.CourierID] = struct{}{}
		}
	}

	couriers, err := s.store.ListAvailableCouriers(cctx)
	if err != nil {
		return nil, err
	}
	best, ok := s.nearest(o.Pickup.Point, couriers, excluded)
	if !ok {
		s.logger.Info("no courier available",
			logx.String("event", "dispatch_no_candidate"),
			logx.String("order_id", orderID.String()),
			logx.Int("excluded", len(excluded)),
		)
		return nil, apperr.New(apperr.ErrNotFound, "no available courier in range")
	}

	return s.Offer(ctx, OfferInput{
		OrderID:   orderID,
		CourierID: best.courierID,
		Type:      domain.AssignmentAutoMatch,
	})
}

func (s *Service) nearest(pickup domain.Coordinates, couriers []domain.CourierAvailability, excluded map[uuid.UUID]struct{}) (candidate, bool) {
	var cands []candidate
	for i := range couriers {
		c := &couriers[i]
		if !c.HasCapacity() || c.LastPosition == nil {
			continue
		}
		if _, skip := excluded[c.CourierID]; skip {
			continue
		}
		d := geo.Between(*c.LastPosition, pickup)
		if d > s.matchRadiusKm {
			continue
		}
		cands = append(cands, candidate{courierID: c.CourierID, distanceKm: d})
	}
	if len(cands) == 0 {
		return candidate{}, false
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].distanceKm != cands[j].distanceKm {
			return cands[i].distanceKm < cands[j].distanceKm
		}
		return cands[i].courierID.String() < cands[j].courierID.String()
	})
	return cands[0], true
}
