package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/ports/ordertx"
)

type courierDelta struct {
	courierID uuid.UUID
	delta     int
	at        time.Time
}

type tx struct {
	s       *Store
	locked  map[string]struct{}
	unlocks []func()

	orders       map[uuid.UUID]*domain.Order
	newOrders    map[uuid.UUID]struct{}
	history      []domain.StatusHistoryEntry
	offers       map[uuid.UUID]*domain.AssignmentOffer
	newOffers    []uuid.UUID
	courierDelta []courierDelta
}

func newTx(s *Store) *tx {
	return &tx{
		s:         s,
		locked:    make(map[string]struct{}),
		orders:    make(map[uuid.UUID]*domain.Order),
		newOrders: make(map[uuid.UUID]struct{}),
		offers:    make(map[uuid.UUID]*domain.AssignmentOffer),
	}
}

func (t *tx) lock(key string) {
	if _, ok := t.locked[key]; ok {
		return
	}
	t.unlocks = append(t.unlocks, t.s.rows.Lock(key))
	t.locked[key] = struct{}{}
}

func (t *tx) release() {
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
	t.unlocks = nil
}

func (t *tx) InsertOrder(_ context.Context, o *domain.Order) error {
	t.lock(orderKey(o.ID))
	t.s.mu.RLock()
	_, exists := t.s.orders[o.ID]
	t.s.mu.RUnlock()
	if _, staged := t.orders[o.ID]; exists || staged {
		return apperr.New(apperr.ErrConflict, "order already exists")
	}
	t.orders[o.ID] = cloneOrder(*o)
	t.newOrders[o.ID] = struct{}{}
	return nil
}

func (t *tx) GetOrderForUpdate(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	t.lock(orderKey(id))
	if o, ok := t.orders[id]; ok {
		return cloneOrder(*o), nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	o, ok := t.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (t *tx) UpdateOrder(_ context.Context, o *domain.Order) error {
	if _, ok := t.orders[o.ID]; !ok {
		t.s.mu.RLock()
		_, exists := t.s.orders[o.ID]
		t.s.mu.RUnlock()
		if !exists {
			return apperr.ErrNotFound
		}
	}
	t.lock(orderKey(o.ID))
	t.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (t *tx) AppendHistory(_ context.Context, e domain.StatusHistoryEntry) error {
	t.history = append(t.history, e)
	return nil
}

func (t *tx) InsertOffer(_ context.Context, o *domain.AssignmentOffer) error {
	t.lock(offerKey(o.ID))
	t.s.mu.RLock()
	_, exists := t.s.offers[o.ID]
	t.s.mu.RUnlock()
	if _, staged := t.offers[o.ID]; exists || staged {
		return errOfferExists
	}
	if o.Status == domain.OfferPending && t.hasOtherWithStatus(o.OrderID, o.ID, domain.OfferPending) {
		return apperr.New(apperr.ErrConflict, "order already has a pending offer")
	}
	t.offers[o.ID] = cloneOffer(*o)
	t.newOffers = append(t.newOffers, o.ID)
	return nil
}

func (t *tx) GetOfferForUpdate(_ context.Context, id uuid.UUID) (*domain.AssignmentOffer, error) {
	t.lock(offerKey(id))
	if o, ok := t.offers[id]; ok {
		return cloneOffer(*o), nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	o, ok := t.s.offers[id]
	if !ok {
		return nil, nil
	}
	return cloneOffer(o), nil
}

func (t *tx) UpdateOffer(_ context.Context, o *domain.AssignmentOffer) error {
	if _, ok := t.offers[o.ID]; !ok {
		t.s.mu.RLock()
		_, exists := t.s.offers[o.ID]
		t.s.mu.RUnlock()
		if !exists {
			return apperr.ErrNotFound
		}
	}
	t.lock(offerKey(o.ID))
	t.offers[o.ID] = cloneOffer(*o)
	return nil
}

func (t *tx) CancelPendingOffers(ctx context.Context, orderID uuid.UUID, at time.Time) ([]domain.AssignmentOffer, error) {
	var cancelled []domain.AssignmentOffer
	for _, id := range t.offerIDs(orderID) {
		o, err := t.GetOfferForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if o == nil || o.Status != domain.OfferPending {
			continue
		}
		o.Resolve(domain.OfferCancelled, at)
		t.offers[id] = o
		cancelled = append(cancelled, *cloneOffer(*o))
	}
	return cancelled, nil
}

func (t *tx) AdjustActiveOrders(_ context.Context, courierID uuid.UUID, delta int, at time.Time) error {
	t.courierDelta = append(t.courierDelta, courierDelta{courierID: courierID, delta: delta, at: at})
	return nil
}

// offerIDs lists committed and staged offers of an order.
func (t *tx) offerIDs(orderID uuid.UUID) []uuid.UUID {
	t.s.mu.RLock()
	ids := append([]uuid.UUID(nil), t.s.offersByOrder[orderID]...)
	t.s.mu.RUnlock()
	for _, id := range t.newOffers {
		if t.offers[id].OrderID == orderID {
			ids = append(ids, id)
		}
	}
	return ids
}

// hasOtherWithStatus must not be called with s.mu held.
func (t *tx) hasOtherWithStatus(orderID, except uuid.UUID, status domain.OfferStatus) bool {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.violates(orderID, except, status)
}

// violates must be called with s.mu held.
func (t *tx) violates(orderID, except uuid.UUID, status domain.OfferStatus) bool {
	for _, id := range t.s.offersByOrder[orderID] {
		if id == except {
			continue
		}
		o := t.s.offers[id]
		if staged, ok := t.offers[id]; ok {
			o = *staged
		}
		if o.Status == status {
			return true
		}
	}
	for _, id := range t.newOffers {
		o := t.offers[id]
		if id != except && o.OrderID == orderID && o.Status == status {
			return true
		}
	}
	return false
}

func (t *tx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for id, o := range t.offers {
		if o.Status != domain.OfferPending && o.Status != domain.OfferAccepted {
			continue
		}
		if t.violates(o.OrderID, id, o.Status) {
			return apperr.New(apperr.ErrConflict, "offer uniqueness violated")
		}
	}

	for id, o := range t.orders {
		t.s.orders[id] = *cloneOrder(*o)
	}
	for _, e := range t.history {
		t.s.history[e.OrderID] = append(t.s.history[e.OrderID], e)
	}
	for _, id := range t.newOffers {
		o := t.offers[id]
		t.s.offersByOrder[o.OrderID] = append(t.s.offersByOrder[o.OrderID], id)
	}
	for id, o := range t.offers {
		t.s.offers[id] = *cloneOffer(*o)
	}
	for _, d := range t.courierDelta {
		a, ok := t.s.couriers[d.courierID]
		if !ok {
			a = domain.CourierAvailability{
				CourierID: d.courierID,
				Online:    true,
				Status:    domain.AvailabilityOnline,
				MaxOrders: domain.DefaultMaxOrders,
			}
		}
		t.s.couriers[d.courierID] = adjust(a, d.delta, d.at)
	}
	return nil
}

var _ ordertx.Repository = (*tx)(nil)
