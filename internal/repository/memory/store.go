// Package memory is an in-process implementation of the storage contract.
// It mirrors the PostgreSQL semantics the services rely on: ForUpdate reads
// take per-row locks held until the transaction ends, writes become visible
// on commit, and the partial unique indexes on offers are checked at commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/keylock"
	"parcel-dispatch/internal/ports/ordertx"
)

// Store keeps committed state in maps guarded by mu.
type Store struct {
	mu            sync.RWMutex
	orders        map[uuid.UUID]domain.Order
	history       map[uuid.UUID][]domain.StatusHistoryEntry
	offers        map[uuid.UUID]domain.AssignmentOffer
	offersByOrder map[uuid.UUID][]uuid.UUID
	couriers      map[uuid.UUID]domain.CourierAvailability
	pings         map[uuid.UUID][]domain.LocationPing

	rows *keylock.Map
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		orders:        make(map[uuid.UUID]domain.Order),
		history:       make(map[uuid.UUID][]domain.StatusHistoryEntry),
		offers:        make(map[uuid.UUID]domain.AssignmentOffer),
		offersByOrder: make(map[uuid.UUID][]uuid.UUID),
		couriers:      make(map[uuid.UUID]domain.CourierAvailability),
		pings:         make(map[uuid.UUID][]domain.LocationPing),
		rows:          keylock.New(),
	}
}

func orderKey(id uuid.UUID) string { return "order:" + id.String() }
func offerKey(id uuid.UUID) string { return "offer:" + id.String() }

// WithTx runs fn in a transaction. Row locks taken by fn are released after
// commit or rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx ordertx.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := newTx(s)
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// GetOrder returns the committed order.
func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

// ListHistory returns the status history of an order in commit order.
func (s *Store) ListHistory(_ context.Context, orderID uuid.UUID) ([]domain.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StatusHistoryEntry, len(s.history[orderID]))
	copy(out, s.history[orderID])
	return out, nil
}

// GetOffer returns the committed offer.
func (s *Store) GetOffer(_ context.Context, id uuid.UUID) (*domain.AssignmentOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.offers[id]
	if !ok {
		return nil, nil
	}
	return cloneOffer(o), nil
}

// ListOffers returns every offer of an order ordered by offer time.
func (s *Store) ListOffers(_ context.Context, orderID uuid.UUID) ([]domain.AssignmentOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.offersByOrder[orderID]
	out := make([]domain.AssignmentOffer, 0, len(ids))
	for _, id := range ids {
		out = append(out, *cloneOffer(s.offers[id]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OfferedAt.Before(out[j].OfferedAt) })
	return out, nil
}

// ListUnmatchedOrders returns up to limit pending orders that have neither a
// courier nor a pending offer, oldest first.
func (s *Store) ListUnmatchedOrders(_ context.Context, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []domain.Order
	for _, o := range s.orders {
		if o.Status != domain.OrderPending || o.HasCourier() || s.hasPendingOfferLocked(o.ID) {
			continue
		}
		found = append(found, o)
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].CreatedAt.Equal(found[j].CreatedAt) {
			return found[i].CreatedAt.Before(found[j].CreatedAt)
		}
		return found[i].ID.String() < found[j].ID.String()
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	out := make([]uuid.UUID, len(found))
	for i, o := range found {
		out[i] = o.ID
	}
	return out, nil
}

func (s *Store) hasPendingOfferLocked(orderID uuid.UUID) bool {
	for _, id := range s.offersByOrder[orderID] {
		if s.offers[id].Status == domain.OfferPending {
			return true
		}
	}
	return false
}

// ExpireOverdueOffers moves every pending offer whose deadline is before now
// to expired. Each offer is re-checked under its row lock, so an offer that a
// concurrent response already resolved is left alone.
func (s *Store) ExpireOverdueOffers(ctx context.Context, now time.Time) ([]domain.AssignmentOffer, error) {
	s.mu.RLock()
	var candidates []uuid.UUID
	for id, o := range s.offers {
		if o.Status == domain.OfferPending && o.ResponseDeadline.Before(now) {
			candidates = append(candidates, id)
		}
	}
	s.mu.RUnlock()

	var expired []domain.AssignmentOffer
	for _, id := range candidates {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		unlock := s.rows.Lock(offerKey(id))
		s.mu.Lock()
		o := s.offers[id]
		if o.Status == domain.OfferPending && o.ResponseDeadline.Before(now) {
			o.Resolve(domain.OfferExpired, now)
			s.offers[id] = o
			expired = append(expired, *cloneOffer(o))
		}
		s.mu.Unlock()
		unlock()
	}
	return expired, nil
}

// GetAvailability returns the courier availability record.
func (s *Store) GetAvailability(_ context.Context, courierID uuid.UUID) (*domain.CourierAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.couriers[courierID]
	if !ok {
		return nil, nil
	}
	return cloneAvailability(a), nil
}

// ListAvailableCouriers returns couriers that can take another order.
func (s *Store) ListAvailableCouriers(_ context.Context) ([]domain.CourierAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.CourierAvailability
	for _, a := range s.couriers {
		if a.HasCapacity() {
			out = append(out, *cloneAvailability(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourierID.String() < out[j].CourierID.String() })
	return out, nil
}

// SetAvailability creates or updates the courier's manual availability.
func (s *Store) SetAvailability(_ context.Context, courierID uuid.UUID, status domain.AvailabilityStatus, maxOrders *int, at time.Time) (*domain.CourierAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.couriers[courierID]
	if !ok {
		a = domain.CourierAvailability{CourierID: courierID, MaxOrders: domain.DefaultMaxOrders}
	}
	a.Status = status
	a.Online = status != domain.AvailabilityOffline
	if maxOrders != nil {
		a.MaxOrders = *maxOrders
	}
	a.UpdatedAt = at
	s.couriers[courierID] = a
	return cloneAvailability(a), nil
}

// RecordPing appends a ping and mirrors its position onto the courier record.
func (s *Store) RecordPing(_ context.Context, p domain.LocationPing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings[p.CourierID] = append(s.pings[p.CourierID], p)

	a, ok := s.couriers[p.CourierID]
	if !ok {
		a = domain.CourierAvailability{
			CourierID: p.CourierID,
			Status:    domain.AvailabilityOffline,
			MaxOrders: domain.DefaultMaxOrders,
		}
	}
	pt := p.Point
	a.LastPosition = &pt
	a.UpdatedAt = p.CreatedAt
	s.couriers[p.CourierID] = a
	return nil
}

// Pings returns the stored pings of a courier.
func (s *Store) Pings(courierID uuid.UUID) []domain.LocationPing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LocationPing, len(s.pings[courierID]))
	copy(out, s.pings[courierID])
	return out
}

// SeedOffer stores an offer directly, bypassing the pending-offer check.
// It exists to reproduce rows written by older dispatch code.
func (s *Store) SeedOffer(o domain.AssignmentOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.offers[o.ID]; !ok {
		s.offersByOrder[o.OrderID] = append(s.offersByOrder[o.OrderID], o.ID)
	}
	s.offers[o.ID] = o
}

func adjust(a domain.CourierAvailability, delta int, at time.Time) domain.CourierAvailability {
	a.CurrentOrders += delta
	if a.CurrentOrders < 0 {
		a.CurrentOrders = 0
	}
	switch {
	case delta > 0 && a.Status == domain.AvailabilityOnline:
		a.Status = domain.AvailabilityInDelivery
	case a.CurrentOrders == 0 && a.Status == domain.AvailabilityInDelivery:
		a.Status = domain.AvailabilityOnline
	}
	a.UpdatedAt = at
	return a
}

func cloneOrder(o domain.Order) *domain.Order {
	c := o
	c.CourierID = clonePtr(o.CourierID)
	c.ActualPickupAt = clonePtr(o.ActualPickupAt)
	c.ActualDeliveryAt = clonePtr(o.ActualDeliveryAt)
	c.CancelledBy = clonePtr(o.CancelledBy)
	c.CancelledAt = clonePtr(o.CancelledAt)
	return &c
}

func cloneOffer(o domain.AssignmentOffer) *domain.AssignmentOffer {
	c := o
	c.ResolvedAt = clonePtr(o.ResolvedAt)
	return &c
}

func cloneAvailability(a domain.CourierAvailability) *domain.CourierAvailability {
	c := a
	c.LastPosition = clonePtr(a.LastPosition)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var _ ordertx.Runner = (*Store)(nil)

var errOfferExists = apperr.New(apperr.ErrConflict, "offer already exists")
