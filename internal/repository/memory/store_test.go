package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/ports/ordertx"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedOrder(t *testing.T, s *Store) *domain.Order {
	t.Helper()
	o := &domain.Order{ID: uuid.New(), SenderID: uuid.New(), Status: domain.OrderPending, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, s.WithTx(context.Background(), func(tx ordertx.Repository) error {
		return tx.InsertOrder(context.Background(), o)
	}))
	return o
}

func pendingOffer(orderID uuid.UUID, deadline time.Time) *domain.AssignmentOffer {
	return &domain.AssignmentOffer{
		ID:               uuid.New(),
		OrderID:          orderID,
		CourierID:        uuid.New(),
		Type:             domain.AssignmentManual,
		Status:           domain.OfferPending,
		OfferedAt:        t0,
		ResponseDeadline: deadline,
	}
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	o := seedOrder(t, s)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx ordertx.Repository) error {
		cur, err := tx.GetOrderForUpdate(ctx, o.ID)
		require.NoError(t, err)
		cur.Status = domain.OrderInTransit
		require.NoError(t, tx.UpdateOrder(ctx, cur))

		seen, err := tx.GetOrderForUpdate(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderInTransit, seen.Status, "tx sees its own writes")
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, got.Status)

	require.NoError(t, s.WithTx(ctx, func(tx ordertx.Repository) error {
		cur, _ := tx.GetOrderForUpdate(ctx, o.ID)
		cur.Status = domain.OrderInTransit
		if err := tx.UpdateOrder(ctx, cur); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, domain.StatusHistoryEntry{ID: uuid.New(), OrderID: o.ID, Current: domain.OrderInTransit})
	}))

	got, _ = s.GetOrder(ctx, o.ID)
	assert.Equal(t, domain.OrderInTransit, got.Status)
	h, _ := s.ListHistory(ctx, o.ID)
	assert.Len(t, h, 1)
}

func TestGetOrder_Missing(t *testing.T) {
	t.Parallel()
	s := New()
	got, err := s.GetOrder(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetOrder_ReturnsCopy(t *testing.T) {
	t.Parallel()
	s := New()
	o := seedOrder(t, s)

	got, _ := s.GetOrder(context.Background(), o.ID)
	got.Status = domain.OrderFailed

	again, _ := s.GetOrder(context.Background(), o.ID)
	assert.Equal(t, domain.OrderPending, again.Status)
}

func TestInsertOffer_SinglePendingPerOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	o := seedOrder(t, s)

	require.NoError(t, s.WithTx(ctx, func(tx ordertx.Repository) error {
		return tx.InsertOffer(ctx, pendingOffer(o.ID, t0.Add(time.Minute)))
	}))

	err := s.WithTx(ctx, func(tx ordertx.Repository) error {
		return tx.InsertOffer(ctx, pendingOffer(o.ID, t0.Add(time.Minute)))
	})
	require.ErrorIs(t, err, apperr.ErrConflict)

	offers, _ := s.ListOffers(ctx, o.ID)
	assert.Len(t, offers, 1)
}

func TestCommit_RejectsSecondAccepted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	o := seedOrder(t, s)

	a := pendingOffer(o.ID, t0.Add(time.Minute))
	b := pendingOffer(o.ID, t0.Add(time.Minute))
	a.Status, b.Status = domain.OfferAccepted, domain.OfferPending
	s.SeedOffer(*a)
	s.SeedOffer(*b)

	err := s.WithTx(ctx, func(tx ordertx.Repository) error {
		cur, _ := tx.GetOfferForUpdate(ctx, b.ID)
		cur.Resolve(domain.OfferAccepted, t0)
		return tx.UpdateOffer(ctx, cur)
	})
	require.ErrorIs(t, err, apperr.ErrConflict)

	got, _ := s.GetOffer(ctx, b.ID)
	assert.Equal(t, domain.OfferPending, got.Status)
}

func TestCancelPendingOffers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	o := seedOrder(t, s)

	p1 := pendingOffer(o.ID, t0.Add(time.Minute))
	p2 := pendingOffer(o.ID, t0.Add(time.Minute))
	declined := pendingOffer(o.ID, t0.Add(time.Minute))
	declined.Status = domain.OfferDeclined
	s.SeedOffer(*p1)
	s.SeedOffer(*p2)
	s.SeedOffer(*declined)

	var cancelled []domain.AssignmentOffer
	require.NoError(t, s.WithTx(ctx, func(tx ordertx.Repository) error {
		var err error
		cancelled, err = tx.CancelPendingOffers(ctx, o.ID, t0)
		return err
	}))
	assert.Len(t, cancelled, 2)

	offers, _ := s.ListOffers(ctx, o.ID)
	for _, off := range offers {
		assert.NotEqual(t, domain.OfferPending, off.Status)
	}
}

func TestAdjustActiveOrders_FlipsAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	courier := uuid.New()
	_, err := s.SetAvailability(ctx, courier, domain.AvailabilityOnline, nil, t0)
	require.NoError(t, err)

	adjustBy := func(delta int) {
		require.NoError(t, s.WithTx(ctx, func(tx ordertx.Repository) error {
			return tx.AdjustActiveOrders(ctx, courier, delta, t0)
		}))
	}

	adjustBy(1)
	a, _ := s.GetAvailability(ctx, courier)
	assert.Equal(t, 1, a.CurrentOrders)
	assert.Equal(t, domain.AvailabilityInDelivery, a.Status)

	adjustBy(-1)
	adjustBy(-1)
	a, _ = s.GetAvailability(ctx, courier)
	assert.Equal(t, 0, a.CurrentOrders)
	assert.Equal(t, domain.AvailabilityOnline, a.Status)
}

func TestExpireOverdueOffers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	o1 := seedOrder(t, s)
	o2 := seedOrder(t, s)

	overdue := pendingOffer(o1.ID, t0)
	fresh := pendingOffer(o2.ID, t0.Add(time.Hour))
	s.SeedOffer(*overdue)
	s.SeedOffer(*fresh)

	expired, err := s.ExpireOverdueOffers(ctx, t0.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, overdue.ID, expired[0].ID)
	assert.Equal(t, domain.OfferExpired, expired[0].Status)

	again, err := s.ExpireOverdueOffers(ctx, t0.Add(time.Second))
	require.NoError(t, err)
	assert.Empty(t, again)

	got, _ := s.GetOffer(ctx, fresh.ID)
	assert.Equal(t, domain.OfferPending, got.Status)
}

func TestExpireOverdueOffers_DeadlineIsExclusive(t *testing.T) {
	t.Parallel()
	s := New()
	o := seedOrder(t, s)
	off := pendingOffer(o.ID, t0)
	s.SeedOffer(*off)

	expired, err := s.ExpireOverdueOffers(context.Background(), t0)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestListAvailableCouriers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	online, offline, full := uuid.New(), uuid.New(), uuid.New()
	_, _ = s.SetAvailability(ctx, online, domain.AvailabilityOnline, nil, t0)
	_, _ = s.SetAvailability(ctx, offline, domain.AvailabilityOffline, nil, t0)
	_, _ = s.SetAvailability(ctx, full, domain.AvailabilityOnline, nil, t0)
	require.NoError(t, s.WithTx(ctx, func(tx ordertx.Repository) error {
		return tx.AdjustActiveOrders(ctx, full, 1, t0)
	}))

	got, err := s.ListAvailableCouriers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, online, got[0].CourierID)
}

func TestRecordPing_UpdatesLastPosition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	courier := uuid.New()
	p := domain.LocationPing{ID: uuid.New(), CourierID: courier, Point: domain.Coordinates{Lat: 40.7, Lon: -74}, CreatedAt: t0}

	require.NoError(t, s.RecordPing(ctx, p))

	a, _ := s.GetAvailability(ctx, courier)
	require.NotNil(t, a.LastPosition)
	assert.Equal(t, p.Point, *a.LastPosition)
	assert.Equal(t, domain.AvailabilityOffline, a.Status)
	assert.Len(t, s.Pings(courier), 1)
}

func TestForUpdate_SerializesWriters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()
	courier := uuid.New()
	_, _ = s.SetAvailability(ctx, courier, domain.AvailabilityOnline, nil, t0)
	o := seedOrder(t, s)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithTx(ctx, func(tx ordertx.Repository) error {
				cur, err := tx.GetOrderForUpdate(ctx, o.ID)
				if err != nil {
					return err
				}
				if cur.HasCourier() {
					return apperr.ErrConflict
				}
				cur.CourierID = &courier
				return tx.UpdateOrder(ctx, cur)
			})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestListUnmatchedOrders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New()

	older := seedOrder(t, s)
	offered := seedOrder(t, s)
	require.NoError(t, s.WithTx(ctx, func(tx ordertx.Repository) error {
		return tx.InsertOffer(ctx, pendingOffer(offered.ID, t0.Add(time.Minute)))
	}))
	newer := &domain.Order{ID: uuid.New(), Status: domain.OrderPending, CreatedAt: t0.Add(time.Second)}
	courier := uuid.New()
	taken := &domain.Order{ID: uuid.New(), Status: domain.OrderCourierAssigned, CourierID: &courier, CreatedAt: t0}
	require.NoError(t, s.WithTx(ctx, func(tx ordertx.Repository) error {
		if err := tx.InsertOrder(ctx, newer); err != nil {
			return err
		}
		return tx.InsertOrder(ctx, taken)
	}))

	ids, err := s.ListUnmatchedOrders(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{older.ID, newer.ID}, ids)

	ids, err = s.ListUnmatchedOrders(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{older.ID}, ids)
}
