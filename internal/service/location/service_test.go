package location_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/ports/ordertx"
	"parcel-dispatch/internal/pubsub"
	"parcel-dispatch/internal/repository/memory"
	"parcel-dispatch/internal/service/location"
	testlog "parcel-dispatch/internal/testutil"
)

type fixture struct {
	store   *memory.Store
	hub     *pubsub.Hub
	svc     *location.Service
	order   *domain.Order
	courier uuid.UUID
}

func newFixture(t *testing.T, assigned bool) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{store: memory.New(), hub: pubsub.NewHub(), courier: uuid.New()}
	f.order = &domain.Order{ID: uuid.New(), SenderID: uuid.New(), Status: domain.OrderPending}
	if assigned {
		c := f.courier
		f.order.CourierID = &c
		f.order.Status = domain.OrderCourierAssigned
	}
	require.NoError(t, f.store.WithTx(ctx, func(tx ordertx.Repository) error {
		return tx.InsertOrder(ctx, f.order)
	}))
	f.svc = location.NewService(f.store, f.hub, time.Second, logx.Nop())
	return f
}

func receive(t *testing.T, sub *pubsub.Subscription) pubsub.Event {
	t.Helper()
	select {
	case evt := <-sub.C():
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return pubsub.Event{}
	}
}

func TestPublishPing_BroadcastsToOrderChannel(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	ctx := context.Background()

	sub, err := f.svc.Subscribe(ctx, f.order.ID, f.order.SenderID)
	require.NoError(t, err)
	defer sub.Close()

	orderID := f.order.ID
	p, err := f.svc.PublishPing(ctx, location.PingInput{
		CourierID: f.courier,
		OrderID:   &orderID,
		Point:     domain.Coordinates{Lat: 40.75, Lon: -73.99},
		Telemetry: domain.Telemetry{SpeedKmh: 12, Battery: 77},
	})
	require.NoError(t, err)

	evt := receive(t, sub)
	assert.Equal(t, pubsub.EventLocationUpdate, evt.Type)
	assert.Equal(t, f.order.ID.String(), evt.OrderID)

	var payload struct {
		Coordinates domain.Coordinates `json:"coordinates"`
		Telemetry   domain.Telemetry   `json:"telemetry"`
	}
	require.NoError(t, json.Unmarshal(evt.Data, &payload))
	assert.Equal(t, p.Point, payload.Coordinates)
	assert.Equal(t, 77, payload.Telemetry.Battery)

	a, err := f.store.GetAvailability(ctx, f.courier)
	require.NoError(t, err)
	require.NotNil(t, a.LastPosition)
	assert.Equal(t, p.Point, *a.LastPosition)
}

func TestPublishPing_WithoutOrderOnlyStores(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	ctx := context.Background()

	sub, err := f.svc.Subscribe(ctx, f.order.ID, f.order.SenderID)
	require.NoError(t, err)
	defer sub.Close()

	_, err = f.svc.PublishPing(ctx, location.PingInput{CourierID: f.courier, Point: domain.Coordinates{Lat: 1, Lon: 1}})
	require.NoError(t, err)
	assert.Len(t, f.store.Pings(f.courier), 1)

	select {
	case evt := <-sub.C():
		t.Fatalf("unexpected event %s", evt.Type)
	default:
	}
}

func TestPublishPing_UnassignedCourierNotBroadcast(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()
	rec := testlog.New()
	svc := location.NewService(f.store, f.hub, time.Second, rec.Logger())

	sub, err := svc.Subscribe(ctx, f.order.ID, f.order.SenderID)
	require.NoError(t, err)
	defer sub.Close()

	orderID := f.order.ID
	_, err = svc.PublishPing(ctx, location.PingInput{CourierID: f.courier, OrderID: &orderID, Point: domain.Coordinates{Lat: 1, Lon: 1}})
	require.NoError(t, err)
	assert.Len(t, f.store.Pings(f.courier), 1)

	select {
	case evt := <-sub.C():
		t.Fatalf("unexpected event %s", evt.Type)
	default:
	}

	var warned bool
	for _, e := range rec.Entries() {
		if e.Level == "warn" && e.Msg == "ping not broadcast: courier is not assigned to order" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestPublishPing_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	cases := map[string]location.PingInput{
		"missing courier": {Point: domain.Coordinates{Lat: 1, Lon: 1}},
		"latitude":        {CourierID: f.courier, Point: domain.Coordinates{Lat: 91, Lon: 1}},
		"longitude":       {CourierID: f.courier, Point: domain.Coordinates{Lat: 1, Lon: -181}},
		"battery":         {CourierID: f.courier, Point: domain.Coordinates{Lat: 1, Lon: 1}, Telemetry: domain.Telemetry{Battery: 101}},
	}
	for name, in := range cases {
		in := in
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.PublishPing(context.Background(), in)
			require.ErrorIs(t, err, apperr.ErrInvalid)
		})
	}
	assert.Empty(t, f.store.Pings(f.courier))
}

func TestPublishPing_StoreError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	hub := NewMockHub(ctrl)
	svc := location.NewService(store, hub, time.Second, logx.Nop())

	boom := errors.New("db down")
	store.EXPECT().RecordPing(gomock.Any(), gomock.Any()).Return(boom)

	_, err := svc.PublishPing(context.Background(), location.PingInput{CourierID: uuid.New(), Point: domain.Coordinates{}})
	require.ErrorIs(t, err, boom)
}

func TestSubscribe_Authorization(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	ctx := context.Background()

	sub, err := f.svc.Subscribe(ctx, f.order.ID, f.courier)
	require.NoError(t, err)
	sub.Close()

	_, err = f.svc.Subscribe(ctx, f.order.ID, uuid.New())
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Subscribe(ctx, uuid.New(), f.order.SenderID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Subscribe(ctx, f.order.ID, uuid.Nil)
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestPublishStatus_EvictsReassignedCourier(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)
	ctx := context.Background()

	senderSub, err := f.svc.Subscribe(ctx, f.order.ID, f.order.SenderID)
	require.NoError(t, err)
	defer senderSub.Close()
	courierSub, err := f.svc.Subscribe(ctx, f.order.ID, f.courier)
	require.NoError(t, err)

	reassigned := *f.order
	other := uuid.New()
	reassigned.CourierID = &other
	f.svc.PublishStatus(reassigned, domain.StatusHistoryEntry{
		OrderID:   f.order.ID,
		Previous:  domain.OrderCourierAssigned,
		Current:   domain.OrderPickupInProgress,
		Actor:     other,
		CreatedAt: time.Now(),
	})

	evt := receive(t, senderSub)
	assert.Equal(t, pubsub.EventOrderStatusChange, evt.Type)

	_, open := <-courierSub.C()
	assert.False(t, open, "evicted subscription is closed")
	assert.Equal(t, 1, f.hub.Subscribers(pubsub.OrderChannel(f.order.ID.String())))
}
