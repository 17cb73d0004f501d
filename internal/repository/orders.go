package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
)

const orderColumns = `
    id, sender_id, courier_id,
    pickup_address, pickup_lat, pickup_lon, pickup_approximate,
    delivery_address, delivery_lat, delivery_lon, delivery_approximate,
    package_id, package_type, package_size, weight_kg, declared_value, fragile,
    pickup_condition, delivery_condition,
    urgency, status, distance_km,
    price_base, price_urgency, price_size, price_handling, price_service, price_tax, price_total,
    payment_status, transaction_id,
    estimated_pickup_at, estimated_delivery_at, actual_pickup_at, actual_delivery_at,
    cancelled_by, cancel_reason, cancelled_at,
    created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.SenderID, &o.CourierID,
		&o.Pickup.Line, &o.Pickup.Point.Lat, &o.Pickup.Point.Lon, &o.Pickup.Approximate,
		&o.Delivery.Line, &o.Delivery.Point.Lat, &o.Delivery.Point.Lon, &o.Delivery.Approximate,
		&o.Package.ID, &o.Package.Type, &o.Package.Size, &o.Package.WeightKg, &o.Package.DeclaredValue, &o.Package.Fragile,
		&o.Package.PickupCondition, &o.Package.DeliveryCondition,
		&o.Urgency, &o.Status, &o.DistanceKm,
		&o.Price.Base, &o.Price.UrgencyPremium, &o.Price.SizePremium, &o.Price.HandlingFee,
		&o.Price.ServiceFee, &o.Price.Tax, &o.Price.Total,
		&o.PaymentStatus, &o.TransactionID,
		&o.EstimatedPickupAt, &o.EstimatedDeliveryAt, &o.ActualPickupAt, &o.ActualDeliveryAt,
		&o.CancelledBy, &o.CancelReason, &o.CancelledAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func getOrder(ctx context.Context, q querier, id uuid.UUID, lock bool) (*domain.Order, error) {
	sql := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`
	if lock {
		sql += ` FOR UPDATE`
	}
	o, err := scanOrder(q.QueryRow(ctx, sql, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrap(fmt.Sprintf("get order %s", id), err)
	}
	return o, nil
}

// InsertOrder - insert a new order.
func (r *TxRepo) InsertOrder(ctx context.Context, o *domain.Order) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO orders (`+orderColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
                $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40)
    `,
		o.ID, o.SenderID, o.CourierID,
		o.Pickup.Line, o.Pickup.Point.Lat, o.Pickup.Point.Lon, o.Pickup.Approximate,
		o.Delivery.Line, o.Delivery.Point.Lat, o.Delivery.Point.Lon, o.Delivery.Approximate,
		o.Package.ID, o.Package.Type, string(o.Package.Size), o.Package.WeightKg, o.Package.DeclaredValue, o.Package.Fragile,
		o.Package.PickupCondition, o.Package.DeliveryCondition,
		string(o.Urgency), string(o.Status), o.DistanceKm,
		o.Price.Base, o.Price.UrgencyPremium, o.Price.SizePremium, o.Price.HandlingFee,
		o.Price.ServiceFee, o.Price.Tax, o.Price.Total,
		string(o.PaymentStatus), o.TransactionID,
		o.EstimatedPickupAt, o.EstimatedDeliveryAt, o.ActualPickupAt, o.ActualDeliveryAt,
		o.CancelledBy, o.CancelReason, o.CancelledAt,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return wrap("insert order", err)
	}
	return nil
}

// GetOrderForUpdate - get an order and lock its row until the transaction ends.
func (r *TxRepo) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return getOrder(ctx, r.tx, id, true)
}

// UpdateOrder - persist the mutable part of an order.
func (r *TxRepo) UpdateOrder(ctx context.Context, o *domain.Order) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET courier_id = $2,
            status = $3,
            payment_status = $4,
            transaction_id = $5,
            actual_pickup_at = $6,
            actual_delivery_at = $7,
            cancelled_by = $8,
            cancel_reason = $9,
            cancelled_at = $10,
            updated_at = $11
        WHERE id = $1
    `,
		o.ID, o.CourierID, string(o.Status), string(o.PaymentStatus), o.TransactionID,
		o.ActualPickupAt, o.ActualDeliveryAt,
		o.CancelledBy, o.CancelReason, o.CancelledAt,
		o.UpdatedAt,
	)
	if err != nil {
		return wrap(fmt.Sprintf("update order %s", o.ID), err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "order not found")
	}
	return nil
}

// AppendHistory - append a status history entry.
func (r *TxRepo) AppendHistory(ctx context.Context, e domain.StatusHistoryEntry) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO order_status_history (id, order_id, previous_status, status, actor_id, note, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, e.ID, e.OrderID, string(e.Previous), string(e.Current), e.Actor, e.Note, e.CreatedAt)
	if err != nil {
		return wrap("append history", err)
	}
	return nil
}

// GetOrder - get an order by id, nil if it does not exist.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return getOrder(ctx, s.db, id, false)
}

// ListHistory - list the status history of an order in commit order.
func (s *Store) ListHistory(ctx context.Context, orderID uuid.UUID) ([]domain.StatusHistoryEntry, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, order_id, previous_status, status, actor_id, note, created_at
        FROM order_status_history
        WHERE order_id = $1
        ORDER BY seq ASC
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusHistoryEntry
	for rows.Next() {
		var e domain.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Previous, &e.Current, &e.Actor, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// ListUnmatchedOrders - list pending orders without a courier or a pending
// offer, oldest first.
func (s *Store) ListUnmatchedOrders(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `
        SELECT o.id
        FROM orders o
        WHERE o.status = $1
          AND o.courier_id IS NULL
          AND NOT EXISTS (
              SELECT 1 FROM assignment_offers a
              WHERE a.order_id = o.id AND a.status = $2
          )
        ORDER BY o.created_at ASC
        LIMIT $3
    `, string(domain.OrderPending), string(domain.OfferPending), limit)
	if err != nil {
		return nil, wrap("list unmatched orders", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unmatched order: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unmatched orders: %w", err)
	}
	return out, nil
}
