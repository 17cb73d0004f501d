package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
)

const availabilityColumns = `
    courier_id, online, status, max_orders, current_orders, last_lat, last_lon, updated_at`

func scanAvailability(row interface{ Scan(dest ...any) error }) (*domain.CourierAvailability, error) {
	var (
		a        domain.CourierAvailability
		lat, lon *float64
	)
	if err := row.Scan(&a.CourierID, &a.Online, &a.Status, &a.MaxOrders, &a.CurrentOrders, &lat, &lon, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		a.LastPosition = &domain.Coordinates{Lat: *lat, Lon: *lon}
	}
	return &a, nil
}

// AdjustActiveOrders - change the courier's active order count by delta.
// Taking an order moves an online courier to in_delivery; dropping to zero
// moves them back.
func (r *TxRepo) AdjustActiveOrders(ctx context.Context, courierID uuid.UUID, delta int, at time.Time) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO courier_availability (courier_id, online, status, max_orders, current_orders, updated_at)
        VALUES ($1, true, $4, $5, GREATEST($2, 0), $3)
        ON CONFLICT (courier_id) DO UPDATE
        SET current_orders = GREATEST(courier_availability.current_orders + $2, 0),
            status = CASE
                WHEN $2 > 0 AND courier_availability.status = $6 THEN $4
                WHEN courier_availability.current_orders + $2 <= 0 AND courier_availability.status = $4 THEN $6
                ELSE courier_availability.status
            END,
            updated_at = $3
    `, courierID, delta, at,
		string(domain.AvailabilityInDelivery), domain.DefaultMaxOrders, string(domain.AvailabilityOnline))
	if err != nil {
		return wrap("adjust active orders", err)
	}
	return nil
}

// GetAvailability - get the courier availability, nil if never set.
func (s *Store) GetAvailability(ctx context.Context, courierID uuid.UUID) (*domain.CourierAvailability, error) {
	a, err := scanAvailability(s.db.QueryRow(ctx,
		`SELECT`+availabilityColumns+` FROM courier_availability WHERE courier_id = $1`, courierID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability %s: %w", courierID, err)
	}
	return a, nil
}

// ListAvailableCouriers - list online couriers with spare capacity.
func (s *Store) ListAvailableCouriers(ctx context.Context) ([]domain.CourierAvailability, error) {
	rows, err := s.db.Query(ctx, `
        SELECT`+availabilityColumns+`
        FROM courier_availability
        WHERE online AND status = $1 AND current_orders < max_orders
        ORDER BY courier_id
    `, string(domain.AvailabilityOnline))
	if err != nil {
		return nil, fmt.Errorf("list available couriers: %w", err)
	}
	defer rows.Close()

	var out []domain.CourierAvailability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability: %w", err)
	}
	return out, nil
}

// SetAvailability - upsert the courier's manual availability.
func (s *Store) SetAvailability(ctx context.Context, courierID uuid.UUID, status domain.AvailabilityStatus, maxOrders *int, at time.Time) (*domain.CourierAvailability, error) {
	a, err := scanAvailability(s.db.QueryRow(ctx, `
        INSERT INTO courier_availability (courier_id, online, status, max_orders, updated_at)
        VALUES ($1, $2, $3, COALESCE($4, $6), $5)
        ON CONFLICT (courier_id) DO UPDATE
        SET online = EXCLUDED.online,
            status = EXCLUDED.status,
            max_orders = COALESCE($4, courier_availability.max_orders),
            updated_at = EXCLUDED.updated_at
        RETURNING`+availabilityColumns,
		courierID, status != domain.AvailabilityOffline, string(status), maxOrders, at, domain.DefaultMaxOrders))
	if err != nil {
		return nil, wrap("set availability", err)
	}
	return a, nil
}

// RecordPing - store a location ping and update the courier's last position.
func (s *Store) RecordPing(ctx context.Context, p domain.LocationPing) error {
	return s.withPlainTx(ctx, func(q querier) error {
		_, err := q.Exec(ctx, `
            INSERT INTO courier_locations (id, courier_id, order_id, lat, lon, accuracy_m, speed_kmh, heading, battery, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        `, p.ID, p.CourierID, p.OrderID, p.Point.Lat, p.Point.Lon,
			p.Telemetry.AccuracyM, p.Telemetry.SpeedKmh, p.Telemetry.Heading, p.Telemetry.Battery, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert ping: %w", err)
		}

		_, err = q.Exec(ctx, `
            INSERT INTO courier_availability (courier_id, status, max_orders, last_lat, last_lon, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (courier_id) DO UPDATE
            SET last_lat = EXCLUDED.last_lat,
                last_lon = EXCLUDED.last_lon,
                updated_at = EXCLUDED.updated_at
        `, p.CourierID, string(domain.AvailabilityOffline), domain.DefaultMaxOrders, p.Point.Lat, p.Point.Lon, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("update last position: %w", err)
		}
		return nil
	})
}
