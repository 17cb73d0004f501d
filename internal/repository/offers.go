package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
)

const offerColumns = `
    id, order_id, courier_id, assignment_type, status,
    offered_at, response_deadline, resolved_at, decline_reason, distance_to_pickup`

func scanOffer(row interface{ Scan(dest ...any) error }) (*domain.AssignmentOffer, error) {
	var o domain.AssignmentOffer
	err := row.Scan(&o.ID, &o.OrderID, &o.CourierID, &o.Type, &o.Status,
		&o.OfferedAt, &o.ResponseDeadline, &o.ResolvedAt, &o.DeclineReason, &o.DistanceToPickup)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOffers(rows pgx.Rows) ([]domain.AssignmentOffer, error) {
	defer rows.Close()
	var out []domain.AssignmentOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return out, nil
}

func getOffer(ctx context.Context, q querier, id uuid.UUID, lock bool) (*domain.AssignmentOffer, error) {
	sql := `SELECT` + offerColumns + ` FROM assignment_offers WHERE id = $1`
	if lock {
		sql += ` FOR UPDATE`
	}
	o, err := scanOffer(q.QueryRow(ctx, sql, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, wrap(fmt.Sprintf("get offer %s", id), err)
	}
	return o, nil
}

// InsertOffer - insert a new offer. A second pending offer for the same
// order violates assignment_offers_one_pending and yields apperr.ErrConflict.
func (r *TxRepo) InsertOffer(ctx context.Context, o *domain.AssignmentOffer) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO assignment_offers (`+offerColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, o.ID, o.OrderID, o.CourierID, string(o.Type), string(o.Status),
		o.OfferedAt, o.ResponseDeadline, o.ResolvedAt, o.DeclineReason, o.DistanceToPickup)
	if err != nil {
		return wrap("insert offer", err)
	}
	return nil
}

// GetOfferForUpdate - get an offer and lock its row.
func (r *TxRepo) GetOfferForUpdate(ctx context.Context, id uuid.UUID) (*domain.AssignmentOffer, error) {
	return getOffer(ctx, r.tx, id, true)
}

// UpdateOffer - persist the resolution of an offer.
func (r *TxRepo) UpdateOffer(ctx context.Context, o *domain.AssignmentOffer) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE assignment_offers
        SET status = $2, resolved_at = $3, decline_reason = $4
        WHERE id = $1
    `, o.ID, string(o.Status), o.ResolvedAt, o.DeclineReason)
	if err != nil {
		return wrap(fmt.Sprintf("update offer %s", o.ID), err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "offer not found")
	}
	return nil
}

// CancelPendingOffers - cancel every pending offer of an order.
func (r *TxRepo) CancelPendingOffers(ctx context.Context, orderID uuid.UUID, at time.Time) ([]domain.AssignmentOffer, error) {
	rows, err := r.tx.Query(ctx, `
        UPDATE assignment_offers
        SET status = $2, resolved_at = $3
        WHERE order_id = $1 AND status = $4
        RETURNING`+offerColumns,
		orderID, string(domain.OfferCancelled), at, string(domain.OfferPending))
	if err != nil {
		return nil, wrap("cancel pending offers", err)
	}
	return collectOffers(rows)
}

// GetOffer - get an offer by id, nil if it does not exist.
func (s *Store) GetOffer(ctx context.Context, id uuid.UUID) (*domain.AssignmentOffer, error) {
	return getOffer(ctx, s.db, id, false)
}

// ListOffers - list every offer of an order ordered by offer time.
func (s *Store) ListOffers(ctx context.Context, orderID uuid.UUID) ([]domain.AssignmentOffer, error) {
	rows, err := s.db.Query(ctx, `
        SELECT`+offerColumns+`
        FROM assignment_offers
        WHERE order_id = $1
        ORDER BY offered_at ASC, id ASC
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return collectOffers(rows)
}

// ExpireOverdueOffers - expire pending offers whose deadline is before now.
// Rows locked by an in-flight response are skipped and picked up next run.
func (s *Store) ExpireOverdueOffers(ctx context.Context, now time.Time) ([]domain.AssignmentOffer, error) {
	rows, err := s.db.Query(ctx, `
        UPDATE assignment_offers
        SET status = $1, resolved_at = $2
        WHERE id IN (
            SELECT id FROM assignment_offers
            WHERE status = $3 AND response_deadline < $2
            FOR UPDATE SKIP LOCKED
        )
        RETURNING`+offerColumns,
		string(domain.OfferExpired), now, string(domain.OfferPending))
	if err != nil {
		return nil, wrap("expire overdue offers", err)
	}
	return collectOffers(rows)
}
