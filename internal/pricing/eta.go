package pricing

import (
	"time"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
)

type etaOffset struct {
	pickup   time.Duration
	delivery time.Duration
}

var etaOffsets = map[domain.UrgencyTier]etaOffset{
	domain.UrgencyASAP: {pickup: 15 * time.Minute, delivery: 45 * time.Minute},
	domain.Urgency1H:   {pickup: 30 * time.Minute, delivery: 90 * time.Minute},
	domain.Urgency2H:   {pickup: 60 * time.Minute, delivery: 180 * time.Minute},
}

var defaultETAOffset = etaOffset{pickup: 120 * time.Minute, delivery: 300 * time.Minute}

// scheduledDeliveryWindow is the delivery ETA after an explicitly scheduled pickup.
const scheduledDeliveryWindow = 2 * time.Hour

// EstimateTimes returns pickup and delivery ETAs. A scheduled order with an
// explicit time picks up at exactly that time.
func EstimateTimes(urgency domain.UrgencyTier, now time.Time, scheduledAt *time.Time) (pickup, delivery time.Time) {
	if urgency == domain.UrgencyScheduled && scheduledAt != nil && !scheduledAt.IsZero() {
		return *scheduledAt, scheduledAt.Add(scheduledDeliveryWindow)
	}
	off, ok := etaOffsets[urgency]
	if !ok {
		off = defaultETAOffset
	}
	return now.Add(off.pickup), now.Add(off.delivery)
}

// CheckSchedule validates an explicit pickup time: it belongs to the
// scheduled tier only and must not lie before now.
func CheckSchedule(urgency domain.UrgencyTier, scheduledAt *time.Time, now time.Time) error {
	if scheduledAt == nil {
		return nil
	}
	if urgency != domain.UrgencyScheduled {
		return apperr.Invalid("scheduled_at requires urgency scheduled")
	}
	if scheduledAt.Before(now) {
		return apperr.Invalid("scheduled_at is in the past")
	}
	return nil
}
