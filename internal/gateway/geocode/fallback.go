package geocode

import (
	"context"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/gateway/retry"
	"parcel-dispatch/internal/logx"
)

type geocoder interface {
	Geocode(ctx context.Context, address string) (domain.GeocodeResult, error)
}

// Retrying retries transient failures of next.
type Retrying struct {
	next   geocoder
	policy *retry.Policy
}

// NewRetrying wraps next.
func NewRetrying(next geocoder, policy *retry.Policy) *Retrying {
	return &Retrying{next: next, policy: policy}
}

// Geocode implements the geocoder contract.
func (r *Retrying) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	var res domain.GeocodeResult
	err := r.policy.Do(ctx, "Geocode", func(ctx context.Context) error {
		var err error
		res, err = r.next.Geocode(ctx, address)
		return err
	})
	return res, err
}

// Fallback answers with a fixed approximate point when next fails, so order
// intake keeps working while the provider is down.
type Fallback struct {
	next   geocoder
	point  domain.Coordinates
	logger logx.Logger
}

// NewFallback wraps next with the approximate point.
func NewFallback(next geocoder, point domain.Coordinates, logger logx.Logger) *Fallback {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Fallback{next: next, point: point, logger: logger}
}

// Geocode implements the geocoder contract. It fails only when ctx is done.
func (f *Fallback) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	res, err := f.next.Geocode(ctx, address)
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.GeocodeResult{}, ctxErr
	}
	f.logger.Warn("geocoder failed, using fallback point",
		logx.String("address", address),
		logx.Err(err),
	)
	return domain.GeocodeResult{Point: f.point, Approximate: true}, nil
}
