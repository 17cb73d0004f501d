package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"parcel-dispatch/internal/config"
	"parcel-dispatch/internal/http/middleware/ratelimit"
	"parcel-dispatch/internal/logx"
)

// rateLimitIn carries the inputs of the per-client API limit. Clock is
// optional; the wall clock is used when nothing provides one.
type rateLimitIn struct {
	dig.In
	Config   *config.Config
	Logger   logx.Logger
	Rejected prometheus.Counter `name:"rate_limit_exceeded_total"`
	Clock    ratelimit.Clock    `optional:"true"`
}

// newRateLimit keeps the middleware in the chain even when the limit is off,
// so the route layout does not depend on configuration.
func newRateLimit(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Rejected, limiterFor(in.Config.RateLimit, in.Clock))
}

func limiterFor(rl config.RateLimit, clock ratelimit.Clock) ratelimit.Limiter {
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	if clock == nil {
		clock = ratelimit.RealClock{}
	}
	return ratelimit.NewTokenBucketLimiter(clock, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}
