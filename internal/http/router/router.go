package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parcel-dispatch/internal/http/handlers"
	"parcel-dispatch/internal/http/middleware"
	"parcel-dispatch/internal/http/middleware/ratelimit"
	"parcel-dispatch/internal/logx"
)

const defaultRequestTimeout = 5 * time.Second

// Handlers groups the endpoint handlers mounted by New.
type Handlers struct {
	Base     *handlers.Handlers
	Pricing  *handlers.PricingHandler
	Orders   *handlers.OrderHandler
	Dispatch *handlers.DispatchHandler
	Couriers *handlers.CourierHandler
	Stream   *handlers.StreamHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	Logger         logx.Logger
	Metrics        *middleware.HTTPMetrics
	RateLimit      *ratelimit.Middleware
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
// The stream endpoint holds a hijacked connection and stays outside the
// request timeout.
func New(h Handlers, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observability(opts.Logger, opts.Metrics))
	r.Use(chimw.Recoverer)

	r.NotFound(h.Base.NotFound)
	r.MethodNotAllowed(h.Base.MethodNotAllowed)

	r.Get("/ping", h.Base.Ping)
	r.Head("/healthcheck", h.Base.HealthcheckHead)
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit.Handler())
		}

		r.Get("/orders/{id}/stream", h.Stream.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(opts.RequestTimeout))

			r.Post("/pricing/estimate", h.Pricing.Estimate)

			r.Post("/orders", h.Orders.Create)
			r.Get("/orders/{id}", h.Orders.Get)
			r.Put("/orders/{id}", h.Orders.Update)
			r.Get("/orders/{id}/history", h.Orders.History)
			r.Post("/orders/{id}/pay", h.Orders.Pay)
			r.Post("/orders/{id}/offers", h.Dispatch.CreateOffer)

			r.Post("/assignments/{id}/respond", h.Dispatch.Respond)

			r.Post("/couriers/location", h.Couriers.UpdateLocation)
			r.Put("/couriers/{id}/availability", h.Couriers.SetAvailability)
			r.Get("/couriers/{id}/availability", h.Couriers.GetAvailability)
		})
	})

	return r
}
