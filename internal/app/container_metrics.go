package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"parcel-dispatch/internal/http/middleware"
	"parcel-dispatch/internal/metrics"
)

func newRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return reg, nil
}

type metricsOut struct {
	dig.Out
	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	GatewayRetries    prometheus.Counter `name:"gateway_retries_total"`
	PubSubDropped     prometheus.Counter `name:"pubsub_dropped_events_total"`
	NotifyFailures    prometheus.Counter `name:"notification_failures_total"`
	DispatchOffers    *prometheus.CounterVec
	HTTP              *middleware.HTTPMetrics
}

func newMetrics(reg *prometheus.Registry) (metricsOut, error) {
	out := metricsOut{
		RateLimitExceeded: metrics.NewRateLimitExceededTotal(),
		GatewayRetries:    metrics.NewGatewayRetriesTotal(),
		PubSubDropped:     metrics.NewPubSubDroppedTotal(),
		NotifyFailures:    metrics.NewNotificationFailuresTotal(),
		DispatchOffers:    metrics.NewDispatchOffersTotal(),
	}
	for _, c := range []prometheus.Collector{
		out.RateLimitExceeded,
		out.GatewayRetries,
		out.PubSubDropped,
		out.NotifyFailures,
		out.DispatchOffers,
	} {
		if err := reg.Register(c); err != nil {
			return metricsOut{}, fmt.Errorf("register metrics: %w", err)
		}
	}
	out.HTTP = middleware.NewHTTPMetrics(reg)
	return out, nil
}
