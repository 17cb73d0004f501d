// Package metrics declares the Prometheus collectors of the dispatch service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}

// NewDispatchOffersTotal counts assignment offers by outcome:
// created, accepted, declined, expired or cancelled.
func NewDispatchOffersTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_offers_total",
		Help: "Total number of assignment offers by outcome",
	}, []string{"outcome"})
}

// NewPubSubDroppedTotal counts real-time events lost to full subscriber buffers.
func NewPubSubDroppedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pubsub_dropped_events_total",
		Help: "Total number of real-time events dropped because a subscriber buffer was full",
	})
}

// NewNotificationFailuresTotal counts notifications the provider never accepted.
func NewNotificationFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Total number of notifications that could not be delivered",
	})
}
