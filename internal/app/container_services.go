package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"parcel-dispatch/internal/config"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/gateway/geocode"
	"parcel-dispatch/internal/gateway/notify"
	"parcel-dispatch/internal/gateway/payment"
	"parcel-dispatch/internal/gateway/retry"
	"parcel-dispatch/internal/http/handlers"
	"parcel-dispatch/internal/jobs"
	"parcel-dispatch/internal/keylock"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pricing"
	"parcel-dispatch/internal/pubsub"
	"parcel-dispatch/internal/service/courier"
	"parcel-dispatch/internal/service/dispatch"
	"parcel-dispatch/internal/service/location"
	"parcel-dispatch/internal/service/orders"
	"parcel-dispatch/internal/transport/inproc"
	"parcel-dispatch/internal/transport/kafka"
)

const (
	signalQueueSize   = 256
	notifySendTimeout = 5 * time.Second
	expiryJobTimeout  = 30 * time.Second
)

var geocodeRetry = retry.Config{
	MaxAttempts: 3,
	BaseDelay:   50 * time.Millisecond,
	MaxDelay:    500 * time.Millisecond,
}

func registerGateways(container *dig.Container) error {
	return provideAll(container,
		keylock.New,
		newHub,
		newPricingEngine,
		newNotifier,
		newGeocoder,
		func(logger logx.Logger) orders.PaymentGateway { return payment.NewSandbox(logger) },
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(store Storage, hub *pubsub.Hub, logger logx.Logger) *location.Service {
			return location.NewService(store, hub, operationTimeout, logger)
		},
		newDispatchService,
		func(svc *dispatch.Service, logger logx.Logger) *dispatch.Processor {
			return dispatch.NewProcessor(svc, logger)
		},
		newSignaler,
		newOrderService,
		func(store Storage, logger logx.Logger) *courier.Service {
			return courier.NewService(store, operationTimeout, logger)
		},
		newExpiryJob,
	)
}

type hubIn struct {
	dig.In
	Dropped prometheus.Counter `name:"pubsub_dropped_events_total"`
}

func newHub(in hubIn) *pubsub.Hub {
	return pubsub.NewHub(pubsub.WithDroppedCounter(in.Dropped))
}

func newPricingEngine(cfg *config.Config) (*pricing.Engine, error) {
	tariff := pricing.DefaultConfig()
	tariff.BaseRate = cfg.Pricing.BaseRate
	tariff.PerKmRate = cfg.Pricing.PerKmRate
	return pricing.NewEngine(tariff)
}

func newPricingHandler(logger logx.Logger, engine *pricing.Engine) *handlers.PricingHandler {
	return handlers.NewPricingHandler(logger, engine)
}

type gatewayIn struct {
	dig.In
	Config   *config.Config
	Logger   logx.Logger
	Retries  prometheus.Counter `name:"gateway_retries_total"`
	Failures prometheus.Counter `name:"notification_failures_total"`
}

func newNotifier(in gatewayIn) *notify.Async {
	n := in.Config.Notify
	policy := retry.New("notify", retry.Config{
		MaxAttempts: n.MaxAttempts,
		BaseDelay:   n.BaseDelay,
		MaxDelay:    n.MaxDelay,
	}, in.Logger, in.Retries)
	return notify.NewAsync(
		notify.NewRetrying(notify.NewLogNotifier(in.Logger), policy),
		notify.AsyncConfig{Workers: n.Workers, QueueSize: n.QueueSize, SendTimeout: notifySendTimeout},
		in.Logger,
		in.Failures,
	)
}

func newGeocoder(in gatewayIn) orders.Geocoder {
	policy := retry.New("geocode", geocodeRetry, in.Logger, in.Retries)
	fallback := domain.Coordinates{Lat: in.Config.Geocoder.FallbackLat, Lon: in.Config.Geocoder.FallbackLon}
	return geocode.NewFallback(geocode.NewRetrying(geocode.NewStatic(nil), policy), fallback, in.Logger)
}

type dispatchIn struct {
	dig.In
	Config    *config.Config
	Logger    logx.Logger
	Store     Storage
	Notifier  *notify.Async
	Publisher *location.Service
	Locks     *keylock.Map
	Offers    *prometheus.CounterVec
}

func newDispatchService(in dispatchIn) *dispatch.Service {
	return dispatch.NewService(dispatch.Deps{
		Store:     in.Store,
		Notifier:  in.Notifier,
		Publisher: in.Publisher,
		Locks:     in.Locks,
		Offers:    in.Offers,
	}, dispatch.Config{
		ResponseWindow:   in.Config.Dispatch.ResponseWindow,
		MatchRadiusKm:    in.Config.Dispatch.MatchRadiusKm,
		OperationTimeout: operationTimeout,
	}, in.Logger)
}

// signalCloser releases whatever carries dispatch signals.
type signalCloser func(context.Context) error

type signalerOut struct {
	dig.Out
	Signaler orders.DispatchSignaler
	Close    signalCloser
}

// newSignaler publishes matching requests to Kafka when brokers are set and
// otherwise hands them straight to the processor in this process.
func newSignaler(cfg *config.Config, logger logx.Logger, p *dispatch.Processor) (signalerOut, error) {
	if cfg.Kafka.Enabled() {
		prod, err := kafka.NewProducer(logger, cfg.Kafka.Brokers, cfg.Kafka.MatchingTopic)
		if err != nil {
			return signalerOut{}, fmt.Errorf("kafka producer: %w", err)
		}
		if prod != nil {
			return signalerOut{
				Signaler: prod,
				Close:    func(context.Context) error { return prod.Close() },
			}, nil
		}
	}
	s := inproc.NewSignaler(p.Handle, signalQueueSize, operationTimeout, logger)
	return signalerOut{Signaler: s, Close: s.Close}, nil
}

type orderServiceIn struct {
	dig.In
	Logger    logx.Logger
	Store     Storage
	Pricing   *pricing.Engine
	Geocoder  orders.Geocoder
	Payments  orders.PaymentGateway
	Signaler  orders.DispatchSignaler
	Publisher *location.Service
	Locks     *keylock.Map
	Offers    *prometheus.CounterVec
}

func newOrderService(in orderServiceIn) *orders.Service {
	return orders.NewService(orders.Deps{
		Store:     in.Store,
		Pricing:   in.Pricing,
		Geocoder:  in.Geocoder,
		Payments:  in.Payments,
		Signaler:  in.Signaler,
		Publisher: in.Publisher,
		Locks:     in.Locks,
		Offers:    in.Offers,
	}, operationTimeout, in.Logger)
}

func newExpiryJob(cfg *config.Config, svc *dispatch.Service, p *dispatch.Processor, logger logx.Logger) *jobs.OfferExpiryJob {
	return jobs.NewOfferExpiryJob(svc, p, cfg.Dispatch.SweepSchedule, expiryJobTimeout, logger)
}
