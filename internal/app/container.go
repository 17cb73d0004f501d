package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"parcel-dispatch/internal/config"
	"parcel-dispatch/internal/http/handlers"
	"parcel-dispatch/internal/http/middleware"
	"parcel-dispatch/internal/http/middleware/ratelimit"
	"parcel-dispatch/internal/http/pprofserver"
	"parcel-dispatch/internal/http/router"
	"parcel-dispatch/internal/logx"
)

const (
	operationTimeout = 3 * time.Second
	requestTimeout   = 5 * time.Second
	dbConnectRetries = 10
	dbConnectDelay   = time.Second
)

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  dbConnectFunc
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:  connectDbWithRetry,
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithConfig replaces config loading with a fixed configuration.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the container used by the matching worker.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err == nil {
		err = registerWorker(container)
	}
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerStorage(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the matching worker container.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		NewLogger,
		newRegistry,
		newMetrics,
	)
}

func registerStorage(container *dig.Container, dbConnect dbConnectFunc) error {
	return provideAll(container, storageProvider(dbConnect))
}

type routerIn struct {
	dig.In
	Logger    logx.Logger
	Registry  *prometheus.Registry
	Metrics   *middleware.HTTPMetrics
	RateLimit *ratelimit.Middleware
	Base      *handlers.Handlers
	Pricing   *handlers.PricingHandler
	Orders    *handlers.OrderHandler
	Dispatch  *handlers.DispatchHandler
	Couriers  *handlers.CourierHandler
	Stream    *handlers.StreamHandler
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Handlers{
		Base:     in.Base,
		Pricing:  in.Pricing,
		Orders:   in.Orders,
		Dispatch: in.Dispatch,
		Couriers: in.Couriers,
		Stream:   in.Stream,
	}, router.Options{
		Logger:         in.Logger,
		Metrics:        in.Metrics,
		RateLimit:      in.RateLimit,
		Gatherer:       in.Registry,
		RequestTimeout: requestTimeout,
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler, stream *handlers.StreamHandler) *http.Server {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		srv.RegisterOnShutdown(stream.Shutdown)
		return srv
	}
	pprofProvider := func(cfg *config.Config, logger logx.Logger) *pprofserver.Server {
		p := cfg.Pprof
		return pprofserver.New(pprofserver.Config{
			Enabled: p.Enabled,
			Addr:    p.Addr,
			User:    p.User,
			Pass:    p.Pass,
		}, logger)
	}
	return provideAll(container,
		handlers.New,
		newPricingHandler,
		handlers.NewOrderUsecase,
		handlers.NewOrderHandler,
		handlers.NewDispatchUsecase,
		handlers.NewDispatchHandler,
		handlers.NewCourierUsecase,
		handlers.NewLocationUsecase,
		handlers.NewCourierHandler,
		handlers.NewStreamHandler,
		newRateLimit,
		newRouter,
		serverProvider,
		pprofProvider,
	)
}
