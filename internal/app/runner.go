package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"parcel-dispatch/internal/config"
	"parcel-dispatch/internal/gateway/notify"
	"parcel-dispatch/internal/http/pprofserver"
	"parcel-dispatch/internal/jobs"
	"parcel-dispatch/internal/logx"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the API process.
type Runner struct {
	runFn func(*dig.Container) error
	exit  func(int)
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run, exit: os.Exit}
}

// MustRun starts the HTTP server using the provided DI container and blocks
// until its context is cancelled.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := containerLogger(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		r.exit(1)
	}
}

// containerLogger falls back to the default slog logger when the container
// cannot build one, e.g. after a config error.
func containerLogger(container *dig.Container) logx.Logger {
	var logger logx.Logger
	if container != nil {
		_ = container.Invoke(func(l logx.Logger) { logger = l })
	}
	if logger == nil {
		logger = logx.NewSlogAdapter(slog.Default())
	}
	return logger
}

func run(container *dig.Container) error {
	return container.Invoke(serve)
}

type serveIn struct {
	dig.In
	Ctx      context.Context
	Config   *config.Config
	Logger   logx.Logger
	Server   *http.Server
	Pprof    *pprofserver.Server
	Job      *jobs.OfferExpiryJob
	Notifier *notify.Async
	Signaler signalCloser
	Pool     *pgxpool.Pool
}

// serve runs the API until ctx is cancelled. Without Kafka the process also
// sweeps expired offers, since no worker consumes the matching topic.
func serve(in serveIn) error {
	defer closeResources(in)

	if !in.Config.Kafka.Enabled() {
		if err := in.Job.Start(); err != nil {
			return err
		}
		defer stopJob(in.Job, in.Logger)
	}

	ln, err := net.Listen("tcp", in.Server.Addr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(in.Ctx)
	g.Go(func() error {
		in.Logger.Info("service-dispatch listening", logx.String("addr", ln.Addr().String()))
		if err := in.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if in.Pprof != nil {
		g.Go(func() error { return in.Pprof.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		in.Logger.Info("shutting down service-dispatch")
		gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return in.Ctx.Err()
}

func stopJob(job *jobs.OfferExpiryJob, logger logx.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := job.Stop(ctx); err != nil {
		logger.Error("expiry job stop error", logx.Err(err))
	}
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in serveIn) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if in.Signaler != nil {
		if err := in.Signaler(ctx); err != nil {
			in.Logger.Error("dispatch signaler close error", logx.Err(err))
		}
	}
	if in.Notifier != nil {
		if err := in.Notifier.Close(ctx); err != nil {
			in.Logger.Error("notifier close error", logx.Err(err))
		}
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
}
