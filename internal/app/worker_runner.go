package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/config"
	"parcel-dispatch/internal/gateway/notify"
	"parcel-dispatch/internal/jobs"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pubsub"
	"parcel-dispatch/internal/service/dispatch"
	"parcel-dispatch/internal/transport/kafka"
)

type eventHandler interface {
	Handle(ctx context.Context, evt pubsub.Event) error
}

// matchingHandler feeds matching events to the processor. Invalid requests
// are never going to succeed, so they are committed instead of retried.
func matchingHandler(h eventHandler) kafka.HandleFunc {
	return func(ctx context.Context, evt pubsub.Event) error {
		err := h.Handle(ctx, evt)
		if err != nil && errors.Is(err, apperr.ErrInvalid) {
			return kafka.Permanent(err)
		}
		return err
	}
}

func newMatchingConsumer(cfg *config.Config, logger logx.Logger, p *dispatch.Processor) (*kafka.Consumer, error) {
	k := cfg.Kafka
	return kafka.NewConsumer(logger, k.Brokers, k.GroupID, k.MatchingTopic, matchingHandler(p))
}

func registerWorker(container *dig.Container) error {
	return provideAll(container, newMatchingConsumer)
}

// WorkerRunner runs the matching worker.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun runs the worker and panics on any error but cancellation.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

type workerIn struct {
	dig.In
	Ctx      context.Context
	Logger   logx.Logger
	Consumer *kafka.Consumer
	Job      *jobs.OfferExpiryJob
	Notifier *notify.Async
}

func workerRun(in workerIn) error {
	if in.Consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(in)

	if err := in.Job.Start(); err != nil {
		return err
	}
	defer stopJob(in.Job, in.Logger)

	in.Logger.Info("service-dispatch-worker started")
	return in.Consumer.Run(in.Ctx)
}

func closeWorker(in workerIn) {
	if err := in.Consumer.Close(); err != nil {
		in.Logger.Error("kafka close error", logx.Err(err))
	}
	if in.Notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := in.Notifier.Close(ctx); err != nil {
			in.Logger.Error("notifier close error", logx.Err(err))
		}
	}
}
