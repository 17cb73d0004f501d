package retry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"parcel-dispatch/internal/apperr"
	testlog "parcel-dispatch/internal/testutil"
)

type counterStub struct{ n int64 }

func (c *counterStub) Inc() { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 {
	return atomic.LoadInt64(&c.n)
}

func TestPolicy_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	ctr := &counterStub{}
	p := New("notify", Config{MaxAttempts: 5}, rec.Logger(), ctr)

	var calls int32
	err := p.Do(context.Background(), "Send", func(context.Context) error {
		switch atomic.AddInt32(&calls, 1) {
		case 1, 2:
			return status.Error(codes.Unavailable, "unavailable")
		default:
			return nil
		}
	})

	require.NoError(t, err)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Equal(t, int64(2), ctr.Count())

	entries := rec.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "warn", entries[0].Level)
	require.Equal(t, "gateway retry", entries[0].Msg)
}

func TestPolicy_NoRetryOnPermanentError(t *testing.T) {
	t.Parallel()

	ctr := &counterStub{}
	p := New("payment", Config{MaxAttempts: 5}, testlog.New().Logger(), ctr)

	var calls int32
	err := p.Do(context.Background(), "Charge", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return status.Error(codes.InvalidArgument, "bad request")
	})

	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Zero(t, ctr.Count())
}

func TestPolicy_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	ctr := &counterStub{}
	p := New("geocode", Config{MaxAttempts: 3}, nil, ctr)

	var calls int32
	err := p.Do(context.Background(), "Geocode", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return fmt.Errorf("lookup: %w", apperr.ErrUpstreamUnavailable)
	})

	require.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Equal(t, int64(2), ctr.Count())
}

func TestPolicy_StopsWhenContextEnds(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := New("notify", Config{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}, nil, nil)

	var calls int32
	err := p.Do(ctx, "Send", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		cancel()
		return status.Error(codes.Unavailable, "unavailable")
	})

	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	require.True(t, IsRetryable(status.Error(codes.ResourceExhausted, "rate limit")))
	require.True(t, IsRetryable(status.Error(codes.DeadlineExceeded, "slow")))
	require.True(t, IsRetryable(context.DeadlineExceeded))
	require.True(t, IsRetryable(apperr.New(apperr.ErrUpstreamUnavailable, "down")))
	require.False(t, IsRetryable(status.Error(codes.NotFound, "missing")))
	require.False(t, IsRetryable(errors.New("plain")))
	require.False(t, IsRetryable(apperr.Invalid("bad")))
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	require.Equal(t, base, Backoff(base, time.Second, 1))
	require.Equal(t, 400*time.Millisecond, Backoff(base, time.Second, 3))
	require.Equal(t, time.Second, Backoff(base, time.Second, 5))
}
