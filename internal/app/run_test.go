package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"parcel-dispatch/internal/logx"
	testlog "parcel-dispatch/internal/testutil"
)

func loggerContainer(t *testing.T, rec *testlog.Recorder) *dig.Container {
	t.Helper()
	c := dig.New()
	require.NoError(t, c.Provide(func() logx.Logger { return rec.Logger() }))
	return c
}

func TestRunner_MustRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantExit bool
	}{
		{name: "clean exit", err: nil},
		{name: "cancelled", err: fmt.Errorf("serve: %w", context.Canceled), wantMsg: "shutdown requested, exiting"},
		{name: "deadline", err: context.DeadlineExceeded, wantMsg: "startup aborted: startup timeout exceeded"},
		{name: "failure", err: errors.New("listen: address in use"), wantMsg: "run error", wantExit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := testlog.New()
			exitCode := -1
			r := &Runner{
				runFn: func(*dig.Container) error { return tt.err },
				exit:  func(code int) { exitCode = code },
			}
			r.MustRun(loggerContainer(t, rec))

			if tt.wantMsg != "" {
				require.Equal(t, 1, rec.Count(tt.wantMsg), "entries: %+v", rec.Entries())
			} else {
				require.Empty(t, rec.Entries())
			}
			if tt.wantExit {
				require.Equal(t, 1, exitCode)
			} else {
				require.Equal(t, -1, exitCode)
			}
		})
	}
}

func TestRunner_MustRun_FallsBackWithoutLogger(t *testing.T) {
	t.Parallel()

	exitCode := -1
	r := &Runner{
		runFn: func(*dig.Container) error { return errors.New("config: bad port") },
		exit:  func(code int) { exitCode = code },
	}
	require.NotPanics(t, func() { r.MustRun(dig.New()) })
	require.Equal(t, 1, exitCode)
}

func TestServe_ServesUntilCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, rec := buildTestContainer(t, ctx, memoryConfig(), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- run(c) }()

	var addr string
	require.Eventually(t, func() bool {
		e, ok := rec.Find("service-dispatch listening")
		if !ok {
			return false
		}
		v, _ := e.Field("addr")
		addr, _ = v.(string)
		return addr != ""
	}, 3*time.Second, 10*time.Millisecond)
	require.True(t, rec.Count("offer expiry job started") > 0)

	resp, err := http.Get("http://" + addr + "/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body)

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
	require.True(t, rec.Count("shutting down service-dispatch") > 0)
	require.True(t, rec.Count("offer expiry job stopped") > 0)
}

func TestServe_ListenError(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.Port = -1
	c, _ := buildTestContainer(t, context.Background(), cfg, nil)

	err := run(c)
	require.Error(t, err)
	require.NotErrorIs(t, err, context.Canceled)
}
