package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"parcel-dispatch/internal/apperr"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid", apperr.Invalid("bad urgency"), "validation_error"},
		{"wrapped not found", fmt.Errorf("get order: %w", apperr.ErrNotFound), "not_found"},
		{"transition", apperr.ErrInvalidTransition, "invalid_transition"},
		{"deadline", apperr.ErrDeadlinePassed, "deadline_passed"},
		{"conflict", apperr.New(apperr.ErrConflict, "offer already pending"), "concurrency_conflict"},
		{"upstream", apperr.ErrUpstreamUnavailable, "upstream_unavailable"},
		{"forbidden", apperr.ErrForbidden, "forbidden"},
		{"unknown", errors.New("pq: connection reset"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, apperr.KindOf(tt.err))
		})
	}
}

func TestMessageOf_DoesNotLeakInternalErrors(t *testing.T) {
	t.Parallel()

	require.Equal(t, "internal error", apperr.MessageOf(errors.New("dial tcp 10.0.0.1:5432: refused")))
	require.Equal(t, "bad urgency", apperr.MessageOf(fmt.Errorf("wrap: %w", apperr.Invalid("bad urgency"))))
	require.Equal(t, "not found", apperr.MessageOf(apperr.ErrNotFound))
}

func TestError_IsSentinel(t *testing.T) {
	t.Parallel()

	err := apperr.New(apperr.ErrConflict, "order already has a pending offer")
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.NotErrorIs(t, err, apperr.ErrNotFound)
	require.Equal(t, "conflict: order already has a pending offer", err.Error())
}
