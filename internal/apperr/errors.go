package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrInvalidTransition is returned when an order status change is not permitted.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDeadlinePassed is returned when an offer response arrives after its deadline.
var ErrDeadlinePassed = errors.New("deadline passed")

// ErrConflict indicates a lost race for an exclusive resource or a uniqueness conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrUpstreamUnavailable indicates a failing external collaborator.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrForbidden is returned when the caller is not allowed to access a resource.
var ErrForbidden = errors.New("forbidden")

// Error carries a taxonomy kind and a message safe to show to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind with a client-facing message.
func New(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Invalid is a shortcut for New(ErrInvalid, msg).
func Invalid(msg string) error {
	return New(ErrInvalid, msg)
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalid, "validation_error"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrNotFound, "not_found"},
	{ErrDeadlinePassed, "deadline_passed"},
	{ErrConflict, "concurrency_conflict"},
	{ErrUpstreamUnavailable, "upstream_unavailable"},
	{ErrForbidden, "forbidden"},
}

// KindOf returns the stable kind name of err, or "internal" for unclassified errors.
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

// MessageOf returns the client-facing message of err.
// Unclassified errors never leak their text.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err.Error()
		}
	}
	return "internal error"
}
