package kafka

import "errors"

// skipError marks a handler failure that redelivery cannot fix.
type skipError struct {
	cause error
}

func (e *skipError) Error() string { return "unretryable: " + e.cause.Error() }

func (e *skipError) Unwrap() error { return e.cause }

// Permanent marks err so the consumer commits the message instead of
// redelivering it. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &skipError{cause: err}
}

// IsPermanent reports whether err or anything it wraps went through Permanent.
func IsPermanent(err error) bool {
	var s *skipError
	return errors.As(err, &s)
}
