package middlewares

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PanicError is a panic recovered by Recover.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError is returned by Timeout when the deadline passes first.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// Unwrap lets errors.Is match context.DeadlineExceeded.
func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

// AsPanicError extracts the PanicError from err.
func AsPanicError(err error) (*PanicError, bool) {
	return as[*PanicError](err)
}

// AsTimeoutError extracts the TimeoutError from err.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	return as[*TimeoutError](err)
}

func as[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
