package router

import "errors"

var (
	ErrNotFound        = errors.New("router: no route matched")
	ErrInvalidMatch    = errors.New("router: match has neither a response nor a handler")
	ErrServiceNotFound = errors.New("router: service not found")
	ErrServiceFactory  = errors.New("router: service factory failed")
)

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
