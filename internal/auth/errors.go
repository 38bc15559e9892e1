package auth

import "errors"

var (
	ErrNoSession = errors.New("auth: no session on request")
)
