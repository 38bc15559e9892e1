package oauth

import "errors"

var (
	ErrMissingClientID     = errors.New("oauth: missing client ID")
	ErrMissingClientSecret = errors.New("oauth: missing client secret")
	ErrFetchFailed         = errors.New("oauth: failed to fetch from provider")
	ErrRequestFailed       = errors.New("oauth: request returned non-OK status")
	ErrDecodeFailed        = errors.New("oauth: failed to decode response")
	// ErrStateMismatch is returned by callers when the callback state differs
	// from the one issued.
	ErrStateMismatch = errors.New("oauth: state mismatch")
)
