package rest

import "errors"

// ErrInvalidRequest is returned for method and path combinations the
// controller does not serve.
var ErrInvalidRequest = errors.New("rest: invalid request")
