package domain

import "errors"

// Error taxonomy shared by the app layer and the HTTP handlers. Adapters
// attach upstream detail by wrapping, e.g. fmt.Errorf("%w: %s", ErrUpstream, body),
// so callers can both errors.Is on the class and forward the message.
var (
	ErrInvalidParams   = errors.New("invalid parameters")
	ErrUpstream        = errors.New("upstream error")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrParse           = errors.New("failed to parse upstream response")
)
