package client

import "errors"

// Failure kinds surfaced by Do and the verb methods. Transport-level and
// decoding failures are reported by the transport and codec packages
// (transport.ErrTransport, transport.ErrMalformedResponse,
// codec.ErrDecoding). JSON parse failure is the one soft condition: it is
// reflected as a nil Response.JSON, never as an error.
var (
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrAmbiguousBody     = errors.New("json and raw body are mutually exclusive")
	ErrMissingLocation   = errors.New("redirect response without Location header")
	ErrTooManyRedirects  = errors.New("too many redirects")
)
