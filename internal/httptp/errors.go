package httptp

import "errors"

var (
	// ErrNoEndpoints indicates the provider returned no endpoints for a
	// subgraph.
	ErrNoEndpoints = errors.New("httptp: no endpoints available")

	// ErrClosed indicates the transport was closed.
	ErrClosed = errors.New("httptp: closed")
)
