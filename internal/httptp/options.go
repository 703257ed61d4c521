package httptp

import (
	"net/http"
	"time"
)

// Options configures the subgraph HTTP transport.
//
// Defaults:
// - RequestTimeout:  3s (used only if the incoming context has no deadline)
// - MaxConnsPerHost: 4
//
// EndpointProvider must be provided (use StaticEndpoints or a custom
// implementation). If Provider is nil, the transport errors on fetches.
type Options struct {
	Provider EndpointProvider

	RequestTimeout  time.Duration
	MaxConnsPerHost int

	// ForwardHeaders lists incoming header names copied onto subgraph
	// requests. Names are case-insensitive.
	ForwardHeaders []string

	// Client overrides the default pooled HTTP client.
	Client *http.Client
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		RequestTimeout:  3 * time.Second,
		MaxConnsPerHost: 4,
	}
}

func WithProvider(p EndpointProvider) Option    { return func(o *Options) { o.Provider = p } }
func WithRequestTimeout(d time.Duration) Option { return func(o *Options) { o.RequestTimeout = d } }
func WithMaxConnsPerHost(n int) Option          { return func(o *Options) { o.MaxConnsPerHost = n } }
func WithForwardHeaders(names ...string) Option {
	return func(o *Options) { o.ForwardHeaders = names }
}
func WithClient(c *http.Client) Option { return func(o *Options) { o.Client = c } }
