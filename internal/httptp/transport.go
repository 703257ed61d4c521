package httptp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	eventbus "github.com/seamgraph/seamgraph/internal/eventbus"
	events "github.com/seamgraph/seamgraph/internal/events"
	reqid "github.com/seamgraph/seamgraph/internal/reqid"
)

// Request is one GraphQL-over-HTTP request to a subgraph.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// ResponseError is a GraphQL error returned by a subgraph.
type ResponseError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e *ResponseError) Error() string { return e.Message }

// Response is a subgraph's GraphQL response envelope. Data stays raw;
// the caller decides how to fold it into the gateway result.
type Response struct {
	Data   json.RawMessage  `json:"data"`
	Errors []*ResponseError `json:"errors,omitempty"`
}

// Transport sends GraphQL requests to subgraph endpoints over HTTP,
// with per-host connection pooling and deadline propagation. Endpoint
// resolution goes through an EndpointProvider.
type Transport struct {
	opts   *Options
	client *http.Client
	closed atomic.Bool
}

func New(opts ...Option) *Transport {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	client := o.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxConnsPerHost:     o.MaxConnsPerHost,
				MaxIdleConnsPerHost: o.MaxConnsPerHost,
			},
		}
	}
	return &Transport{opts: o, client: client}
}

// Fetch sends req to one of the subgraph's endpoints and decodes the
// response envelope. A non-2xx status or undecodable body is an error;
// GraphQL-level errors come back inside the Response.
func (t *Transport) Fetch(ctx context.Context, subgraph string, req Request) (*Response, error) {
	if t.closed.Load() {
		return nil, ErrClosed
	}
	if t.opts.Provider == nil {
		return nil, fmt.Errorf("httptp: provider not configured")
	}
	if _, ok := ctx.Deadline(); !ok && t.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.RequestTimeout)
		defer cancel()
	}

	endpoints, err := t.opts.Provider.Endpoints(ctx, subgraph)
	if err != nil {
		return nil, err
	}
	endpoint := endpoints[rand.Intn(len(endpoints))]

	start := time.Now()
	eventbus.Publish(ctx, events.FetchStart{Subgraph: subgraph, URL: endpoint})
	resp, status, err := t.roundTrip(ctx, endpoint, req)
	eventbus.Publish(ctx, events.FetchFinish{
		Subgraph: subgraph,
		URL:      endpoint,
		Status:   status,
		Err:      err,
		Duration: time.Since(start),
	})
	return resp, err
}

func (t *Transport) roundTrip(ctx context.Context, endpoint string, req Request) (*Response, int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, fmt.Errorf("httptp: encode request: %w", err)
	}
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Accept", "application/json")
	if id, ok := reqid.FromContext(ctx); ok {
		hr.Header.Set("X-Seamgraph-Request-Id", strconv.FormatInt(id, 10))
	}
	if incoming, ok := headersFromContext(ctx); ok {
		for _, name := range t.opts.ForwardHeaders {
			for _, v := range incoming.Values(name) {
				hr.Header.Add(name, v)
			}
		}
	}

	res, err := t.client.Do(hr)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, res.StatusCode, fmt.Errorf("httptp: %s returned status %d: %s", endpoint, res.StatusCode, truncate(data, 256))
	}
	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, res.StatusCode, fmt.Errorf("httptp: decode response from %s: %w", endpoint, err)
	}
	return &out, res.StatusCode, nil
}

// Close stops the transport and drops idle connections.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.client.CloseIdleConnections()
	return nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// headersKey is the context key for forwarded incoming headers.
type headersKey struct{}

// WithHeaders stores the incoming request headers on ctx so configured
// ones can be forwarded to subgraph fetches.
func WithHeaders(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, headersKey{}, h)
}

func headersFromContext(ctx context.Context) (http.Header, bool) {
	h, ok := ctx.Value(headersKey{}).(http.Header)
	return h, ok
}
